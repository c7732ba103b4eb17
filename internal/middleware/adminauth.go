package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
	"github.com/hatchpoint/intake-api/pkg/response"
)

type adminAuthorizer interface {
	VerifySessionToken(raw string) bool
	VerifyPassword(candidate string) bool
}

// AdminGate protects the admin surface behind a single predicate: a valid
// short-lived session cookie (minted by the login endpoint) or HTTP Basic
// credentials whose password matches the shared secret. The username part of
// Basic credentials is ignored.
func AdminGate(auth adminAuthorizer, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(cookieName); err == nil && auth.VerifySessionToken(cookie) {
			c.Next()
			return
		}

		if pass, ok := basicPassword(c.GetHeader("Authorization")); ok && auth.VerifyPassword(pass) {
			c.Next()
			return
		}

		c.Header("WWW-Authenticate", `Basic realm="Admin Area"`)
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized"))
		c.Abort()
	}
}

// basicPassword extracts the password from a Basic Authorization header.
func basicPassword(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", false
	}
	_, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", false
	}
	return pass, true
}
