package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type authorizerStub struct {
	validToken    string
	validPassword string
}

func (a *authorizerStub) VerifySessionToken(raw string) bool {
	return raw != "" && raw == a.validToken
}

func (a *authorizerStub) VerifyPassword(candidate string) bool {
	return candidate != "" && candidate == a.validPassword
}

func newGateRouter(auth *authorizerStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminGate(auth, "admin-once"), func(c *gin.Context) {
		c.String(http.StatusOK, "listing")
	})
	return r
}

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestAdminGateRejectsAnonymous(t *testing.T) {
	r := newGateRouter(&authorizerStub{validPassword: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `Basic realm="Admin Area"`, w.Header().Get("WWW-Authenticate"))
	require.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestAdminGateAcceptsBasicAnyUsername(t *testing.T) {
	r := newGateRouter(&authorizerStub{validPassword: "secret"})

	for _, user := range []string{"admin", "", "whoever"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", basicHeader(user, "secret"))
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "username %q should be ignored", user)
	}
}

func TestAdminGateRejectsWrongBasicPassword(t *testing.T) {
	r := newGateRouter(&authorizerStub{validPassword: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", basicHeader("admin", "nope"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminGateRejectsMalformedAuthorization(t *testing.T) {
	r := newGateRouter(&authorizerStub{validPassword: "secret"})

	for _, header := range []string{"Basic not-base64!!", "Bearer abc", "Basic", basicHeader("", "")} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAdminGateAcceptsSessionCookie(t *testing.T) {
	r := newGateRouter(&authorizerStub{validToken: "valid-token", validPassword: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "admin-once", Value: "valid-token"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "listing", w.Body.String())
}

func TestAdminGateRejectsBogusCookie(t *testing.T) {
	r := newGateRouter(&authorizerStub{validToken: "valid-token"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "admin-once", Value: "garbage"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
