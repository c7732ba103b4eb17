package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hatchpoint/intake-api/internal/dto"
	"github.com/hatchpoint/intake-api/internal/service"
	"github.com/hatchpoint/intake-api/pkg/response"
)

type loginService interface {
	Login(ctx context.Context, req dto.LoginRequest, clientIP string) error
	IssueSessionToken() (string, int, error)
}

// AuthHandler exposes the admin login endpoint.
type AuthHandler struct {
	service      loginService
	secureCookie bool
}

// NewAuthHandler constructs the handler. secureCookie should be true in
// production so the session cookie only travels over HTTPS.
func NewAuthHandler(svc loginService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie}
}

// Login godoc
// @Summary Validate the admin password and mint a short-lived session cookie
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Password"
// @Success 200 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	// A malformed or empty body leaves the password blank, which fails the
	// comparison like any other wrong password.
	_ = c.ShouldBind(&req)

	if err := h.service.Login(c.Request.Context(), req, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}

	token, maxAge, err := h.service.IssueSessionToken()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.SessionCookieName, token, maxAge, "/", "", h.secureCookie, true)
	response.OK(c)
}
