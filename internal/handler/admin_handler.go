package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hatchpoint/intake-api/internal/models"
)

type adminListingService interface {
	ListWithResumeURLs(ctx context.Context) ([]models.ApplicationWithResume, error)
}

// AdminHandler serves the server-rendered admin pages.
type AdminHandler struct {
	service adminListingService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(svc adminListingService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Listing renders the applications table with fresh signed download URLs. A
// total query failure degrades to an inline error banner instead of a table.
func (h *AdminHandler) Listing(c *gin.Context) {
	rows, err := h.service.ListWithResumeURLs(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusOK, "admin.html", gin.H{
			"Error": err.Error(),
		})
		return
	}
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Rows": rows,
	})
}

// LoginPage renders the password form that posts to the login endpoint.
func (h *AdminHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}
