package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hatchpoint/intake-api/internal/dto"
	"github.com/hatchpoint/intake-api/internal/models"
	"github.com/hatchpoint/intake-api/internal/service"
	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
	"github.com/hatchpoint/intake-api/pkg/response"
)

type applicationService interface {
	Submit(ctx context.Context, req dto.SubmitApplicationRequest, resume *service.ResumeUpload) (*models.Application, error)
	Delete(ctx context.Context, id int64) (models.CleanupState, error)
}

type applicationExporter interface {
	Render(ctx context.Context, format string) (*service.ExportResult, error)
}

// ApplicationHandler manages the intake and removal HTTP endpoints.
type ApplicationHandler struct {
	service     applicationService
	exporter    applicationExporter
	maxBodySize int64
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(svc applicationService, exporter applicationExporter, maxBodySize int64) *ApplicationHandler {
	if maxBodySize <= 0 {
		maxBodySize = 10 * 1024 * 1024
	}
	return &ApplicationHandler{service: svc, exporter: exporter, maxBodySize: maxBodySize}
}

// Submit godoc
// @Summary Submit a job application
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string false "Full name"
// @Param contactNumber formData string false "Contact number"
// @Param email formData string false "Email"
// @Param location formData string false "Location"
// @Param experience formData string false "fresher or experienced"
// @Param domainPreference formData string false "core, it, non-it or other"
// @Param otherDomain formData string false "Free-text domain when preference is other"
// @Param referralCode formData string false "Referral code"
// @Param suggestions formData string false "Suggestions"
// @Param resume formData file false "Resume (PDF/DOC/DOCX, max 10 MiB)"
// @Success 200 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Expected multipart/form-data"))
		return
	}
	// Slack on top of the file limit covers the text fields and part framing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize+64*1024)

	var req dto.SubmitApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid multipart form"))
		return
	}

	var resume *service.ResumeUpload
	fileHeader, err := c.FormFile("resume")
	if err == nil {
		src, openErr := fileHeader.Open()
		if openErr != nil {
			response.Error(c, appErrors.Wrap(openErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open resume"))
			return
		}
		defer src.Close()
		resume = &service.ResumeUpload{
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Content:     src,
		}
	}

	app, err := h.service.Submit(c.Request.Context(), req, resume)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Application(c, app)
}

// Delete godoc
// @Summary Delete an application and its stored resume
// @Tags Applications
// @Produce json
// @Param id query string false "Application id (wins over the body)"
// @Param payload body dto.DeleteApplicationRequest false "Fallback id carrier"
// @Success 200 {object} response.Envelope
// @Router /applications [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		var body dto.DeleteApplicationRequest
		if err := c.ShouldBindJSON(&body); err == nil {
			raw = strings.TrimSpace(body.ID)
		}
	}
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Missing id"))
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be numeric"))
		return
	}

	if _, err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Export godoc
// @Summary Export all applications as CSV or PDF
// @Tags Applications
// @Produce octet-stream
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	result, err := h.exporter.Render(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
