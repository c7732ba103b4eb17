package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hatchpoint/intake-api/internal/models"
	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
	"github.com/hatchpoint/intake-api/pkg/export"
)

type exportApplicationLister interface {
	List(ctx context.Context) ([]models.Application, error)
}

// ExportResult bundles rendered bytes with response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the applications list as CSV or PDF for the admin
// panel.
type ExportService struct {
	repo exportApplicationLister
	csv  *export.CSVExporter
	pdf  *export.PDFExporter
}

// NewExportService constructs the service.
func NewExportService(repo exportApplicationLister) *ExportService {
	return &ExportService{
		repo: repo,
		csv:  export.NewCSVExporter(),
		pdf:  export.NewPDFExporter(),
	}
}

var exportHeaders = []string{
	"ID", "Submitted", "Full Name", "Contact", "Email", "Location",
	"Experience", "Domain", "Other Domain", "Referral", "Suggestions", "Resume",
}

// Render produces the export in the requested format ("csv" or "pdf").
func (s *ExportService) Render(ctx context.Context, format string) (*ExportResult, error) {
	apps, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromStore(err)
	}
	dataset := buildDataset(apps)
	stamp := time.Now().Format("2006-01-02")

	switch format {
	case "", "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("applications-%s.csv", stamp),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, "HatchPoint Applications")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("applications-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func buildDataset(apps []models.Application) export.Dataset {
	rows := make([]map[string]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, map[string]string{
			"ID":           fmt.Sprintf("%d", app.ID),
			"Submitted":    app.CreatedAt.Format(time.RFC3339),
			"Full Name":    app.FullName,
			"Contact":      app.ContactNumber,
			"Email":        app.Email,
			"Location":     app.Location,
			"Experience":   app.Experience,
			"Domain":       app.DomainPreference,
			"Other Domain": deref(app.OtherDomain),
			"Referral":     deref(app.ReferralCode),
			"Suggestions":  deref(app.Suggestions),
			"Resume":       deref(app.ResumePath),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
