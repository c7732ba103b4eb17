package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hatchpoint/intake-api/internal/dto"
	"github.com/hatchpoint/intake-api/internal/models"
	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
)

type applicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	Delete(ctx context.Context, id int64) error
}

type resumeStorage interface {
	EnsureBucket(ctx context.Context, bucket string) error
	Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error
	PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

type intakeMetrics interface {
	RecordUpload()
	RecordDeletion(state models.CleanupState)
}

// ResumeUpload carries the optional resume file from the multipart form.
type ResumeUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// ApplicationServiceConfig holds bucket naming and upload validation limits.
type ApplicationServiceConfig struct {
	Bucket       string
	Prefix       string
	MaxFileSize  int64
	AllowedMIMEs []string
	SignedURLTTL time.Duration
}

// ApplicationService orchestrates intake submissions, the admin listing and
// cascading removal.
type ApplicationService struct {
	repo      applicationStore
	storage   resumeStorage
	metrics   intakeMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ApplicationServiceConfig
	mimeSet   map[string]struct{}
}

// NewApplicationService constructs the service with defaults.
func NewApplicationService(repo applicationStore, storage resumeStorage, metrics intakeMetrics, validate *validator.Validate, logger *zap.Logger, cfg ApplicationServiceConfig) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "hatchpoint-uploads"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "resumes"
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = time.Hour
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &ApplicationService{
		repo:      repo,
		storage:   storage,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		mimeSet:   mimeSet,
	}
}

// Submit uploads the resume (when present) and inserts the application row.
// The insert never happens if the upload fails. The reverse window is
// accepted: a row insert failure leaves the already-uploaded object behind.
func (s *ApplicationService) Submit(ctx context.Context, req dto.SubmitApplicationRequest, resume *ResumeUpload) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	var resumePath *string
	if resume != nil {
		path, err := s.uploadResume(ctx, resume)
		if err != nil {
			return nil, err
		}
		resumePath = &path
	}

	app := &models.Application{
		FullName:         req.FullName,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		Location:         req.Location,
		Experience:       req.Experience,
		DomainPreference: req.DomainPreference,
		OtherDomain:      optional(req.OtherDomain),
		ReferralCode:     optional(req.ReferralCode),
		Suggestions:      optional(req.Suggestions),
		ResumePath:       resumePath,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		if resumePath != nil {
			// Accepted orphan-object risk: the upload is not rolled back.
			s.logger.Warn("application insert failed after resume upload",
				zap.String("resume_path", *resumePath),
				zap.Error(err))
		}
		return nil, appErrors.FromStore(err)
	}
	return app, nil
}

func (s *ApplicationService) uploadResume(ctx context.Context, resume *ResumeUpload) (string, error) {
	if resume.Size > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("resume exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	contentType := resume.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, allowed := s.mimeSet[strings.ToLower(contentType)]; !allowed {
		return "", appErrors.Clone(appErrors.ErrValidation, "resume mime type not allowed")
	}
	if err := s.storage.EnsureBucket(ctx, s.cfg.Bucket); err != nil {
		return "", appErrors.Clone(appErrors.ErrStore,
			fmt.Sprintf("Failed to ensure storage bucket: %s", err.Error()))
	}
	path := s.generatePath(resume.Filename)
	if err := s.storage.Upload(ctx, s.cfg.Bucket, path, resume.Content, resume.Size, contentType); err != nil {
		return "", appErrors.FromStore(err)
	}
	if s.metrics != nil {
		s.metrics.RecordUpload()
	}
	return path, nil
}

// generatePath builds a unique storage key: prefix, submission timestamp and
// a random token, keeping the original file extension (or "bin").
func (s *ApplicationService) generatePath(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		ext = "bin"
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s.%s", s.cfg.Prefix, time.Now().UnixMilli(), token, ext)
}

// Delete removes the row and then best-effort removes its stored object. The
// object delete is only attempted after a confirmed row delete, and its
// failure is logged and counted rather than surfaced.
func (s *ApplicationService) Delete(ctx context.Context, id int64) (models.CleanupState, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", appErrors.FromStore(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", appErrors.FromStore(err)
	}

	state := models.CleanupNoObject
	if app.ResumePath != nil && *app.ResumePath != "" {
		if err := s.storage.Remove(ctx, s.cfg.Bucket, *app.ResumePath); err != nil {
			s.logger.Warn("best-effort resume delete failed, object orphaned",
				zap.Int64("application_id", id),
				zap.String("resume_path", *app.ResumePath),
				zap.Error(err))
			state = models.CleanupOrphanedObject
		} else {
			state = models.CleanupComplete
		}
	}
	if s.metrics != nil {
		s.metrics.RecordDeletion(state)
	}
	return state, nil
}

// ListWithResumeURLs returns all applications newest first, each resume
// decorated with a freshly minted signed URL. Signing runs concurrently
// across rows; a per-row signing failure degrades to a nil URL.
func (s *ApplicationService) ListWithResumeURLs(ctx context.Context) ([]models.ApplicationWithResume, error) {
	apps, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromStore(err)
	}

	rows := make([]models.ApplicationWithResume, len(apps))
	var wg sync.WaitGroup
	for i := range apps {
		rows[i] = models.ApplicationWithResume{Application: apps[i]}
		if apps[i].ResumePath == nil || *apps[i].ResumePath == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url, err := s.storage.PresignedGetURL(ctx, s.cfg.Bucket, *rows[i].ResumePath, s.cfg.SignedURLTTL)
			if err != nil {
				s.logger.Warn("resume url signing failed",
					zap.Int64("application_id", rows[i].ID),
					zap.Error(err))
				return
			}
			rows[i].ResumeURL = &url
		}(i)
	}
	wg.Wait()
	return rows, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
