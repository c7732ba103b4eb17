package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hatchpoint/intake-api/internal/dto"
	"github.com/hatchpoint/intake-api/internal/models"
	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
)

type appRepoStub struct {
	apps      map[int64]*models.Application
	order     []int64
	nextID    int64
	createErr error
	getErr    error
	listErr   error
	deleteErr error
	deleted   []int64
}

func newAppRepoStub() *appRepoStub {
	return &appRepoStub{apps: make(map[int64]*models.Application)}
}

func (r *appRepoStub) Create(ctx context.Context, app *models.Application) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	app.ID = r.nextID
	app.CreatedAt = time.Now()
	copy := *app
	r.apps[app.ID] = &copy
	r.order = append(r.order, app.ID)
	return nil
}

func (r *appRepoStub) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	app, ok := r.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *app
	return &copy, nil
}

func (r *appRepoStub) List(ctx context.Context) ([]models.Application, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]models.Application, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.apps[id])
	}
	return result, nil
}

func (r *appRepoStub) Delete(ctx context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.apps[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.apps, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type storageStub struct {
	objects    map[string][]byte
	ensured    []string
	removed    []string
	ensureErr  error
	uploadErr  error
	removeErr  error
	presignErr error
}

func newStorageStub() *storageStub {
	return &storageStub{objects: make(map[string][]byte)}
}

func (s *storageStub) EnsureBucket(ctx context.Context, bucket string) error {
	if s.ensureErr != nil {
		return s.ensureErr
	}
	s.ensured = append(s.ensured, bucket)
	return nil
}

func (s *storageStub) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *storageStub) PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://store.example/" + key, nil
}

func (s *storageStub) Remove(ctx context.Context, bucket, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

type metricsStub struct {
	uploads       int
	loginFailures int
	deletions     map[models.CleanupState]int
}

func newMetricsStub() *metricsStub {
	return &metricsStub{deletions: make(map[models.CleanupState]int)}
}

func (m *metricsStub) RecordUpload() { m.uploads++ }

func (m *metricsStub) RecordLoginFailure() { m.loginFailures++ }

func (m *metricsStub) RecordDeletion(state models.CleanupState) { m.deletions[state]++ }

func newTestService(repo *appRepoStub, store *storageStub, metrics *metricsStub) *ApplicationService {
	return NewApplicationService(repo, store, metrics, nil, nil, ApplicationServiceConfig{
		Bucket:       "hatchpoint-uploads",
		Prefix:       "resumes",
		MaxFileSize:  10 * 1024 * 1024,
		SignedURLTTL: time.Hour,
	})
}

func pdfUpload(name, content string) *ResumeUpload {
	return &ResumeUpload{
		Filename:    name,
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Content:     bytes.NewReader([]byte(content)),
	}
}

func TestApplicationServiceSubmitWithoutResume(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		FullName:         "Jane Doe",
		ContactNumber:    "555-0100",
		Email:            "jane@x.com",
		Location:         "Remote",
		Experience:       "fresher",
		DomainPreference: "other",
		OtherDomain:      "Data Science",
	}, nil)
	require.NoError(t, err)
	require.Nil(t, app.ResumePath)
	require.NotNil(t, app.OtherDomain)
	require.Equal(t, "Data Science", *app.OtherDomain)
	require.Empty(t, store.ensured, "no bucket work without a file")
	require.Empty(t, store.objects)
}

func TestApplicationServiceSubmitUploadsResume(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	metrics := newMetricsStub()
	svc := newTestService(repo, store, metrics)

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{FullName: "Jane Doe"}, pdfUpload("cv.PDF", "%PDF-1.4"))
	require.NoError(t, err)
	require.NotNil(t, app.ResumePath)
	require.True(t, strings.HasPrefix(*app.ResumePath, "resumes/"))
	require.True(t, strings.HasSuffix(*app.ResumePath, ".pdf"))
	require.Contains(t, store.objects, *app.ResumePath)
	require.Equal(t, []string{"hatchpoint-uploads"}, store.ensured)
	require.Equal(t, 1, metrics.uploads)
}

func TestApplicationServiceSubmitPathsUnique(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	first, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "one"))
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "two"))
	require.NoError(t, err)
	require.NotEqual(t, *first.ResumePath, *second.ResumePath)
}

func TestApplicationServiceSubmitUploadFailureSkipsInsert(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	store.uploadErr = fmt.Errorf("bucket quota exceeded")
	svc := newTestService(repo, store, newMetricsStub())

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bucket quota exceeded")
	require.Empty(t, repo.apps, "insert must not run after a failed upload")
}

func TestApplicationServiceSubmitInsertFailureLeavesObject(t *testing.T) {
	repo := newAppRepoStub()
	repo.createErr = fmt.Errorf("duplicate key")
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.Error(t, err)
	require.Len(t, store.objects, 1, "the uploaded object is not rolled back")
	require.Empty(t, store.removed)
}

func TestApplicationServiceSubmitRejectsOversizeFile(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := NewApplicationService(repo, store, nil, nil, nil, ApplicationServiceConfig{MaxFileSize: 8})

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "more than eight bytes"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Empty(t, store.ensured)
	require.Empty(t, repo.apps)
}

func TestApplicationServiceSubmitRejectsMimeType(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	upload := pdfUpload("cv.exe", "MZ")
	upload.ContentType = "application/x-msdownload"
	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, upload)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mime type not allowed")
	require.Empty(t, store.objects)
	require.Empty(t, repo.apps)
}

func TestApplicationServiceSubmitBucketEnsureFailure(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	store.ensureErr = fmt.Errorf("access denied")
	svc := newTestService(repo, store, newMetricsStub())

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to ensure storage bucket: access denied")
	require.Empty(t, repo.apps)
}

func TestApplicationServiceSubmitRejectsUnknownExperience(t *testing.T) {
	repo := newAppRepoStub()
	svc := newTestService(repo, newStorageStub(), newMetricsStub())

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{Experience: "wizard"}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestApplicationServiceSubmitKeepsOtherDomainWithoutOtherPreference(t *testing.T) {
	repo := newAppRepoStub()
	svc := newTestService(repo, newStorageStub(), newMetricsStub())

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		DomainPreference: "it",
		OtherDomain:      "Embedded",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, app.OtherDomain)
	require.Equal(t, "Embedded", *app.OtherDomain)
}

func TestApplicationServiceDeleteCascades(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	metrics := newMetricsStub()
	svc := newTestService(repo, store, metrics)

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.NoError(t, err)

	state, err := svc.Delete(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, models.CleanupComplete, state)
	require.Empty(t, repo.apps)
	require.Empty(t, store.objects)
	require.Equal(t, []string{*app.ResumePath}, store.removed)
	require.Equal(t, 1, metrics.deletions[models.CleanupComplete])
}

func TestApplicationServiceDeleteWithoutResume(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{FullName: "A"}, nil)
	require.NoError(t, err)

	state, err := svc.Delete(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, models.CleanupNoObject, state)
	require.Empty(t, store.removed, "no object-store call without a resume path")
}

func TestApplicationServiceDeleteMissingID(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	_, err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	require.Empty(t, repo.deleted)
	require.Empty(t, store.removed)
}

func TestApplicationServiceDeleteRowFailureKeepsObject(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.NoError(t, err)

	repo.deleteErr = fmt.Errorf("connection reset")
	_, err = svc.Delete(context.Background(), app.ID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
	require.Len(t, store.objects, 1, "object untouched without a confirmed row delete")
}

func TestApplicationServiceDeleteObjectFailureIsSwallowed(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	metrics := newMetricsStub()
	svc := newTestService(repo, store, metrics)

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.NoError(t, err)

	store.removeErr = fmt.Errorf("object store down")
	state, err := svc.Delete(context.Background(), app.ID)
	require.NoError(t, err, "removal still succeeds when the object delete fails")
	require.Equal(t, models.CleanupOrphanedObject, state)
	require.Equal(t, 1, metrics.deletions[models.CleanupOrphanedObject])
}

func TestApplicationServiceListWithResumeURLs(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	withFile, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{FullName: "A"}, pdfUpload("cv.pdf", "data"))
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), dto.SubmitApplicationRequest{FullName: "B"}, nil)
	require.NoError(t, err)

	rows, err := svc.ListWithResumeURLs(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].ResumeURL)
	require.Equal(t, "https://store.example/"+*withFile.ResumePath, *rows[0].ResumeURL)
	require.Nil(t, rows[1].ResumeURL)
}

func TestApplicationServiceListSigningFailureDegrades(t *testing.T) {
	repo := newAppRepoStub()
	store := newStorageStub()
	svc := newTestService(repo, store, newMetricsStub())

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{}, pdfUpload("cv.pdf", "data"))
	require.NoError(t, err)

	store.presignErr = fmt.Errorf("signing key rotated")
	rows, err := svc.ListWithResumeURLs(context.Background())
	require.NoError(t, err, "a signing failure never fails the whole listing")
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].ResumeURL)
}

func TestApplicationServiceListQueryFailure(t *testing.T) {
	repo := newAppRepoStub()
	repo.listErr = fmt.Errorf("relation does not exist")
	svc := newTestService(repo, newStorageStub(), newMetricsStub())

	_, err := svc.ListWithResumeURLs(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "relation does not exist")
}
