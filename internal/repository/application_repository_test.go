package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hatchpoint/intake-api/internal/models"
)

func newApplicationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestApplicationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	resumePath := "resumes/1700000000-abc123.pdf"
	app := &models.Application{
		FullName:         "Jane Doe",
		ContactNumber:    "555-0100",
		Email:            "jane@x.com",
		Location:         "Remote",
		Experience:       models.ExperienceFresher,
		DomainPreference: models.DomainOther,
		ResumePath:       &resumePath,
	}
	require.NoError(t, repo.Create(context.Background(), app))
	require.Equal(t, int64(7), app.ID)
	require.Equal(t, created, app.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	rows := sqlmock.NewRows([]string{"id", "created_at", "full_name", "contact_number", "email", "location", "experience", "domain_preference", "other_domain", "referral_code", "suggestions", "resume_path"}).
		AddRow(int64(3), time.Now(), "Jane Doe", "555-0100", "jane@x.com", "Remote", "fresher", "other", "Data Science", nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, created_at, full_name")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	app, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), app.ID)
	require.NotNil(t, app.OtherDomain)
	require.Equal(t, "Data Science", *app.OtherDomain)
	require.Nil(t, app.ResumePath)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, created_at, full_name")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	require.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestApplicationRepositoryListNewestFirst(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "created_at", "full_name", "contact_number", "email", "location", "experience", "domain_preference", "other_domain", "referral_code", "suggestions", "resume_path"}).
		AddRow(int64(2), newer, "B", "2", "b@x.com", "Remote", "experienced", "it", nil, nil, nil, "resumes/b.pdf").
		AddRow(int64(1), older, "A", "1", "a@x.com", "Remote", "fresher", "core", nil, nil, nil, nil)
	mock.ExpectQuery("SELECT .+ FROM applications ORDER BY created_at DESC").
		WillReturnRows(rows)

	apps, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	require.Equal(t, int64(2), apps[0].ID)
	require.Equal(t, int64(1), apps[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 5))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications WHERE id = $1")).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), 6)
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}
