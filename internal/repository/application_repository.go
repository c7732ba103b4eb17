package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hatchpoint/intake-api/internal/models"
)

// ApplicationRepository handles applications table persistence.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts one submission and fills in the store-assigned id and
// creation timestamp.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	const query = `INSERT INTO applications
	(full_name, contact_number, email, location, experience, domain_preference, other_domain, referral_code, suggestions, resume_path)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		app.FullName,
		app.ContactNumber,
		app.Email,
		app.Location,
		app.Experience,
		app.DomainPreference,
		app.OtherDomain,
		app.ReferralCode,
		app.Suggestions,
		app.ResumePath,
	)
	if err := row.Scan(&app.ID, &app.CreatedAt); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID retrieves one application row.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	const query = `SELECT id, created_at, full_name, contact_number, email, location, experience,
       domain_preference, other_domain, referral_code, suggestions, resume_path
	FROM applications WHERE id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns every application, newest first.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.Application, error) {
	const query = `SELECT id, created_at, full_name, contact_number, email, location, experience,
       domain_preference, other_domain, referral_code, suggestions, resume_path
	FROM applications ORDER BY created_at DESC`
	var records []models.Application
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return records, nil
}

// Delete removes a row permanently. sql.ErrNoRows signals a missing id.
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM applications WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
