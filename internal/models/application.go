package models

import "time"

// Experience categories accepted by the intake wizard.
const (
	ExperienceFresher     = "fresher"
	ExperienceExperienced = "experienced"
)

// Domain preference values. "other" pairs with the free-text OtherDomain field.
const (
	DomainCore  = "core"
	DomainIT    = "it"
	DomainNonIT = "non-it"
	DomainOther = "other"
)

// Application is one wizard submission. Optional columns are pointers so they
// serialise as JSON null, matching what the admin table expects.
type Application struct {
	ID               int64     `db:"id" json:"id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	FullName         string    `db:"full_name" json:"full_name"`
	ContactNumber    string    `db:"contact_number" json:"contact_number"`
	Email            string    `db:"email" json:"email"`
	Location         string    `db:"location" json:"location"`
	Experience       string    `db:"experience" json:"experience"`
	DomainPreference string    `db:"domain_preference" json:"domain_preference"`
	OtherDomain      *string   `db:"other_domain" json:"other_domain"`
	ReferralCode     *string   `db:"referral_code" json:"referral_code"`
	Suggestions      *string   `db:"suggestions" json:"suggestions"`
	ResumePath       *string   `db:"resume_path" json:"resume_path"`
}

// ApplicationWithResume decorates a row with a freshly minted signed download
// URL. ResumeURL stays nil when the row has no resume or signing failed.
type ApplicationWithResume struct {
	Application
	ResumeURL *string `json:"resume_url"`
}

// CleanupState reports how far a cascading delete got.
type CleanupState string

const (
	// CleanupComplete means the row and its stored object are both gone.
	CleanupComplete CleanupState = "complete"
	// CleanupOrphanedObject means the row was deleted but the stored object
	// could not be removed and remains in the bucket.
	CleanupOrphanedObject CleanupState = "orphaned_object"
	// CleanupNoObject means the row had no resume, so only the row was deleted.
	CleanupNoObject CleanupState = "no_object"
)
