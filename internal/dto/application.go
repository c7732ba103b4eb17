package dto

// SubmitApplicationRequest carries the intake wizard's multipart text fields.
// Absent fields bind to empty strings. The enum fields are checked against
// their declared values when present; there is no cross-field validation
// (otherDomain is persisted as given whatever the preference is).
type SubmitApplicationRequest struct {
	FullName         string `form:"fullName"`
	ContactNumber    string `form:"contactNumber"`
	Email            string `form:"email"`
	Location         string `form:"location"`
	Experience       string `form:"experience" validate:"omitempty,oneof=fresher experienced"`
	DomainPreference string `form:"domainPreference" validate:"omitempty,oneof=core it non-it other"`
	OtherDomain      string `form:"otherDomain"`
	ReferralCode     string `form:"referralCode"`
	Suggestions      string `form:"suggestions"`
}

// DeleteApplicationRequest is the JSON body fallback for the removal
// endpoint; the `id` query parameter takes precedence when both are present.
type DeleteApplicationRequest struct {
	ID string `json:"id"`
}

// LoginRequest accepts the admin password from a JSON or form body.
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}
