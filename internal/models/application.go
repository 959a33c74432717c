package models

import "time"

// ApplicationStatus tracks where an application sits in the pipeline
type ApplicationStatus string

const (
	StatusSaved     ApplicationStatus = "SAVED"
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// Valid reports whether s is one of the enumerated statuses
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Application links one user to one job; owned exclusively by its user
type Application struct {
	ID        int               `json:"id"`
	UserID    int               `json:"user_id"`
	JobID     int               `json:"job_id"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt *time.Time        `json:"applied_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ApplicationPatch carries a partial update; nil fields are left untouched
type ApplicationPatch struct {
	Status    *ApplicationStatus `json:"status"`
	AppliedAt *time.Time         `json:"applied_at"`
}
