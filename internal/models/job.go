package models

import "time"

// Priority ranks how interesting a posting is
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Valid reports whether p is one of the enumerated priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Job represents a posting in the shared catalog
type Job struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    *string    `json:"location"`
	URL         *string    `json:"url"`
	Notes       *string    `json:"notes"`
	Category    *string    `json:"category"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	SalaryRange *string    `json:"salary_range"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobPatch carries a partial update; nil fields are left untouched
type JobPatch struct {
	Title       *string    `json:"title"`
	Company     *string    `json:"company"`
	Location    *string    `json:"location"`
	URL         *string    `json:"url"`
	Notes       *string    `json:"notes"`
	Category    *string    `json:"category"`
	Priority    *Priority  `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	SalaryRange *string    `json:"salary_range"`
}
