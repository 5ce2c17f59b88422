package applications

import (
	"time"

	"careerhub-backend/internal/jobs"
)

// Status is where an application stands. Any status may follow any other.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusScreening    Status = "screening"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusOffered      Status = "offered"
)

// Application records a student applying to a job. JobID is a weak
// reference: the job may be deleted while the application remains.
type Application struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	JobID     string    `json:"jobId"`
	Date      time.Time `json:"date"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Resolved pairs an application with the job it points at.
type Resolved struct {
	Application
	Job jobs.Job `json:"job"`
}

// CreateInput is the body of a new application.
type CreateInput struct {
	JobID  string `json:"jobId" validate:"required"`
	Status Status `json:"status" validate:"omitempty,oneof=applied screening interviewing rejected offered"`
	Notes  string `json:"notes" validate:"max=4000"`
}

// UpdateInput changes status and notes. Nil fields stay as they are.
type UpdateInput struct {
	Status *Status `json:"status" validate:"omitempty,oneof=applied screening interviewing rejected offered"`
	Notes  *string `json:"notes" validate:"omitempty,max=4000"`
}
