package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/notifications"
	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/telemetry"
	"careerhub-backend/internal/shared/util"
)

// JobCatalog looks up jobs referenced by applications.
type JobCatalog interface {
	Get(ctx context.Context, id string) (jobs.Job, error)
	List(ctx context.Context) ([]jobs.Job, error)
}

// Owners checks that an applicant exists.
type Owners interface {
	GetProfile(ctx context.Context, userID string) (profiles.Profile, error)
}

// Service tracks a student's job applications.
type Service struct {
	Repo     Repo
	Jobs     JobCatalog
	Owners   Owners
	Notifier notifications.Notifier
	Now      func() time.Time
}

// Create records a new application for an existing job.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Application, error) {
	const op = "applications.Create"
	userID = strings.ToLower(strings.TrimSpace(userID))
	if !util.IsObjectID(userID) {
		return Application{}, apperr.Validation(op, "Invalid user ID provided.", nil)
	}
	if err := util.ValidateStruct(in); err != nil {
		return Application{}, apperr.Validation(op, err.Error(), err)
	}
	if s.Owners != nil {
		if _, err := s.Owners.GetProfile(ctx, userID); err != nil {
			return Application{}, err
		}
	}
	if _, err := s.Jobs.Get(ctx, in.JobID); err != nil {
		return Application{}, err
	}

	now := s.now()
	app := Application{
		ID:        util.NewObjectID(),
		UserID:    userID,
		JobID:     in.JobID,
		Date:      now,
		Status:    in.Status,
		Notes:     in.Notes,
		UpdatedAt: now,
	}
	if app.Status == "" {
		app.Status = StatusApplied
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		if errors.Is(err, ErrUnknownOwner) {
			return Application{}, apperr.NotFound(op, "User not found.")
		}
		return Application{}, apperr.Storage(op, err)
	}
	return app, nil
}

// Get returns one application.
func (s *Service) Get(ctx context.Context, id string) (Application, error) {
	app, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Application{}, mapRepoErr("applications.Get", err)
	}
	return app, nil
}

// Update changes status and notes. A status change notifies the applicant.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Application, error) {
	const op = "applications.Update"
	if err := util.ValidateStruct(in); err != nil {
		return Application{}, apperr.Validation(op, err.Error(), err)
	}
	app, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Application{}, mapRepoErr(op, err)
	}
	previous := app.Status
	if in.Status != nil {
		app.Status = *in.Status
	}
	if in.Notes != nil {
		app.Notes = *in.Notes
	}
	app.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, mapRepoErr(op, err)
	}
	if app.Status != previous {
		s.notifyStatus(ctx, app)
	}
	return app, nil
}

// Delete removes an application.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return mapRepoErr("applications.Delete", err)
	}
	return nil
}

// ListResolved returns the user's applications joined with their jobs.
// Applications whose job no longer exists are left out.
func (s *Service) ListResolved(ctx context.Context, userID string) ([]Resolved, error) {
	const op = "applications.ListResolved"
	apps, err := s.Repo.ListByUser(ctx, strings.ToLower(userID))
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	all, err := s.Jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]jobs.Job, len(all))
	for _, j := range all {
		byID[j.ID] = j
	}

	out := make([]Resolved, 0, len(apps))
	for _, app := range apps {
		job, ok := byID[app.JobID]
		if !ok {
			continue
		}
		out = append(out, Resolved{Application: app, Job: job})
	}
	return out, nil
}

func (s *Service) notifyStatus(ctx context.Context, app Application) {
	if s.Notifier == nil {
		return
	}
	title := "your application"
	if job, err := s.Jobs.Get(ctx, app.JobID); err == nil {
		title = fmt.Sprintf("%s at %s", job.Title, job.Company)
	}
	n := notifications.Notification{
		UserID:       app.UserID,
		Type:         notifications.TypeApplicationUpdate,
		Title:        "Application Update",
		Message:      fmt.Sprintf("The status of %s is now %s.", title, app.Status),
		RelatedJobID: app.JobID,
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		telemetry.Warn("applications.notify_failed", map[string]any{"application_id": app.ID, "err": err})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func mapRepoErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(op, "Application not found.")
	}
	return apperr.Storage(op, err)
}
