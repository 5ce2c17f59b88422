package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/telemetry"
	"careerhub-backend/internal/shared/util"
)

// Searcher runs a delegated job search.
type Searcher interface {
	Search(ctx context.Context, req RemoteSearchRequest) ([]Job, error)
}

// Service coordinates the job collection.
type Service struct {
	Repo   Repo
	Remote Searcher
	Now    func() time.Time
}

// Save stores new postings and returns each job as stored. A job whose
// title and company already exist is returned unchanged.
func (s *Service) Save(ctx context.Context, incoming []Job) ([]Job, error) {
	const op = "jobs.Save"
	out := make([]Job, 0, len(incoming))
	created := 0
	for _, job := range incoming {
		job = s.normalize(job)
		if job.Title == "" || job.Company == "" {
			return nil, apperr.Validation(op, "Each job needs a title and company.", nil)
		}
		if _, err := time.Parse(DateLayout, job.DatePosted); err != nil {
			return nil, apperr.Validation(op, "date_posted must be YYYY-MM-DD.", err)
		}
		if job.ApplicationDeadline != "" {
			if _, err := time.Parse(DateLayout, job.ApplicationDeadline); err != nil {
				return nil, apperr.Validation(op, "application_deadline must be YYYY-MM-DD.", err)
			}
		}

		existing, err := s.Repo.FindByTitleCompany(ctx, job.Title, job.Company)
		if err == nil {
			out = append(out, existing)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, apperr.Storage(op, err)
		}

		err = s.Repo.Create(ctx, job)
		if errors.Is(err, ErrDuplicate) {
			// Lost a race with a concurrent save of the same posting.
			existing, err = s.Repo.FindByTitleCompany(ctx, job.Title, job.Company)
			if err != nil {
				return nil, apperr.Storage(op, err)
			}
			out = append(out, existing)
			continue
		}
		if err != nil {
			return nil, apperr.Storage(op, err)
		}
		created++
		out = append(out, job)
	}
	telemetry.Info("jobs.saved", map[string]any{"received": len(incoming), "created": created})
	return out, nil
}

// List returns every job in posting order.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	jobs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage("jobs.List", err)
	}
	return jobs, nil
}

// Get returns a single job.
func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	job, err := s.Repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Job{}, apperr.NotFound("jobs.Get", "Job not found.")
	}
	if err != nil {
		return Job{}, apperr.Storage("jobs.Get", err)
	}
	return job, nil
}

// Delete removes a posting. Applications pointing at it stay and are hidden.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("jobs.Delete", "Job not found.")
	}
	if err != nil {
		return apperr.Storage("jobs.Delete", err)
	}
	return nil
}

// SearchRemote delegates the search. Failures wrap ErrRemoteSearch.
func (s *Service) SearchRemote(ctx context.Context, req RemoteSearchRequest) ([]Job, error) {
	if s.Remote == nil {
		return nil, ErrRemoteSearch
	}
	listings, err := s.Remote.Search(ctx, req)
	if err != nil {
		telemetry.Warn("jobs.remote_search_failed", map[string]any{"keyword": req.Keyword, "err": err})
		return nil, err
	}
	return listings, nil
}

func (s *Service) normalize(job Job) Job {
	job = job.Clone()
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	job.IsBookmarked = false
	job.ID = util.NewObjectID()
	if job.DatePosted == "" {
		job.DatePosted = Today(s.now())
	}
	if job.Keywords == nil {
		job.Keywords = []string{}
	}
	return job
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
