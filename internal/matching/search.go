package matching

import (
	"context"

	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/profiles"
)

// JobSource lists the job collection.
type JobSource interface {
	List(ctx context.Context) ([]jobs.Job, error)
}

// ResumeSource lists an owner's resumes.
type ResumeSource interface {
	ListResumes(ctx context.Context, ownerID string) ([]profiles.Resume, error)
}

// Service filters jobs locally and annotates them against an owner's resumes.
type Service struct {
	Jobs    JobSource
	Resumes ResumeSource
	Matcher Matcher
}

// Search filters the collection by query and location. When ownerID is set
// the results are matched against that owner's extracted resumes.
func (s *Service) Search(ctx context.Context, ownerID, query, location string) ([]jobs.Job, error) {
	all, err := s.Jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := jobs.Filter(all, query, location)
	if ownerID == "" {
		return filtered, nil
	}
	summaries, err := s.Summaries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return MatchOrFallback(ctx, s.Matcher, filtered, summaries), nil
}

// Summaries returns the owner's resumes that have extracted text.
func (s *Service) Summaries(ctx context.Context, ownerID string) ([]ResumeSummary, error) {
	resumes, err := s.Resumes.ListResumes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ResumeSummary, 0, len(resumes))
	for _, r := range resumes {
		if !r.HasText() {
			continue
		}
		out = append(out, ResumeSummary{ID: r.ID, Name: r.Name, Text: r.ExtractedText})
	}
	return out, nil
}
