// Package matching annotates job postings with the resume that fits them best.
package matching

import (
	"context"
	"time"

	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/shared/metrics"
	"careerhub-backend/internal/shared/telemetry"
)

// ResumeSummary is the part of a resume a matcher sees.
type ResumeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Matcher annotates jobs against a resume set. Implementations return one
// job per input job in the same order, and return the input unchanged when
// resumes is empty.
type Matcher interface {
	Match(ctx context.Context, list []jobs.Job, resumes []ResumeSummary) ([]jobs.Job, error)
}

// MatchOrFallback runs m and falls back to the unannotated jobs when it fails.
func MatchOrFallback(ctx context.Context, m Matcher, list []jobs.Job, resumes []ResumeSummary) []jobs.Job {
	if m == nil || len(resumes) == 0 {
		return cloneJobs(list)
	}
	metrics.IncMatchingRequest()
	start := time.Now()
	out, err := m.Match(ctx, list, resumes)
	metrics.ObserveMatchingDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncMatchingFallback()
		telemetry.Warn("jobs.matching_fallback", map[string]any{
			"jobs":    len(list),
			"resumes": len(resumes),
			"err":     err,
		})
		return cloneJobs(list)
	}
	return out
}

func cloneJobs(list []jobs.Job) []jobs.Job {
	out := make([]jobs.Job, len(list))
	for i, j := range list {
		out[i] = j.Clone()
	}
	return out
}
