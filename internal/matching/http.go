package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/shared/apperr"
)

// DefaultTimeout bounds a matcher round trip.
const DefaultTimeout = 15 * time.Second

const (
	maxResponseBytes = 4 << 20
	msgMatchFailed   = "Job matching failed."
)

// HTTPMatcher delegates matching to an external service.
type HTTPMatcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPMatcher builds a matcher with a bounded client timeout.
func NewHTTPMatcher(url string, timeout time.Duration) *HTTPMatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPMatcher{URL: url, Client: &http.Client{Timeout: timeout}}
}

type matchRequest struct {
	Jobs    []jobs.Job      `json:"jobs"`
	Resumes []ResumeSummary `json:"resumes"`
}

type annotation struct {
	ID                     json.RawMessage `json:"id"`
	MatchPercentage        *float64        `json:"match_percentage"`
	BestResume             *jobs.ResumeRef `json:"best_resume"`
	ImprovementSuggestions string          `json:"improvement_suggestions"`
}

func (m *HTTPMatcher) Match(ctx context.Context, list []jobs.Job, resumes []ResumeSummary) ([]jobs.Job, error) {
	const op = "matching.HTTPMatcher"
	if len(resumes) == 0 {
		return cloneJobs(list), nil
	}

	payload, err := json.Marshal(matchRequest{Jobs: cloneJobs(list), Resumes: resumes})
	if err != nil {
		return nil, apperr.Matching(op, msgMatchFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Matching(op, msgMatchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("matcher request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("matcher response read: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("matcher returned status %d", resp.StatusCode))
	}

	var annotations []annotation
	if err := json.Unmarshal(body, &annotations); err != nil {
		return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("decode matcher response: %w", err))
	}
	if len(annotations) != len(list) {
		return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("matcher returned %d jobs for %d", len(annotations), len(list)))
	}

	out := make([]jobs.Job, len(list))
	for i, a := range annotations {
		if id, ok := annotationID(a.ID); ok && id != list[i].ID {
			return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("job %d: matcher returned id %q, want %q", i, id, list[i].ID))
		}
		pct := 0.0
		if a.MatchPercentage != nil {
			pct = *a.MatchPercentage
		}
		if pct < 0 || pct > 100 {
			return nil, apperr.Matching(op, msgMatchFailed, fmt.Errorf("job %d: match percentage %v out of range", i, pct))
		}
		job := list[i].Clone()
		job.Match = &jobs.Match{
			Percentage:             pct,
			BestResume:             a.BestResume,
			ImprovementSuggestions: a.ImprovementSuggestions,
		}
		out[i] = job
	}
	return out, nil
}

// annotationID reads the echoed job id, which may be a JSON string or number.
func annotationID(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return trimmed, true
}
