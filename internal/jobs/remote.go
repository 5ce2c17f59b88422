package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultRemoteTimeout bounds a delegated search.
const DefaultRemoteTimeout = 20 * time.Second

const maxRemoteBody = 4 << 20

// RemoteSearchRequest is the body sent to the search collaborator.
type RemoteSearchRequest struct {
	Keyword   string `json:"keyword"`
	Location  string `json:"location"`
	ProfileID string `json:"profile_id"`
}

// RemoteSearch delegates job search to an external service.
type RemoteSearch struct {
	URL    string
	Client *http.Client
	Now    func() time.Time
}

// NewRemoteSearch builds a client with the given timeout.
func NewRemoteSearch(url string, timeout time.Duration) *RemoteSearch {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteSearch{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Search posts the query and returns listings with missing fields filled in.
func (r *RemoteSearch) Search(ctx context.Context, req RemoteSearchRequest) ([]Job, error) {
	if r == nil || strings.TrimSpace(r.URL) == "" {
		return nil, fmt.Errorf("%w: no search service configured", ErrRemoteSearch)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteSearch, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteSearch, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultRemoteTimeout}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteSearch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRemoteSearch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRemoteSearch, resp.StatusCode)
	}

	var listings []Job
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrRemoteSearch, err)
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	for i := range listings {
		listings[i] = withRemoteDefaults(listings[i], i, req.Location, now())
	}
	return listings, nil
}

func withRemoteDefaults(job Job, index int, location string, now time.Time) Job {
	if job.ID == "" {
		job.ID = "remote-" + strconv.Itoa(index+1)
	}
	job.Title = orDefault(job.Title, "Untitled Position")
	job.Company = orDefault(job.Company, "Unknown Company")
	job.Location = orDefault(job.Location, orDefault(location, "Remote"))
	job.Description = orDefault(job.Description, "No description available")
	job.ExperienceRequired = orDefault(job.ExperienceRequired, "Not specified")
	job.DatePosted = orDefault(job.DatePosted, Today(now))
	job.URL = orDefault(job.URL, "#")
	job.JobType = orDefault(job.JobType, "Full-time")
	job.SalaryRange = orDefault(job.SalaryRange, "Not disclosed")
	if job.Keywords == nil {
		job.Keywords = []string{}
	}
	job.IsBookmarked = false
	return job
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
