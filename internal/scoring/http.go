package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// HTTPScorer posts the request to a scoring service.
type HTTPScorer struct {
	URL    string
	Client *http.Client
}

// NewHTTPScorer builds a scorer with a bounded client timeout.
func NewHTTPScorer(url string, timeout time.Duration) (*HTTPScorer, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("SCORER_URL is required for the http scorer")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPScorer{URL: url, Client: &http.Client{Timeout: timeout}}, nil
}

func (s *HTTPScorer) Score(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("scorer request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("scorer response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("scorer returned status %d: %s", resp.StatusCode, tail(string(body), maxStderrInError))
	}
	return ParseResult(body)
}
