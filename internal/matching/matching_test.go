package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub-backend/internal/jobs"
	"careerhub-backend/internal/shared/apperr"
)

func testJobs() []jobs.Job {
	return []jobs.Job{
		{ID: "j1", Title: "Frontend Developer", Company: "TechCorp", Description: "React JavaScript TypeScript frontend user interfaces"},
		{ID: "j2", Title: "Backend Engineer", Company: "DataSystems", Description: "Go services with PostgreSQL and Kafka pipelines"},
	}
}

func testResumes() []ResumeSummary {
	return []ResumeSummary{
		{ID: "r1", Name: "frontend.pdf", Text: "Built React and TypeScript interfaces for a frontend team"},
		{ID: "r2", Name: "backend.pdf", Text: "Wrote Go services backed by PostgreSQL and Kafka"},
	}
}

func TestMatchersReturnInputUnchangedWithoutResumes(t *testing.T) {
	for name, m := range map[string]Matcher{
		"http":  NewHTTPMatcher("http://127.0.0.1:1/never-called", time.Second),
		"tfidf": TFIDFMatcher{},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := m.Match(context.Background(), testJobs(), nil)
			require.NoError(t, err)
			assert.Equal(t, testJobs(), out)
			for _, j := range out {
				assert.Nil(t, j.Match)
			}
		})
	}
}

func TestTFIDFPicksBestResume(t *testing.T) {
	out, err := TFIDFMatcher{}.Match(context.Background(), testJobs(), testResumes())
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].Match)
	assert.Equal(t, "r1", out[0].Match.BestResume.ID)
	assert.Equal(t, "r2", out[1].Match.BestResume.ID)
	for _, j := range out {
		assert.Greater(t, j.Match.Percentage, 0.0)
		assert.LessOrEqual(t, j.Match.Percentage, 100.0)
	}
}

func TestTFIDFIdenticalTextScoresHundred(t *testing.T) {
	list := []jobs.Job{{ID: "j1", Description: "distributed systems engineer"}}
	out, err := TFIDFMatcher{}.Match(context.Background(), list, []ResumeSummary{{ID: "r1", Text: "Distributed systems engineer"}})
	require.NoError(t, err)
	assert.Equal(t, 100.0, out[0].Match.Percentage)
}

func TestTFIDFEmptyVocabulary(t *testing.T) {
	list := []jobs.Job{{ID: "j1", Description: "the and of"}}
	out, err := TFIDFMatcher{}.Match(context.Background(), list, []ResumeSummary{{ID: "r1", Text: ""}})
	require.NoError(t, err)
	require.NotNil(t, out[0].Match)
	assert.Equal(t, 0.0, out[0].Match.Percentage)
	assert.Nil(t, out[0].Match.BestResume)
}

func TestTokenizeDropsStopWordsAndShortTokens(t *testing.T) {
	assert.Equal(t, []string{"go", "engineer", "kafka"}, tokenize("A Go engineer, with Kafka & x"))
}

func matcherServer(t *testing.T, respond func(req matchRequest) any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(respond(req)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPMatcherAnnotatesInOrder(t *testing.T) {
	srv := matcherServer(t, func(req matchRequest) any {
		assert.Len(t, req.Resumes, 2)
		return []map[string]any{
			{"id": req.Jobs[0].ID, "match_percentage": 81.25, "best_resume": map[string]string{"id": "r1", "name": "frontend.pdf"}},
			{"match_percentage": 40, "best_resume": map[string]string{"id": "r2", "name": "backend.pdf"}, "improvement_suggestions": "Mention Kafka."},
		}
	})

	out, err := NewHTTPMatcher(srv.URL, time.Second).Match(context.Background(), testJobs(), testResumes())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "j1", out[0].ID)
	assert.Equal(t, 81.25, out[0].Match.Percentage)
	assert.Equal(t, "Mention Kafka.", out[1].Match.ImprovementSuggestions)
	assert.Equal(t, "Backend Engineer", out[1].Title)
}

func TestHTTPMatcherRejectsBadResponses(t *testing.T) {
	cases := map[string]func(req matchRequest) any{
		"count mismatch": func(req matchRequest) any {
			return []map[string]any{{"id": "j1", "match_percentage": 50}}
		},
		"misaligned id": func(req matchRequest) any {
			return []map[string]any{{"id": "j2", "match_percentage": 50}, {"id": "j1", "match_percentage": 50}}
		},
		"out of range": func(req matchRequest) any {
			return []map[string]any{{"match_percentage": 101}, {"match_percentage": 5}}
		},
		"not an array": func(req matchRequest) any {
			return map[string]any{"error": "busy"}
		},
	}
	for name, respond := range cases {
		t.Run(name, func(t *testing.T) {
			srv := matcherServer(t, respond)
			out, err := NewHTTPMatcher(srv.URL, time.Second).Match(context.Background(), testJobs(), testResumes())
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, apperr.KindMatching, apperr.KindOf(err))
		})
	}
}

func TestHTTPMatcherTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	_, err := NewHTTPMatcher(srv.URL, time.Second).Match(context.Background(), testJobs(), testResumes())
	assert.Equal(t, apperr.KindMatching, apperr.KindOf(err))
}

type failingMatcher struct{ calls int }

func (f *failingMatcher) Match(ctx context.Context, list []jobs.Job, resumes []ResumeSummary) ([]jobs.Job, error) {
	f.calls++
	return nil, errors.New("collaborator down")
}

func TestMatchOrFallback(t *testing.T) {
	m := &failingMatcher{}
	out := MatchOrFallback(context.Background(), m, testJobs(), testResumes())
	assert.Equal(t, testJobs(), out)
	assert.Equal(t, 1, m.calls)

	out = MatchOrFallback(context.Background(), m, testJobs(), nil)
	assert.Equal(t, testJobs(), out)
	assert.Equal(t, 1, m.calls, "matcher is skipped without resumes")
}
