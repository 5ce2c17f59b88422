package profiles

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/storage/object"
	"careerhub-backend/internal/shared/storage/object/local"
)

const (
	ownerA = "64b1f0c2e1a2b3c4d5e6f7a8"
	ownerB = "64b1f0c2e1a2b3c4d5e6f7a9"
)

// stubExtractor returns a fixed text or error, optionally blocking until released.
type stubExtractor struct {
	text    string
	err     error
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (e *stubExtractor) Extract(ctx context.Context, storageKey, fileName string) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return "", apperr.Extraction("stub", "extraction cancelled", ctx.Err())
		}
	}
	return e.text, e.err
}

// failingDeleteStore wraps a store and fails every Delete.
type failingDeleteStore struct {
	object.ObjectStore
}

func (s failingDeleteStore) Delete(ctx context.Context, storageKey string) error {
	return errors.New("bucket unavailable")
}

func newTestService(t *testing.T, ex *stubExtractor) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := &Service{
		Repo:          repo,
		Store:         local.New(t.TempDir()),
		Extractor:     ex,
		PublicBaseURL: "http://api.test",
		ExtractWait:   time.Second,
		Now:           func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	t.Cleanup(svc.Wait)
	for _, id := range []string{ownerA, ownerB} {
		if _, err := svc.CreateProfile(context.Background(), id, "Ada Lovelace", id+"@example.com"); err != nil {
			t.Fatalf("create profile: %v", err)
		}
	}
	return svc, repo
}

func upload(t *testing.T, svc *Service, owner, resumeID string) Resume {
	t.Helper()
	res, err := svc.AddResume(context.Background(), AddResumeInput{
		OwnerID:  owner,
		ResumeID: resumeID,
		FileName: "cv.pdf",
		Body:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("AddResume: %v", err)
	}
	return res
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}
