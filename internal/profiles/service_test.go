package profiles

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/storage/object"
)

func TestAddResumeReturnsTextWhenExtractionFinishesInTime(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "Go developer\nPython"})

	res := upload(t, svc, ownerA, "1714550000000")

	if res.ExtractionStatus != ExtractionDone || res.ExtractedText != "Go developer\nPython" {
		t.Fatalf("expected extracted text, got status=%s text=%q", res.ExtractionStatus, res.ExtractedText)
	}
	if res.URL != "http://api.test/api/v1/users/"+ownerA+"/resumes/1714550000000/file" {
		t.Fatalf("unexpected url %s", res.URL)
	}
	if res.Analysis != nil {
		t.Fatalf("new resume must not carry a score")
	}
}

func TestAddResumeReturnsPendingWhenExtractionIsSlow(t *testing.T) {
	ex := &stubExtractor{text: "late text", release: make(chan struct{})}
	svc, repo := newTestService(t, ex)
	svc.ExtractWait = 20 * time.Millisecond

	res := upload(t, svc, ownerA, "r1")
	if res.ExtractionStatus != ExtractionPending || res.ExtractedText != "" {
		t.Fatalf("expected pending resume, got %s %q", res.ExtractionStatus, res.ExtractedText)
	}

	close(ex.release)
	svc.Wait()

	stored, err := repo.GetResume(context.Background(), ownerA, "r1")
	if err != nil {
		t.Fatalf("GetResume: %v", err)
	}
	if !stored.HasText() || stored.ExtractedText != "late text" {
		t.Fatalf("background extraction not persisted: %+v", stored)
	}
}

func TestAddResumeSurvivesCancelledRequest(t *testing.T) {
	ex := &stubExtractor{text: "kept", release: make(chan struct{})}
	svc, repo := newTestService(t, ex)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	res, err := svc.AddResume(ctx, AddResumeInput{OwnerID: ownerA, ResumeID: "r1", FileName: "cv.pdf", Body: strings.NewReader("%PDF-1.4")})
	if err != nil {
		t.Fatalf("AddResume: %v", err)
	}
	if res.ExtractionStatus != ExtractionPending {
		t.Fatalf("expected pending after cancellation, got %s", res.ExtractionStatus)
	}

	close(ex.release)
	svc.Wait()
	stored, _ := repo.GetResume(context.Background(), ownerA, "r1")
	if stored.ExtractedText != "kept" {
		t.Fatalf("extraction should finish after the request ended, got %+v", stored)
	}
}

func TestAddResumeRecordsExtractionFailure(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{err: apperr.Extraction("extract", "empty PDF, could not extract text", nil)})

	res := upload(t, svc, ownerA, "r1")
	if res.ExtractionStatus != ExtractionFailed {
		t.Fatalf("expected failed status, got %s", res.ExtractionStatus)
	}
	if res.ExtractionError != "empty PDF, could not extract text" {
		t.Fatalf("unexpected extraction error %q", res.ExtractionError)
	}
	if res.HasText() {
		t.Fatalf("failed extraction must not expose text")
	}
}

func TestAddResumeValidatesOwnerAndID(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "x"})
	ctx := context.Background()

	_, err := svc.AddResume(ctx, AddResumeInput{OwnerID: "not-an-id", FileName: "cv.pdf", Body: strings.NewReader("x")})
	if !errors.Is(err, apperr.ErrValidation) || apperr.MessageOf(err) != "Invalid user ID provided." {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.AddResume(ctx, AddResumeInput{OwnerID: "000000000000000000000000", FileName: "cv.pdf", Body: strings.NewReader("x")})
	if !errors.Is(err, apperr.ErrNotFound) || apperr.MessageOf(err) != "User not found." {
		t.Fatalf("expected not found, got %v", err)
	}

	upload(t, svc, ownerA, "r1")
	_, err = svc.AddResume(ctx, AddResumeInput{OwnerID: ownerA, ResumeID: "r1", FileName: "other.pdf", Body: strings.NewReader("x")})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for reused id, got %v", err)
	}
}

func TestAddResumeDefaultsIDToUploadTime(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "x"})
	res := upload(t, svc, ownerA, "")
	if res.ID != "1714557600000" {
		t.Fatalf("expected millisecond id, got %s", res.ID)
	}
}

func TestListResumesKeepsInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "x"})
	for _, id := range []string{"c", "a", "b"} {
		upload(t, svc, ownerA, id)
	}

	list, err := svc.ListResumes(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("ListResumes: %v", err)
	}
	var got []string
	for _, r := range list {
		got = append(got, r.ID)
	}
	if strings.Join(got, ",") != "c,a,b" {
		t.Fatalf("unexpected order %v", got)
	}

	if _, err := svc.ListResumes(context.Background(), "000000000000000000000000"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown owner, got %v", err)
	}
}

func TestRemoveResume(t *testing.T) {
	svc, repo := newTestService(t, &stubExtractor{text: "x"})
	ctx := context.Background()
	kept := upload(t, svc, ownerA, "keep")
	gone := upload(t, svc, ownerA, "gone")

	if err := svc.RemoveResume(ctx, ownerA, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if list, _ := repo.ListResumes(ctx, ownerA); len(list) != 2 {
		t.Fatalf("failed removal must not change the registry, got %d entries", len(list))
	}

	if err := svc.RemoveResume(ctx, ownerA, "gone"); err != nil {
		t.Fatalf("RemoveResume: %v", err)
	}
	if _, err := svc.Store.Open(ctx, gone.StorageKey); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected stored file removed, got %v", err)
	}
	list, _ := repo.ListResumes(ctx, ownerA)
	if len(list) != 1 || list[0].ID != kept.ID {
		t.Fatalf("unexpected registry after removal: %+v", list)
	}
}

func TestRemoveResumeToleratesFileStoreFailure(t *testing.T) {
	svc, repo := newTestService(t, &stubExtractor{text: "x"})
	upload(t, svc, ownerA, "r1")
	svc.Store = failingDeleteStore{ObjectStore: svc.Store}

	if err := svc.RemoveResume(context.Background(), ownerA, "r1"); err != nil {
		t.Fatalf("file delete failures are best effort, got %v", err)
	}
	if _, err := repo.GetResume(context.Background(), ownerA, "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected entry removed, got %v", err)
	}
}

func TestFindLocatesOwnerAndDetectsAmbiguity(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "x"})
	ctx := context.Background()
	upload(t, svc, ownerA, "solo")
	upload(t, svc, ownerA, "shared")
	upload(t, svc, ownerB, "shared")

	res, err := svc.Find(ctx, "", "solo")
	if err != nil || res.OwnerID != ownerA {
		t.Fatalf("expected owner A, got %+v %v", res, err)
	}
	if _, err := svc.Find(ctx, "", "shared"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for ambiguous id, got %v", err)
	}
	if res, err := svc.Find(ctx, ownerB, "shared"); err != nil || res.OwnerID != ownerB {
		t.Fatalf("owner hint should disambiguate, got %+v %v", res, err)
	}
	if _, err := svc.Find(ctx, "", "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordScoreKeepsScoreAndCategoriesTogether(t *testing.T) {
	svc, repo := newTestService(t, &stubExtractor{text: "x"})
	ctx := context.Background()
	upload(t, svc, ownerA, "r1")

	err := svc.RecordScore(ctx, ownerA, "r1", ScoreResult{OverallScore: 72})
	if err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	stored, _ := repo.GetResume(ctx, ownerA, "r1")
	if stored.Analysis == nil || stored.Analysis.OverallScore != 72 || stored.Analysis.CategoryScores == nil {
		t.Fatalf("expected score with category map, got %+v", stored.Analysis)
	}
	if stored.Analysis.AnalyzedAt.IsZero() {
		t.Fatalf("expected analyzed timestamp")
	}

	if err := svc.RecordScore(ctx, ownerA, "gone", ScoreResult{OverallScore: 1}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReextractRecoversFailedResume(t *testing.T) {
	ex := &stubExtractor{err: apperr.Extraction("extract", "could not read PDF", nil)}
	svc, _ := newTestService(t, ex)
	upload(t, svc, ownerA, "r1")

	ex.err = nil
	ex.text = "fixed text"
	res, err := svc.Reextract(context.Background(), "", "r1")
	if err != nil {
		t.Fatalf("Reextract: %v", err)
	}
	if !res.HasText() || res.ExtractionError != "" {
		t.Fatalf("expected recovered resume, got %+v", res)
	}
}

func TestDeleteProfileIsStrictAboutFileRemoval(t *testing.T) {
	svc, repo := newTestService(t, &stubExtractor{text: "x"})
	ctx := context.Background()
	upload(t, svc, ownerA, "r1")
	upload(t, svc, ownerA, "r2")
	store := svc.Store

	svc.Store = failingDeleteStore{ObjectStore: store}
	if err := svc.DeleteProfile(ctx, ownerA); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if _, err := repo.GetProfile(ctx, ownerA); err != nil {
		t.Fatalf("profile must survive a failed delete: %v", err)
	}

	svc.Store = store
	if err := svc.DeleteProfile(ctx, ownerA); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := svc.GetProfile(ctx, ownerA); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
	if list, _ := repo.ListResumes(ctx, ownerA); len(list) != 0 {
		t.Fatalf("expected resumes gone, got %d", len(list))
	}
}

func TestUpdateProfileValidatesAndPersists(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "x"})
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, ownerA, ProfileUpdate{Email: "not-an-email"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	p, err := svc.UpdateProfile(ctx, ownerA, ProfileUpdate{
		FullName:      "  Grace Hopper ",
		Email:         "Grace@Example.com",
		LinkedInURL:   "https://linkedin.com/in/grace",
		Notifications: NotificationPreferences{JobAlerts: true},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.FullName != "Grace Hopper" || p.Email != "grace@example.com" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.Notifications.Email || !p.Notifications.JobAlerts {
		t.Fatalf("notification flags must be independent, got %+v", p.Notifications)
	}

	found, err := svc.GetProfileByEmail(ctx, "GRACE@example.com")
	if err != nil || found.UserID != ownerA {
		t.Fatalf("GetProfileByEmail: %+v %v", found, err)
	}
}

func TestOpenFileStreamsStoredBytes(t *testing.T) {
	svc, _ := newTestService(t, &stubExtractor{text: "x"})
	upload(t, svc, ownerA, "r1")

	res, body, err := svc.OpenFile(context.Background(), ownerA, "r1")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if got := readAll(t, body); got != "%PDF-1.4 fake" {
		t.Fatalf("unexpected body %q", got)
	}
	if res.Name != "cv.pdf" {
		t.Fatalf("unexpected name %s", res.Name)
	}
}
