package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"careerhub-backend/internal/extract"
	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/metrics"
	"careerhub-backend/internal/shared/storage/object"
	"careerhub-backend/internal/shared/telemetry"
	"careerhub-backend/internal/shared/util"
)

const (
	// DefaultExtractWait bounds how long an upload waits for its text.
	DefaultExtractWait = 3 * time.Second

	extractTimeout     = 2 * time.Minute
	deleteConcurrency  = 4
	maxResumeIDLength  = 64
	msgInvalidOwner    = "Invalid user ID provided."
	msgUserNotFound    = "User not found."
	msgResumeNotFound  = "Resume not found."
	msgResumeIDInUse   = "A resume with this ID already exists."
	msgAmbiguousResume = "Resume ID matches more than one user, pass userId."
)

// Service owns the profile aggregate and its resume registry.
type Service struct {
	Repo          Repo
	Store         object.ObjectStore
	Extractor     extract.Extractor
	PublicBaseURL string
	ExtractWait   time.Duration
	Now           func() time.Time

	wg sync.WaitGroup
}

// AddResumeInput describes one uploaded resume file.
type AddResumeInput struct {
	OwnerID  string
	ResumeID string
	FileName string
	Body     io.Reader
}

// CreateProfile creates an empty profile for a new user.
func (s *Service) CreateProfile(ctx context.Context, userID, fullName, email string) (Profile, error) {
	const op = "profiles.CreateProfile"
	if !util.IsObjectID(userID) {
		return Profile{}, apperr.Validation(op, msgInvalidOwner, nil)
	}
	p := Profile{
		UserID:        strings.ToLower(userID),
		FullName:      strings.TrimSpace(fullName),
		Email:         strings.ToLower(strings.TrimSpace(email)),
		Notifications: DefaultNotificationPreferences(),
		UpdatedAt:     s.now(),
	}
	if err := s.Repo.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, ErrProfileExists) {
			return Profile{}, apperr.Conflict(op, "Profile already exists.")
		}
		return Profile{}, apperr.Storage(op, err)
	}
	p.Resumes = []Resume{}
	return p, nil
}

// GetProfile returns the profile with its resumes in upload order.
func (s *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	const op = "profiles.GetProfile"
	p, err := s.Repo.GetProfile(ctx, strings.ToLower(userID))
	if err != nil {
		return Profile{}, mapRepoErr(op, err)
	}
	return s.withResumes(ctx, op, p)
}

// GetProfileByEmail looks a profile up by contact email.
func (s *Service) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	const op = "profiles.GetProfileByEmail"
	email = strings.TrimSpace(email)
	if email == "" {
		return Profile{}, apperr.Validation(op, "Email is required.", nil)
	}
	p, err := s.Repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return Profile{}, mapRepoErr(op, err)
	}
	return s.withResumes(ctx, op, p)
}

// UpdateProfile replaces the editable fields after validation.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (Profile, error) {
	const op = "profiles.UpdateProfile"
	if err := util.ValidateStruct(upd); err != nil {
		return Profile{}, apperr.Validation(op, err.Error(), err)
	}
	current, err := s.Repo.GetProfile(ctx, strings.ToLower(userID))
	if err != nil {
		return Profile{}, mapRepoErr(op, err)
	}
	next := upd.apply(current)
	next.UpdatedAt = s.now()
	if err := s.Repo.UpdateProfile(ctx, next); err != nil {
		return Profile{}, mapRepoErr(op, err)
	}
	return s.withResumes(ctx, op, next)
}

// DeleteProfile removes every stored resume file, then the profile and its
// registry. If any file cannot be removed the profile is kept so the call
// can be retried.
func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	const op = "profiles.DeleteProfile"
	userID = strings.ToLower(userID)
	if _, err := s.Repo.GetProfile(ctx, userID); err != nil {
		return mapRepoErr(op, err)
	}
	resumes, err := s.Repo.ListResumes(ctx, userID)
	if err != nil {
		return apperr.Storage(op, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, res := range resumes {
		key := res.StorageKey
		if key == "" {
			continue
		}
		g.Go(func() error {
			if err := s.Store.Delete(gctx, key); err != nil {
				return fmt.Errorf("delete object %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperr.Storage(op, err)
	}

	if err := s.Repo.DeleteProfile(ctx, userID); err != nil {
		return mapRepoErr(op, err)
	}
	telemetry.Info("profile.deleted", map[string]any{"user_id": userID, "resume_count": len(resumes)})
	return nil
}

// AddResume stores the file, registers it as pending and starts text
// extraction. It waits up to ExtractWait for the text; extraction keeps
// running in the background when the wait ends first.
func (s *Service) AddResume(ctx context.Context, in AddResumeInput) (Resume, error) {
	const op = "profiles.AddResume"
	owner := strings.ToLower(strings.TrimSpace(in.OwnerID))
	if !util.IsObjectID(owner) {
		return Resume{}, apperr.Validation(op, msgInvalidOwner, nil)
	}
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" || in.Body == nil {
		return Resume{}, apperr.Validation(op, "No resume file uploaded.", nil)
	}
	now := s.now()
	resumeID := strings.TrimSpace(in.ResumeID)
	if resumeID == "" {
		resumeID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	if len(resumeID) > maxResumeIDLength || strings.ContainsAny(resumeID, "/\\") {
		return Resume{}, apperr.Validation(op, "Invalid resume ID provided.", nil)
	}

	if _, err := s.Repo.GetProfile(ctx, owner); err != nil {
		return Resume{}, mapRepoErr(op, err)
	}
	if _, err := s.Repo.GetResume(ctx, owner, resumeID); err == nil {
		return Resume{}, apperr.Conflict(op, msgResumeIDInUse)
	} else if !errors.Is(err, ErrNotFound) {
		return Resume{}, apperr.Storage(op, err)
	}

	key, size, mimeType, err := s.Store.Save(ctx, owner, fileName, in.Body)
	if err != nil {
		return Resume{}, apperr.Storage(op, err)
	}

	res := Resume{
		ID:               resumeID,
		OwnerID:          owner,
		Name:             fileName,
		StorageKey:       key,
		URL:              s.fileURL(owner, resumeID),
		MimeType:         mimeType,
		SizeBytes:        size,
		UploadedAt:       now,
		ExtractionStatus: ExtractionPending,
	}
	if err := s.Repo.AddResume(ctx, res); err != nil {
		if derr := s.Store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			telemetry.Warn("resume.cleanup", map[string]any{"resume_id": resumeID, "user_id": owner, "err": derr})
		}
		return Resume{}, mapRepoErr(op, err)
	}

	done := make(chan struct{})
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		extractCtx, cancel := context.WithTimeout(bg, extractTimeout)
		defer cancel()
		_ = s.runExtraction(extractCtx, res)
	}()

	wait := s.ExtractWait
	if wait <= 0 {
		wait = DefaultExtractWait
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-done:
		if latest, err := s.Repo.GetResume(bg, owner, resumeID); err == nil {
			return latest, nil
		}
	case <-timer.C:
	case <-ctx.Done():
	}
	return res, nil
}

// Reextract runs extraction again and waits for it.
func (s *Service) Reextract(ctx context.Context, ownerHint, resumeID string) (Resume, error) {
	const op = "profiles.Reextract"
	res, err := s.Find(ctx, ownerHint, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if err := s.runExtraction(ctx, res); err != nil {
		return Resume{}, err
	}
	latest, err := s.Repo.GetResume(ctx, res.OwnerID, res.ID)
	if err != nil {
		return Resume{}, mapRepoErr(op, err)
	}
	return latest, nil
}

// RemoveResume deletes the resume entry. The stored file is removed on a
// best-effort basis.
func (s *Service) RemoveResume(ctx context.Context, ownerHint, resumeID string) error {
	const op = "profiles.RemoveResume"
	res, err := s.Find(ctx, ownerHint, resumeID)
	if err != nil {
		return err
	}
	if res.StorageKey != "" {
		if err := s.Store.Delete(ctx, res.StorageKey); err != nil {
			telemetry.Warn("resume.file_delete", map[string]any{"resume_id": res.ID, "user_id": res.OwnerID, "err": err})
		}
	}
	if err := s.Repo.DeleteResume(ctx, res.OwnerID, res.ID); err != nil {
		return mapRepoErr(op, err)
	}
	return nil
}

// ListResumes returns the owner's resumes in upload order.
func (s *Service) ListResumes(ctx context.Context, ownerID string) ([]Resume, error) {
	const op = "profiles.ListResumes"
	ownerID = strings.ToLower(ownerID)
	if _, err := s.Repo.GetProfile(ctx, ownerID); err != nil {
		return nil, mapRepoErr(op, err)
	}
	list, err := s.Repo.ListResumes(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	return list, nil
}

// Find resolves a resume. An empty owner hint falls back to Locate.
func (s *Service) Find(ctx context.Context, ownerHint, resumeID string) (Resume, error) {
	const op = "profiles.Find"
	owner := strings.ToLower(strings.TrimSpace(ownerHint))
	if owner == "" {
		located, err := s.Locate(ctx, resumeID)
		if err != nil {
			return Resume{}, err
		}
		owner = located
	}
	res, err := s.Repo.GetResume(ctx, owner, resumeID)
	if err != nil {
		return Resume{}, mapRepoErr(op, err)
	}
	return res, nil
}

// Locate returns the single owner holding resumeID.
func (s *Service) Locate(ctx context.Context, resumeID string) (string, error) {
	const op = "profiles.Locate"
	owners, err := s.Repo.FindResumeOwners(ctx, resumeID)
	if err != nil {
		return "", apperr.Storage(op, err)
	}
	switch len(owners) {
	case 0:
		return "", apperr.NotFound(op, msgResumeNotFound)
	case 1:
		return owners[0], nil
	default:
		return "", apperr.Conflict(op, msgAmbiguousResume)
	}
}

// RecordScore persists a completed analysis on one resume.
func (s *Service) RecordScore(ctx context.Context, ownerID, resumeID string, result ScoreResult) error {
	const op = "profiles.RecordScore"
	if result.AnalyzedAt.IsZero() {
		result.AnalyzedAt = s.now()
	}
	if err := s.Repo.RecordScore(ctx, ownerID, resumeID, result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(op, msgResumeNotFound)
		}
		return apperr.Storage(op, err)
	}
	return nil
}

// OpenFile streams the stored resume file.
func (s *Service) OpenFile(ctx context.Context, ownerID, resumeID string) (Resume, io.ReadCloser, error) {
	const op = "profiles.OpenFile"
	res, err := s.Find(ctx, ownerID, resumeID)
	if err != nil {
		return Resume{}, nil, err
	}
	body, err := s.Store.Open(ctx, res.StorageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Resume{}, nil, apperr.NotFound(op, "Resume file not found.")
		}
		return Resume{}, nil, apperr.Storage(op, err)
	}
	return res, body, nil
}

// Wait blocks until background extractions finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) runExtraction(ctx context.Context, res Resume) error {
	const op = "profiles.extract"
	start := time.Now()
	text, err := s.Extractor.Extract(ctx, res.StorageKey, res.Name)

	status, errMsg := ExtractionDone, ""
	if err != nil {
		status, text, errMsg = ExtractionFailed, "", apperr.MessageOf(err)
	}
	// Persist with a detached context so a finished extraction is never lost to cancellation.
	if uerr := s.Repo.SetExtraction(context.WithoutCancel(ctx), res.OwnerID, res.ID, status, text, errMsg); uerr != nil {
		fields := map[string]any{"resume_id": res.ID, "user_id": res.OwnerID, "err": uerr}
		if errors.Is(uerr, ErrNotFound) {
			telemetry.Info("resume.extraction_discarded", fields)
			return apperr.NotFound(op, msgResumeNotFound)
		}
		telemetry.Error("resume.extraction_write", fields)
		return apperr.Storage(op, uerr)
	}

	metrics.IncExtraction(err == nil)
	fields := map[string]any{
		"resume_id":   res.ID,
		"user_id":     res.OwnerID,
		"status":      string(status),
		"duration_ms": metrics.SinceMillis(start),
	}
	if err != nil {
		fields["err"] = err
		telemetry.Warn("resume.extraction", fields)
		return err
	}
	fields["text_len"] = len(text)
	telemetry.Info("resume.extraction", fields)
	return nil
}

func (s *Service) withResumes(ctx context.Context, op string, p Profile) (Profile, error) {
	list, err := s.Repo.ListResumes(ctx, p.UserID)
	if err != nil {
		return Profile{}, apperr.Storage(op, err)
	}
	p.Resumes = list
	return p, nil
}

func (s *Service) fileURL(ownerID, resumeID string) string {
	return fmt.Sprintf("%s/api/v1/users/%s/resumes/%s/file",
		strings.TrimRight(s.PublicBaseURL, "/"), url.PathEscape(ownerID), url.PathEscape(resumeID))
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func mapRepoErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return apperr.NotFound(op, msgUserNotFound)
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound(op, msgResumeNotFound)
	case errors.Is(err, ErrDuplicateResume):
		return apperr.Conflict(op, msgResumeIDInUse)
	case errors.Is(err, ErrProfileExists):
		return apperr.Conflict(op, "Profile already exists.")
	default:
		return apperr.Storage(op, err)
	}
}
