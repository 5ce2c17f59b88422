package analyses

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"careerhub-backend/internal/notifications"
	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/scoring"
	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/lock"
	"careerhub-backend/internal/shared/metrics"
	"careerhub-backend/internal/shared/telemetry"
)

const (
	msgAnalysisFailed = "Error analyzing resume."
	msgParseFailed    = "Failed to parse resume analysis result."
	msgInProgress     = "Analysis already in progress for this resume."
	msgNotReady       = "Resume text is not ready yet, try again shortly."
	msgExtractFailed  = "Resume text could not be extracted, re-extract or upload a new file."
	msgDetached       = "Request ended before the analysis finished. The score is saved when it completes."
)

// Resumes is the slice of the profile registry the analysis pipeline needs.
type Resumes interface {
	Find(ctx context.Context, ownerHint, resumeID string) (profiles.Resume, error)
	RecordScore(ctx context.Context, ownerID, resumeID string, result profiles.ScoreResult) error
}

// Service runs delegated ATS scoring for stored resumes.
type Service struct {
	Resumes  Resumes
	Scorer   scoring.Scorer
	Guard    lock.Guard
	Notifier notifications.Notifier
	Timeout  time.Duration
	Now      func() time.Time

	wg sync.WaitGroup
}

type outcome struct {
	result profiles.ScoreResult
	err    error
}

// Analyze scores a resume whose text has been extracted and records the
// result. Only one analysis per resume runs at a time; a concurrent call
// fails with a conflict. The scorer runs detached from ctx so the result is
// still written if the caller goes away.
func (s *Service) Analyze(ctx context.Context, ownerHint, resumeID string) (profiles.ScoreResult, error) {
	const op = "analyses.Analyze"
	res, err := s.Resumes.Find(ctx, ownerHint, resumeID)
	if err != nil {
		return profiles.ScoreResult{}, err
	}
	if !res.HasText() {
		metrics.IncAnalysisRejected()
		if res.ExtractionStatus == profiles.ExtractionFailed {
			return profiles.ScoreResult{}, apperr.NotReady(op, msgExtractFailed)
		}
		return profiles.ScoreResult{}, apperr.NotReady(op, msgNotReady)
	}

	release, ok, err := s.Guard.Acquire(ctx, guardKey(res.OwnerID, res.ID))
	if err != nil {
		return profiles.ScoreResult{}, apperr.Storage(op, err)
	}
	if !ok {
		metrics.IncAnalysisRejected()
		return profiles.ScoreResult{}, apperr.Conflict(op, msgInProgress)
	}

	done := make(chan outcome, 1)
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer release()
		done <- s.run(bg, res)
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return profiles.ScoreResult{}, apperr.Analysis(op, msgDetached, ctx.Err())
	}
}

// InFlight reports whether an analysis is running for the resume.
func (s *Service) InFlight(ownerID, resumeID string) bool {
	if s.Guard == nil {
		return false
	}
	return s.Guard.Held(context.Background(), guardKey(ownerID, resumeID))
}

// Wait blocks until running analyses finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, res profiles.Resume) (out outcome) {
	const op = "analyses.run"
	start := time.Now()
	fields := map[string]any{
		"request_id": requestIDFromContext(ctx),
		"resume_id":  res.ID,
		"user_id":    res.OwnerID,
	}
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: apperr.Analysis(op, msgAnalysisFailed, fmt.Errorf("panic: %v", r))}
		}
		elapsed := metrics.SinceMillis(start)
		fields["duration_ms"] = elapsed
		metrics.ObserveAnalysisDurationMs(elapsed)
		if out.err != nil {
			metrics.IncAnalysisFailed()
			fields["outcome"] = string(apperr.KindOf(out.err))
			fields["err"] = out.err
			telemetry.Warn("resume.analysis", fields)
			return
		}
		metrics.IncAnalysisCompleted()
		fields["outcome"] = "completed"
		fields["score"] = out.result.OverallScore
		telemetry.Info("resume.analysis", fields)
	}()
	metrics.IncAnalysisStarted()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = scoring.DefaultTimeout
	}
	scoreCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	scored, err := s.Scorer.Score(scoreCtx, scoring.Request{ResumeID: res.ID, FileName: res.Name, Text: res.ExtractedText})
	if err != nil {
		msg := msgAnalysisFailed
		if errors.Is(err, scoring.ErrMalformedResult) {
			msg = msgParseFailed
		}
		return outcome{err: apperr.Analysis(op, msg, err)}
	}

	result := profiles.ScoreResult{
		OverallScore:    scored.OverallScore,
		CategoryScores:  scored.CategoryScores,
		Feedback:        scored.Feedback,
		Recommendations: scored.Recommendations,
		AnalyzedAt:      s.now(),
	}
	if err := s.Resumes.RecordScore(ctx, res.OwnerID, res.ID, result); err != nil {
		return outcome{err: err}
	}

	if s.Notifier != nil {
		n := notifications.Notification{
			UserID:  res.OwnerID,
			Type:    notifications.TypeSystem,
			Title:   "Resume Analysis Complete",
			Message: fmt.Sprintf("%s has been analyzed.", res.Name),
		}
		if err := s.Notifier.Notify(ctx, n); err != nil {
			telemetry.Warn("resume.analysis_notify", map[string]any{"resume_id": res.ID, "user_id": res.OwnerID, "err": err})
		}
	}
	return outcome{result: result}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func guardKey(ownerID, resumeID string) string {
	return "resume:" + ownerID + "/" + resumeID
}
