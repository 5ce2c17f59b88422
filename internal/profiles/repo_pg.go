package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"careerhub-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const profileColumns = `user_id, full_name, email, phone, skills, experience, education, interests,
    preferred_location, job_title, bio, avatar_url, linkedin_url, github_url, portfolio_url,
    notify_email, notify_job_alerts, notify_application_updates, notify_new_matching_jobs, updated_at`

const resumeColumns = `user_id, id, name, storage_key, url, mime_type, size_bytes, uploaded_at,
    extraction_status, extraction_error, extracted_text,
    score, category_scores, feedback, recommendations, analyzed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateProfile inserts an empty profile for an existing user.
func (r *PGRepo) CreateProfile(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (` + profileColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.DB.ExecContext(ctx, query, profileArgs(p)...)
	if isPGCode(err, "23505") {
		return ErrProfileExists
	}
	return err
}

// GetProfile fetches a profile without its resumes.
func (r *PGRepo) GetProfile(ctx context.Context, userID string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

// GetProfileByEmail matches the contact email case-insensitively.
func (r *PGRepo) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1) ORDER BY user_id LIMIT 1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

// UpdateProfile overwrites the editable fields.
func (r *PGRepo) UpdateProfile(ctx context.Context, p Profile) error {
	const query = `
UPDATE profiles SET
    full_name = $2, email = $3, phone = $4, skills = $5, experience = $6, education = $7,
    interests = $8, preferred_location = $9, job_title = $10, bio = $11, avatar_url = $12,
    linkedin_url = $13, github_url = $14, portfolio_url = $15,
    notify_email = $16, notify_job_alerts = $17, notify_application_updates = $18,
    notify_new_matching_jobs = $19, updated_at = $20
WHERE user_id = $1`

	res, err := r.DB.ExecContext(ctx, query, profileArgs(p)...)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrProfileNotFound)
}

// DeleteProfile removes the resume rows and the profile in one transaction.
func (r *PGRepo) DeleteProfile(ctx context.Context, userID string) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete resumes: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return expectOneRow(res, ErrProfileNotFound)
	})
}

// AddResume appends a resume; position is assigned by the sequence so list order follows inserts.
func (r *PGRepo) AddResume(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (user_id, id, name, storage_key, url, mime_type, size_bytes, uploaded_at, extraction_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	status := res.ExtractionStatus
	if status == "" {
		status = ExtractionPending
	}
	_, err := r.DB.ExecContext(ctx, query,
		res.OwnerID,
		res.ID,
		res.Name,
		res.StorageKey,
		res.URL,
		res.MimeType,
		res.SizeBytes,
		res.UploadedAt,
		string(status),
	)
	switch {
	case isPGCode(err, "23505"):
		return ErrDuplicateResume
	case isPGCode(err, "23503"):
		return ErrProfileNotFound
	}
	return err
}

func (r *PGRepo) GetResume(ctx context.Context, ownerID, resumeID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND id = $2`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, ownerID, resumeID))
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return res, err
}

func (r *PGRepo) FindResumeOwners(ctx context.Context, resumeID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT user_id FROM resumes WHERE id = $1 ORDER BY user_id`, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

func (r *PGRepo) ListResumes(ctx context.Context, ownerID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetExtraction(ctx context.Context, ownerID, resumeID string, status ExtractionStatus, text, errMsg string) error {
	const query = `
UPDATE resumes
SET extraction_status = $3, extracted_text = $4, extraction_error = $5
WHERE user_id = $1 AND id = $2`

	res, err := r.DB.ExecContext(ctx, query, ownerID, resumeID, string(status), nullString(text), nullString(errMsg))
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

// RecordScore writes score, categories, feedback and recommendations in a
// single statement so readers never observe a partial analysis.
func (r *PGRepo) RecordScore(ctx context.Context, ownerID, resumeID string, result ScoreResult) error {
	const query = `
UPDATE resumes
SET score = $3, category_scores = $4, feedback = $5, recommendations = $6, analyzed_at = $7
WHERE user_id = $1 AND id = $2`

	categories := result.CategoryScores
	if categories == nil {
		categories = map[string]int{}
	}
	feedback := result.Feedback
	if feedback == nil {
		feedback = map[string]string{}
	}
	recs := result.Recommendations
	if recs == nil {
		recs = []string{}
	}
	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	feedbackJSON, err := json.Marshal(feedback)
	if err != nil {
		return err
	}
	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	res, err := r.DB.ExecContext(ctx, query, ownerID, resumeID, result.OverallScore, categoriesJSON, feedbackJSON, recsJSON, analyzedAt)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

func (r *PGRepo) DeleteResume(ctx context.Context, ownerID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = $1 AND id = $2`, ownerID, resumeID)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

func profileArgs(p Profile) []any {
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	return []any{
		p.UserID, p.FullName, p.Email, p.Phone, p.Skills, p.Experience, p.Education, p.Interests,
		p.PreferredLocation, p.JobTitle, p.Bio, p.AvatarURL, p.LinkedInURL, p.GitHubURL, p.PortfolioURL,
		p.Notifications.Email, p.Notifications.JobAlerts, p.Notifications.ApplicationUpdates,
		p.Notifications.NewMatchingJobs, updatedAt,
	}
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.Skills, &p.Experience, &p.Education, &p.Interests,
		&p.PreferredLocation, &p.JobTitle, &p.Bio, &p.AvatarURL, &p.LinkedInURL, &p.GitHubURL, &p.PortfolioURL,
		&p.Notifications.Email, &p.Notifications.JobAlerts, &p.Notifications.ApplicationUpdates,
		&p.Notifications.NewMatchingJobs, &p.UpdatedAt,
	)
	return p, err
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var status string
	var extractionError sql.NullString
	var extractedText sql.NullString
	var score sql.NullInt64
	var categories, feedback, recs []byte
	var analyzedAt sql.NullTime
	err := row.Scan(
		&res.OwnerID,
		&res.ID,
		&res.Name,
		&res.StorageKey,
		&res.URL,
		&res.MimeType,
		&res.SizeBytes,
		&res.UploadedAt,
		&status,
		&extractionError,
		&extractedText,
		&score,
		&categories,
		&feedback,
		&recs,
		&analyzedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	res.ExtractionStatus = ExtractionStatus(status)
	if extractionError.Valid {
		res.ExtractionError = extractionError.String
	}
	if extractedText.Valid {
		res.ExtractedText = extractedText.String
	}
	if score.Valid {
		result := &ScoreResult{OverallScore: int(score.Int64)}
		if err := decodeJSON(categories, &result.CategoryScores); err != nil {
			return Resume{}, fmt.Errorf("decode category_scores: %w", err)
		}
		if err := decodeJSON(feedback, &result.Feedback); err != nil {
			return Resume{}, fmt.Errorf("decode feedback: %w", err)
		}
		if err := decodeJSON(recs, &result.Recommendations); err != nil {
			return Resume{}, fmt.Errorf("decode recommendations: %w", err)
		}
		if result.CategoryScores == nil {
			result.CategoryScores = map[string]int{}
		}
		if analyzedAt.Valid {
			result.AnalyzedAt = analyzedAt.Time
		}
		res.Analysis = result
	}
	return res, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
