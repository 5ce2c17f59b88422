package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, company, location, description, skills_required, experience_required,
date_posted, url, keywords, application_deadline, job_type, salary_range`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	keywords, err := json.Marshal(nonNilStrings(job.Keywords))
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	var deadline sql.NullString
	if job.ApplicationDeadline != "" {
		deadline = sql.NullString{String: job.ApplicationDeadline, Valid: true}
	}
	_, err = r.DB.ExecContext(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.Description, job.SkillsRequired,
		job.ExperienceRequired, job.DatePosted, job.URL, keywords, deadline, job.JobType, job.SalaryRange,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) FindByTitleCompany(ctx context.Context, title, company string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE title = $1 AND company = $2`
	return scanJob(r.DB.QueryRowContext(ctx, query, title, company))
}

func (r *PGRepo) Get(ctx context.Context, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) List(ctx context.Context) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY seq ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (Job, error) {
	var (
		job      Job
		posted   time.Time
		deadline sql.NullTime
		keywords []byte
	)
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Description, &job.SkillsRequired,
		&job.ExperienceRequired, &posted, &job.URL, &keywords, &deadline, &job.JobType, &job.SalaryRange,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	job.DatePosted = posted.Format(DateLayout)
	if deadline.Valid {
		job.ApplicationDeadline = deadline.Time.Format(DateLayout)
	}
	job.Keywords = []string{}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &job.Keywords); err != nil {
			return Job{}, fmt.Errorf("decode keywords: %w", err)
		}
	}
	return job, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
