package applications

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, user_id, job_id, applied_at, status, notes, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (` + applicationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctx, query, app.ID, app.UserID, app.JobID, app.Date, string(app.Status), app.Notes, app.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrUnknownOwner
	}
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	var app Application
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.UserID, &app.JobID, &app.Date, &app.Status, &app.Notes, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (r *PGRepo) Update(ctx context.Context, app Application) error {
	const query = `
UPDATE applications
SET status = $2, notes = $3, updated_at = $4
WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, app.ID, string(app.Status), app.Notes, app.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var app Application
		if err := rows.Scan(&app.ID, &app.UserID, &app.JobID, &app.Date, &app.Status, &app.Notes, &app.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
