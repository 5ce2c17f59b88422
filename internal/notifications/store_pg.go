package notifications

import (
	"context"
	"database/sql"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Add(ctx context.Context, n Notification) error {
	const query = `
INSERT INTO notifications (id, user_id, type, title, message, related_job_id, read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var related sql.NullString
	if n.RelatedJobID != "" {
		related = sql.NullString{String: n.RelatedJobID, Valid: true}
	}
	_, err := s.DB.ExecContext(ctx, query, n.ID, n.UserID, string(n.Type), n.Title, n.Message, related, n.Read, n.Date)
	return err
}

func (s *PGStore) List(ctx context.Context, userID string) ([]Notification, error) {
	const query = `
SELECT id, user_id, type, title, message, related_job_id, read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		var typ string
		var related sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &related, &n.Read, &n.Date); err != nil {
			return nil, err
		}
		n.Type = Type(typ)
		if related.Valid {
			n.RelatedJobID = related.String
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
