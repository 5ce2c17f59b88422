package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobColumnNames = []string{
	"id", "title", "company", "location", "description", "skills_required", "experience_required",
	"date_posted", "url", "keywords", "application_deadline", "job_type", "salary_range",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	job := sampleJobs()[0]
	job.ID = "j1"

	mock.ExpectExec("INSERT INTO jobs").
		WithArgs("j1", job.Title, job.Company, job.Location, job.Description, job.SkillsRequired, "",
			"2025-02-15", "", []byte(`["frontend","web development"]`), nil, "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), job))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO jobs").WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), Job{ID: "j1", Title: "T", Company: "C", DatePosted: "2025-01-01"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPGRepoListInPostingOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	posted := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(jobColumnNames).
		AddRow("j1", "Frontend Developer", "TechCorp", "Pune", "desc", "React", "2+ years", posted, "https://example.com/apply", []byte(`["react"]`), deadline, "Full-time", "8-12 LPA").
		AddRow("j2", "Backend Engineer", "DataSystems", "Mumbai", "desc", "Go", "", posted, "", []byte(`[]`), nil, "", "")
	mock.ExpectQuery("SELECT (.+) FROM jobs ORDER BY seq ASC").WillReturnRows(rows)

	jobs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "2025-02-15", jobs[0].DatePosted)
	assert.Equal(t, "2025-03-30", jobs[0].ApplicationDeadline)
	assert.Equal(t, []string{"react"}, jobs[0].Keywords)
	assert.Equal(t, "", jobs[1].ApplicationDeadline)
	assert.Equal(t, []string{}, jobs[1].Keywords)
	assert.Nil(t, jobs[0].Match)
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM jobs WHERE id = \\$1").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(jobColumnNames))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM jobs").WithArgs("j9").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "j9"), ErrNotFound)
}
