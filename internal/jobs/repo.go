package jobs

import "context"

// Repo persists job postings. Title and company together are unique.
type Repo interface {
	// Create stores a new job. It returns ErrDuplicate when the title and
	// company pair is taken.
	Create(ctx context.Context, job Job) error
	FindByTitleCompany(ctx context.Context, title, company string) (Job, error)
	Get(ctx context.Context, id string) (Job, error)
	// List returns jobs in posting order.
	List(ctx context.Context) ([]Job, error)
	Delete(ctx context.Context, id string) error
}
