package applications

import "context"

// Repo persists applications.
type Repo interface {
	Create(ctx context.Context, app Application) error
	Get(ctx context.Context, id string) (Application, error)
	Update(ctx context.Context, app Application) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns the newest applications first.
	ListByUser(ctx context.Context, userID string) ([]Application, error)
}
