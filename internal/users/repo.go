package users

import "context"

// Repo persists accounts. Emails are unique ignoring case.
type Repo interface {
	// Create returns ErrEmailTaken when the email is in use.
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Delete(ctx context.Context, userID string) error
}
