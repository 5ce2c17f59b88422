package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/auth"
	"careerhub-backend/internal/shared/telemetry"
	"careerhub-backend/internal/shared/util"
)

const (
	msgEmailTaken         = "User with this email already exists."
	msgInvalidCredentials = "Invalid email or password."
)

// Profiles is the profile registry an account owns.
type Profiles interface {
	CreateProfile(ctx context.Context, userID, fullName, email string) (profiles.Profile, error)
	GetProfile(ctx context.Context, userID string) (profiles.Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// Session is the result of a successful login.
type Session struct {
	Token   string
	User    User
	Profile profiles.Profile
}

// Service manages accounts.
type Service struct {
	Repo       Repo
	Profiles   Profiles
	BcryptCost int
	Now        func() time.Time
}

// Signup creates an account and its empty profile.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	const op = "users.Signup"
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := util.ValidateStruct(in); err != nil {
		return User{}, apperr.Validation(op, err.Error(), err)
	}

	cost := s.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return User{}, apperr.Storage(op, err)
	}

	user := User{
		ID:           util.NewObjectID(),
		Name:         in.Name,
		Email:        in.Email,
		Skills:       in.Skills,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, apperr.Validation(op, msgEmailTaken, err)
		}
		return User{}, apperr.Storage(op, err)
	}
	if _, err := s.Profiles.CreateProfile(ctx, user.ID, user.Name, user.Email); err != nil {
		if delErr := s.Repo.Delete(ctx, user.ID); delErr != nil {
			telemetry.Error("users.signup_rollback_failed", map[string]any{"user_id": user.ID, "err": delErr})
		}
		return User{}, err
	}
	telemetry.Info("users.signup", map[string]any{"user_id": user.ID})
	return user, nil
}

// Login checks credentials and issues a session token. Unknown emails and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	const op = "users.Login"
	if err := util.ValidateStruct(in); err != nil {
		return Session{}, apperr.Validation(op, msgInvalidCredentials, err)
	}
	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, ErrNotFound) {
		return Session{}, apperr.Validation(op, msgInvalidCredentials, err)
	}
	if err != nil {
		return Session{}, apperr.Storage(op, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, apperr.Validation(op, msgInvalidCredentials, err)
	}

	token, err := auth.SignJWT(user.ID, user.Email, user.Name)
	if err != nil {
		return Session{}, apperr.Storage(op, err)
	}
	profile, err := s.Profiles.GetProfile(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user, Profile: profile}, nil
}

// GetByID returns an account.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	user, err := s.Repo.GetByID(ctx, strings.ToLower(userID))
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.NotFound("users.GetByID", "User not found.")
	}
	if err != nil {
		return User{}, apperr.Storage("users.GetByID", err)
	}
	return user, nil
}

// Delete removes the profile with its resumes, then the account.
func (s *Service) Delete(ctx context.Context, userID string) error {
	const op = "users.Delete"
	userID = strings.ToLower(userID)
	profileErr := s.Profiles.DeleteProfile(ctx, userID)
	if profileErr != nil && apperr.KindOf(profileErr) != apperr.KindNotFound {
		return profileErr
	}
	err := s.Repo.Delete(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound) && profileErr != nil:
		return apperr.NotFound(op, "User not found.")
	case err != nil && !errors.Is(err, ErrNotFound):
		return apperr.Storage(op, err)
	}
	telemetry.Info("users.deleted", map[string]any{"user_id": userID})
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
