package profiles

import "context"

// Repo persists profiles and their resume registries. Resume mutations are
// single-row updates keyed by (owner, resume) so concurrent pipeline steps
// do not overwrite each other's fields.
type Repo interface {
	CreateProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, userID string) (Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (Profile, error)
	UpdateProfile(ctx context.Context, p Profile) error
	// DeleteProfile removes the profile and every resume row it owns.
	DeleteProfile(ctx context.Context, userID string) error

	AddResume(ctx context.Context, r Resume) error
	GetResume(ctx context.Context, ownerID, resumeID string) (Resume, error)
	// FindResumeOwners lists owners holding a resume with this ID.
	FindResumeOwners(ctx context.Context, resumeID string) ([]string, error)
	// ListResumes returns resumes in insertion order.
	ListResumes(ctx context.Context, ownerID string) ([]Resume, error)
	SetExtraction(ctx context.Context, ownerID, resumeID string, status ExtractionStatus, text, errMsg string) error
	RecordScore(ctx context.Context, ownerID, resumeID string, result ScoreResult) error
	DeleteResume(ctx context.Context, ownerID, resumeID string) error
}
