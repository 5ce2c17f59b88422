package profiles

import "errors"

var (
	ErrNotFound        = errors.New("resume not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrDuplicateResume = errors.New("resume id already in use")
)
