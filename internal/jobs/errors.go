package jobs

import "errors"

var (
	ErrNotFound     = errors.New("job not found")
	ErrDuplicate    = errors.New("job with this title and company already exists")
	ErrRemoteSearch = errors.New("remote job search failed")
)
