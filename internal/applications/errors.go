package applications

import "errors"

var (
	ErrNotFound     = errors.New("application not found")
	ErrUnknownOwner = errors.New("application owner does not exist")
)
