// Package apperr defines the failure kinds surfaced by the resume pipeline.
// Storage and transport errors are wrapped into one of these kinds before
// they leave a service, so handlers never see raw driver or HTTP errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindExtraction Kind = "extraction_failed"
	KindNotReady   Kind = "not_ready"
	KindAnalysis   Kind = "analysis_failed"
	KindMatching   Kind = "matching_failed"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage_failed"
	KindConflict   Kind = "conflict"
	KindValidation Kind = "validation_error"
)

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrExtraction = &Error{Kind: KindExtraction}
	ErrNotReady   = &Error{Kind: KindNotReady}
	ErrAnalysis   = &Error{Kind: KindAnalysis}
	ErrMatching   = &Error{Kind: KindMatching}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrValidation = &Error{Kind: KindValidation}
)

// Error is a classified failure with a short user-facing message.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Extraction reports an unreadable, unsupported or empty document.
func Extraction(op, message string, err error) error {
	return newError(KindExtraction, op, message, err)
}

// NotReady reports an analysis attempted before text extraction finished.
func NotReady(op, message string) error {
	return newError(KindNotReady, op, message, nil)
}

// Analysis reports a failure of the delegated scorer.
func Analysis(op, message string, err error) error {
	return newError(KindAnalysis, op, message, err)
}

// Matching reports a failure of the delegated job matcher.
func Matching(op, message string, err error) error {
	return newError(KindMatching, op, message, err)
}

// NotFound reports an unknown resume or owner identifier.
func NotFound(op, message string) error {
	return newError(KindNotFound, op, message, nil)
}

// Storage reports a persistent store failure.
func Storage(op string, err error) error {
	return newError(KindStorage, op, "storage failure", err)
}

// Conflict reports a request that collides with existing state or in-flight work.
func Conflict(op, message string) error {
	return newError(KindConflict, op, message, nil)
}

// Validation reports malformed caller input.
func Validation(op, message string, err error) error {
	return newError(KindValidation, op, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the user-facing message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}

// HTTPStatus maps a kind to the status code returned to clients.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindNotReady, KindConflict:
		return http.StatusConflict
	case KindExtraction:
		return http.StatusUnprocessableEntity
	case KindMatching:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
