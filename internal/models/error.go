package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Login flow errors
	ErrValidation           = errors.New("login form validation failed")
	ErrLockedOut            = errors.New("login temporarily locked")
	ErrSubmissionInProgress = errors.New("login submission already in progress")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrBackendUnavailable   = errors.New("authentication backend unavailable")
	ErrBackendRejected      = errors.New("authentication backend rejected the request")
)

// StatusError is returned by the authentication backend client when the
// backend answers with a non-2xx status. Status 0 means the backend could not
// be reached at all.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("auth backend unreachable: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("auth backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("auth backend returned %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// LoginError is the outcome of a rejected login submission. Kind selects the
// user-facing message and Err carries the sentinel used for HTTP mapping.
type LoginError struct {
	Kind    MessageKind
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
