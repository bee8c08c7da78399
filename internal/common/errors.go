// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Reconciliation errors.
	ErrPersist        = errors.New("failed to persist reconciliation")
	ErrInvalidMode    = errors.New("invalid update mode")
	ErrInvalidKind    = errors.New("invalid update kind")
	ErrInvalidAccount = errors.New("invalid account")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the person at the terminal. The
// wrapped error stays available to errors.Is for callers and tests.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return e.UserMessage + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error { return e.Err }

// Userf builds a UserError with a formatted message wrapping err, which may
// be nil.
func Userf(err error, format string, args ...any) error {
	return &UserError{UserMessage: fmt.Sprintf(format, args...), Err: err}
}

// IsRetryable is the default classifier: everything except cancellation
// and the application's own sentinel errors is treated as transient.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateEntry),
		errors.Is(err, ErrInvalidAccount), errors.Is(err, ErrInvalidConfig):
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}
	return true
}
