// Package errors provides error handling for ciprobe.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints printed by the CLI
//
// Usage:
//
//	// Wrap with context
//	if err := provider.EnsureLocalCopy(ctx, repoID); err != nil {
//	    return errors.Wrapf(err, "failed to acquire %s", repoID)
//	}
//
//	// Classify with a sentinel so callers can decide whether the run continues
//	return errors.Mark(errors.Newf("config file not found at %s", path), errors.ErrConfig)
//
//	// Add hints for users
//	return errors.WithHint(err, "pass --config or create ciprobeconfig.yml")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors. Each one names a failure class from the run's error taxonomy;
// wrap or Mark them to add context while keeping errors.Is() working.
var (
	// ErrConfig indicates the task registry or settings could not be loaded.
	// Fatal to the run.
	ErrConfig = New("configuration error")

	// ErrCredentials indicates repository credentials could not be resolved.
	// Fatal to the run.
	ErrCredentials = New("credentials error")

	// ErrAcquire indicates a repository working copy could not be cloned or updated.
	// Recoverable: the repository is excluded and the run continues.
	ErrAcquire = New("repository acquisition failed")

	// ErrRead indicates a discovered pipeline file could not be read.
	// Aborts the remaining files of that repository only.
	ErrRead = New("pipeline file read failed")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsConfigError checks if an error is or wraps ErrConfig
func IsConfigError(err error) bool {
	return err != nil && Is(err, ErrConfig)
}

// IsCredentialsError checks if an error is or wraps ErrCredentials
func IsCredentialsError(err error) bool {
	return err != nil && Is(err, ErrCredentials)
}

// IsAcquireError checks if an error is or wraps ErrAcquire
func IsAcquireError(err error) bool {
	return err != nil && Is(err, ErrAcquire)
}

// IsReadError checks if an error is or wraps ErrRead
func IsReadError(err error) bool {
	return err != nil && Is(err, ErrRead)
}

// IsFatal reports whether an error must terminate the whole run.
func IsFatal(err error) bool {
	return IsAny(err, ErrConfig, ErrCredentials)
}

// NewConfigError creates a configuration error with a formatted message.
func NewConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfig)
}

// WrapConfig wraps err with context and marks it as a configuration error.
func WrapConfig(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrConfig)
}

// WrapAcquire wraps err with context and marks it as an acquisition error.
func WrapAcquire(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrAcquire)
}

// WrapRead wraps err with context and marks it as a read error.
func WrapRead(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrRead)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidRequest)
}
