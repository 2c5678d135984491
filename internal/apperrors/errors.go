// Package apperrors defines the error taxonomy shared by the services.
// Handlers map these to HTTP statuses; callers branch with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap them with context via the constructors below.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrPersistence  = errors.New("persistence failure")
)

// InvalidInput marks a request the caller must fix before retrying
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound marks a missing referenced entity
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict marks a uniqueness or state collision
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Validation marks an entity-level rule violation
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence wraps a transient storage error; retryable at the operation
// boundary
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
