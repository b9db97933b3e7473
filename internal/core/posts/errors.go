package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist
	ErrNotFound = errors.New("post not found")

	// ErrNotAuthorized is returned when the requester doesn't own the post
	ErrNotAuthorized = errors.New("not authorized to modify this post")

	// ErrTranscriptionEmpty is returned when a recording contains no detectable speech.
	// The user can fix it by recording again, so it is reported apart from service faults.
	ErrTranscriptionEmpty = errors.New("no speech detected in recording")

	// ErrAuthorRequired is returned when a create call has no authenticated author
	ErrAuthorRequired = errors.New("authenticated author required")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// PersistenceError wraps a database failure during a post operation
type PersistenceError struct {
	Err error
	Op  string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("post %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError checks if error is a database failure
func IsPersistenceError(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}
