// Package errors provides custom error types for the sunstyle system.
// These errors enable programmatic error checking throughout the
// application: validation failures surface to the submitting client,
// persistence and load failures are logged and recovered, and no error
// kind defined here is ever fatal to the process.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the sunstyle system.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence indicates that writing durable state failed
	ErrPersistence = errors.New("persistence failed")

	// ErrLoad indicates that persisted state could not be read
	ErrLoad = errors.New("load failed")
)

// ValidationError represents a rejected candidate item. Message is the
// human-readable rejection reason surfaced verbatim to the submitter.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError represents a failed write of the persisted catalog.
// The in-memory catalog remains authoritative when this occurs.
type PersistenceError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting catalog to %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// LoadError represents missing or corrupt persisted state at startup.
// Recovery is starting from an empty catalog.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading catalog from %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// Is reports whether any error in err's chain matches target.
// Re-exported from the standard library for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// Re-exported from the standard library for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
