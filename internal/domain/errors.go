package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the storage layer.
var (
	// ErrNotFound is wrapped by NotFoundError and returned bare by repositories.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when a save collides with an existing natural key.
	ErrDuplicateKey = errors.New("duplicate natural key")
	// ErrStaleWrite is returned when an optimistic revision check fails.
	ErrStaleWrite = errors.New("stale write")
)

// ValidationError rejects an operation because of missing or invalid input.
// The operation is never partially applied.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError rejects an operation because an entity or version is absent.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found." }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a NotFoundError for the named resource ("Product", "Version 7", ...).
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError rejects an operation that would violate a referential invariant.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Conflictf builds a ConflictError from a format string.
func Conflictf(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
