// ABOUTME: Error taxonomy for the workout engine.
// ABOUTME: Sentinel business-rule errors plus typed validation and storage failures.
package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for business-rule violations. Callers check them with
// errors.Is; they are surfaced verbatim and never retried.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrAlreadyFinished = errors.New("session already finished")
	ErrInUse           = errors.New("exercise has logged history")
)

// ValidationError reports a caller-supplied value that violates a field
// constraint. It is always locally recoverable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps an I/O or transaction failure from the storage backend.
// The engine performs no automatic retry; local disk failures are not
// expected to be transient.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err with the failing operation name.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
