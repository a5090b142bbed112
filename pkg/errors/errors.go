// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypePermission
	ErrorTypeStorage
	ErrorTypeInternal
)

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError represents an invalid input or configuration value
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a missing entity or remote object
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// ConflictError represents a uniqueness or state conflict
type ConflictError struct {
	baseError
}

// NewConflictError creates a new ConflictError
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{baseError{msg: msg}}
}

// PermissionError represents a missing right on the remote side
type PermissionError struct {
	baseError
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{baseError{msg: msg}}
}

// StorageError represents a failed persistence operation.
// It wraps the driver error so callers can still inspect the cause.
type StorageError struct {
	baseError
	cause error
}

// NewStorageError creates a new StorageError wrapping cause
func NewStorageError(msg string, cause error) *StorageError {
	return &StorageError{baseError: baseError{msg: msg + ": " + cause.Error()}, cause: cause}
}

// Unwrap returns the wrapped driver error
func (e *StorageError) Unwrap() error {
	return e.cause
}

// InternalError represents an unexpected internal failure
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

// IsConflictError checks if error is a ConflictError
func IsConflictError(err error) bool {
	var t *ConflictError
	return errors.As(err, &t)
}

// IsPermissionError checks if error is a PermissionError
func IsPermissionError(err error) bool {
	var t *PermissionError
	return errors.As(err, &t)
}

// IsStorageError checks if error is a StorageError
func IsStorageError(err error) bool {
	var t *StorageError
	return errors.As(err, &t)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var t *InternalError
	return errors.As(err, &t)
}
