package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrStoreRead  = errors.New("store read failed")
	ErrStoreWrite = errors.New("store write failed")
	ErrIdentity   = errors.New("identity operation failed")
)

type AppError struct {
	Err     error  // sentinel (and optionally the underlying cause chained behind it)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no record exists at the given id. Callers treat this
// as a valid outcome, not a fault: it must never be conflated with a store
// read failure.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// StoreReadFailed wraps a backing-store read fault. Distinct from NotFound:
// the store reported an error rather than an absent record.
func StoreReadFailed(path string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStoreRead, cause),
		Message: fmt.Sprintf("reading %s from store failed", path),
	}
}

// StoreWriteFailed wraps a backing-store write fault, including a write whose
// confirming re-read came back absent.
func StoreWriteFailed(path string, cause error) *AppError {
	err := ErrStoreWrite
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrStoreWrite, cause)
	}
	return &AppError{
		Err:     err,
		Message: fmt.Sprintf("writing %s to store failed", path),
	}
}

// IdentityFailed wraps a fault reported by the external identity provider,
// carrying the provider's reason.
func IdentityFailed(op string, cause error) *AppError {
	err := ErrIdentity
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrIdentity, cause)
	}
	return &AppError{
		Err:     err,
		Message: fmt.Sprintf("identity provider: %s failed: %v", op, cause),
	}
}
