// Package errors defines the structured error taxonomy for tokenvault.
package errors

import "fmt"

// ErrorCode identifies a tokenvault error class.
type ErrorCode string

const (
	ErrStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrMigrationFailed    ErrorCode = "MIGRATION_FAILED"
	ErrInvalidVersion     ErrorCode = "INVALID_VERSION"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrSaveFailed         ErrorCode = "SAVE_FAILED"
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
)

// VaultError is a structured error with a code and optional detail fields.
type VaultError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *VaultError) Unwrap() error {
	return e.cause
}

// NewStorageUnavailable wraps a failure to open or reach the local store.
func NewStorageUnavailable(err error) *VaultError {
	msg := "local storage is unavailable"
	if err != nil {
		msg = fmt.Sprintf("local storage is unavailable: %v", err)
	}
	return &VaultError{Code: ErrStorageUnavailable, Message: msg, cause: err}
}

// NewMigrationFailed wraps a schema upgrade step failure. The store must
// not be used after this error.
func NewMigrationFailed(version int, err error) *VaultError {
	return &VaultError{
		Code:    ErrMigrationFailed,
		Message: fmt.Sprintf("schema migration to v%d failed: %v", version, err),
		Details: map[string]any{"version": version},
		cause:   err,
	}
}

// NewInvalidVersion reports a malformed semantic version string.
func NewInvalidVersion(input string) *VaultError {
	return &VaultError{
		Code:    ErrInvalidVersion,
		Message: fmt.Sprintf("invalid version format %q (expected major.minor or major.minor.patch)", input),
		Details: map[string]any{"input": input},
	}
}

// NewNotFound reports a missing record.
func NewNotFound(kind, id string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewSaveFailed wraps a failed snapshot or project save attempt.
func NewSaveFailed(err error) *VaultError {
	return &VaultError{
		Code:    ErrSaveFailed,
		Message: fmt.Sprintf("save failed: %v", err),
		cause:   err,
	}
}

// NewInvalidRequest reports invalid caller-supplied parameters.
func NewInvalidRequest(msg string) *VaultError {
	return &VaultError{Code: ErrInvalidRequest, Message: msg}
}

// Is reports whether err is a VaultError with the given code, unwrapping
// as needed.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if ve, ok := err.(*VaultError); ok && ve.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
