package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure taxonomy. None of these is fatal
// to the process; every one is scoped to a single request or record.
var (
	// ErrInvalidQuery marks empty or malformed query text. User-correctable.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidPageSize marks a non-positive page size. Caller contract violation.
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrEmbeddingUnavailable marks a failed embedding provider call.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrTranslationUnavailable marks a failed translation delegate call.
	ErrTranslationUnavailable = errors.New("translation unavailable")
	// ErrSearchUnavailable marks a search aborted by a collaborator failure.
	// Retryable by the caller.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrIndexInconsistent marks a detected version-publication race or
	// corruption. Triggers a full rebuild from the knowledge store.
	ErrIndexInconsistent = errors.New("index inconsistent")
	// ErrNotFound marks a missing record in the knowledge store.
	ErrNotFound = errors.New("not found")

	ErrInvalidRecord  = errors.New("invalid record")
	ErrYearOutOfRange = errors.New("year out of range")
	ErrQueryInjection = errors.New("query contains suspicious content")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
