package model

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced entity does not exist. It propagates
// to the caller unchanged; the engine never retries or falls back on it.
type NotFoundError struct {
	Kind string // "pipeline", "stage", "plan", "plan role"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NewNotFound builds a NotFoundError for the given entity kind and id.
func NewNotFound(kind string, id any) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError indicates a stage or pipeline configuration value outside
// its allowed range. Raised synchronously at the write boundary and never
// auto-corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for the given field.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
