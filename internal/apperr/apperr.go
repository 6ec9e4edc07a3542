// Package apperr defines the error kinds shared by every layer of the
// document store. Lower layers wrap one of the sentinels with context using
// fmt.Errorf("...: %w", ...); callers classify with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat means the stored bytes are not a recognizable spreadsheet
	// document, or a table inside it is unusable.
	ErrFormat = errors.New("invalid document format")

	// ErrIO means the transport failed: network error or unexpected status.
	ErrIO = errors.New("document transport failure")

	// ErrNotFound means a referenced entity (or the document itself) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the caller supplied data that violates a precondition.
	ErrValidation = errors.New("validation failed")
)

// Format wraps ErrFormat with a formatted message.
func Format(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrFormat)
}

// IO wraps ErrIO with a formatted message and the underlying cause, if any.
func IO(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, ErrIO)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrIO, cause)
}

// NotFound wraps ErrNotFound with the kind and id of the missing entity.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	f := e.Fields[0]
	if len(e.Fields) == 1 {
		return fmt.Sprintf("%s: %s: %s", ErrValidation, f.Field, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s (and %d more)", ErrValidation, f.Field, f.Message, len(e.Fields)-1)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a single-field ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
