// Package xerrors provides the small typed fatal-error taxonomy spec.md
// §7 demands: callers need to switch on a stable "kind" rather than on
// Go type names, since several fatal conditions (UnknownScheme,
// LoadFailure, NoEntryPoints, ...) share the same shape — a category and
// a message — and only differ in which diagnostic.Category they carry.
package xerrors

import (
	"fmt"

	"github.com/denoland/dnt-sub000/internal/diagnostic"
)

// TransformError is a fatal pipeline error tagged with its taxonomy
// Kind, so callers can `errors.As` to it and switch on Kind instead of
// on a concrete Go error type.
type TransformError struct {
	Kind    diagnostic.Category
	Message string
	Err     error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *TransformError) Unwrap() error { return e.Err }

// New builds a TransformError with no wrapped cause.
func New(kind diagnostic.Category, message string) *TransformError {
	return &TransformError{Kind: kind, Message: message}
}

// Wrap builds a TransformError around an existing error.
func Wrap(kind diagnostic.Category, message string, err error) *TransformError {
	return &TransformError{Kind: kind, Message: message, Err: err}
}
