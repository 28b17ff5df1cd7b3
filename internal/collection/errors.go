package collection

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every collection. Check with errors.Is.
var (
	// ErrNotFound is returned when no object has the requested id.
	ErrNotFound = errors.New("collection: object not found")

	// ErrInvalid is the base of every validation failure.
	ErrInvalid = errors.New("collection: invalid input")

	// ErrReadOnly is returned by providers whose objects are managed
	// elsewhere (reference vocabularies, plugin-created values).
	ErrReadOnly = errors.New("collection: read-only")
)

// ValidationError reports a rejected form field. It unwraps to
// ErrInvalid so callers can branch without inspecting the field name.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Invalid builds a ValidationError for a field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
