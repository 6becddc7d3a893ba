package guard

import "fmt"

// ValidationError indicates a guarded write was rejected by a field rule.
// The underlying record is left unchanged.
type ValidationError struct {
	// Field is the field the write targeted.
	Field string

	// Reason describes the rule violation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Reason)
}

// newValidationError creates a ValidationError with a formatted reason.
func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
