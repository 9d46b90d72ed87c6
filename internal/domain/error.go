package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a record violates a catalog invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product: field=%s, reason=%s", e.Field, e.Reason)
}

// Is allows kind checks with errors.Is regardless of field/reason.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
