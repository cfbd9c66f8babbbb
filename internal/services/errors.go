package services

import (
	"errors"
	"fmt"
)

// The lifecycle error taxonomy. All are locally recoverable; callers decide
// whether to retry or surface them. Handlers map them onto HTTP statuses.
var (
	// ErrNotFound means the referenced listing/donor/rescuer does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means a transition was attempted from the wrong status.
	ErrInvalidState = errors.New("invalid state")
	// ErrForbidden means the acting rescuer does not hold the claim.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidToken means the presented proof token does not match.
	ErrInvalidToken = errors.New("invalid proof token")
)

// ValidationError rejects bad input before any state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
