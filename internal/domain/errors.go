package domain

import (
	"errors"
	"fmt"
)

// Base error kinds. Concrete errors wrap one of these so callers can match
// with errors.Is regardless of the resource involved.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateAssignment = errors.New("athlete is already assigned to this workout")
	ErrForbidden           = errors.New("access denied")
)

var (
	ErrWorkoutNotFound  = fmt.Errorf("workout %w", ErrNotFound)
	ErrDayNotFound      = fmt.Errorf("day %w", ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("exercise %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrMetricNotFound   = fmt.Errorf("metric record %w", ErrNotFound)
)

// ValidationError describes one invalid or missing input field.
// Several of them are usually combined with multierr.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is a shorthand used by the service layer.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
