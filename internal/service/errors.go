package service

import (
	"errors"
	"strings"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"

	"go.uber.org/multierr"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrMediaUnavailable     = errors.New("media storage is not configured")
	ErrNoVideo              = errors.New("exercise has no video")
)

// workoutErr translates repository errors on workout lookups.
func workoutErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrWorkoutNotFound
	}
	return err
}

// userErr translates repository errors on user lookups.
func userErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domain.ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrUserAlreadyExists
	}
	return err
}

// validator collects field errors so that every problem of an input is
// reported in one response.
type validator struct {
	err error
}

func (v *validator) add(field, message string) {
	v.err = multierr.Append(v.err, domain.NewValidationError(field, message))
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) merge(err error) {
	v.err = multierr.Append(v.err, err)
}

func (v *validator) Err() error {
	return v.err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
