package api

import (
	"errors"
	"net/http"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
)

// FieldError is one entry of the "details" list of a validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondError maps service and domain errors to a status code and aborts.
// Unexpected errors are attached to the context for the request logger and
// answered with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		details := []FieldError{}
		for _, e := range multierr.Errors(err) {
			var vErr *domain.ValidationError
			if errors.As(e, &vErr) {
				details = append(details, FieldError{Field: vErr.Field, Message: vErr.Message})
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, service.ErrNoVideo):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateAssignment), errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMediaUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// bindError answers a request whose body or query could not be decoded.
func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
}
