package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced id or slug does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when a protected route is called without a session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the session's role may not use a route.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrInvalidResetToken is returned for unknown, used or expired reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrIncorrectPassword is returned when a password change supplies the wrong current password.
	ErrIncorrectPassword = errors.New("current password is incorrect")
	// ErrBootstrapClosed is returned when admin bootstrap is disabled and no admin exists.
	ErrBootstrapClosed = errors.New("admin bootstrap is disabled")
	// ErrSelfModification is returned when an admin tries to demote, deactivate or delete themselves.
	ErrSelfModification = errors.New("cannot demote, deactivate or delete your own account")
)

// FieldError describes one failing field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of a request body.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Conflict returns an error wrapping ErrConflict that names the duplicated key.
func Conflict(what string) error {
	return fmt.Errorf("%s %w", what, ErrConflict)
}

// NotFound returns an error wrapping ErrNotFound that names the missing entity.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// IsInternal reports whether the error maps to a 500.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised is treated as a
// persistence failure and gets a generic message.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Details = verr.Fields
		return httpErr
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrBootstrapClosed):
		return NewHTTPError(http.StatusForbidden, ErrBootstrapClosed.Error(), "BOOTSTRAP_CLOSED")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidResetToken.Error(), "INVALID_RESET_TOKEN")
	case errors.Is(err, ErrIncorrectPassword):
		return NewHTTPError(http.StatusBadRequest, ErrIncorrectPassword.Error(), "INCORRECT_PASSWORD")
	case errors.Is(err, ErrSelfModification):
		return NewHTTPError(http.StatusBadRequest, ErrSelfModification.Error(), "SELF_MODIFICATION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
