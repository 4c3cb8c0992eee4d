package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a request is missing fields or carries malformed values.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned when a login does not match a stored record.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when the session does not carry the required role.
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrNotFound is returned when no record matches the filter.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HTTPError carries the status code and client-facing message of a failure.
type HTTPError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil && e.StatusCode >= http.StatusInternalServerError {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string, cause error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// Validation builds a 400 for missing or malformed input.
func Validation(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, ErrValidation)
}

// Conflict builds a 400 for a duplicate username or email.
func Conflict(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, ErrConflict)
}

// NotFound builds a 404.
func NotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, ErrNotFound)
}

// InvalidCredentials builds the generic 401 returned by every login endpoint.
func InvalidCredentials() *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, "Invalid credentials", ErrInvalidCredentials)
}

// Unauthorized builds the 403 returned by the role guards.
func Unauthorized() *HTTPError {
	return NewHTTPError(http.StatusForbidden, "Unauthorized access", ErrUnauthorized)
}

// ToErrorResponse converts an HTTPError to ErrorResponse. Server errors expose
// the underlying cause text.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	resp := ErrorResponse{Message: e.Message}
	if e.StatusCode >= http.StatusInternalServerError && e.Cause != nil {
		resp.Error = e.Cause.Error()
	}
	return resp
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentials()
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized()
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "An error occurred", err)
	}
}
