package errors

import (
	stderrors "errors"
	"net/http"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Validation errors
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInvalidReference = "INVALID_REFERENCE"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Business logic errors
	ErrCodeInvalidOperation = "INVALID_OPERATION"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Persistence boundary errors. Repositories wrap driver errors with these so
// callers can branch with errors.Is regardless of the SQL dialect underneath.
var (
	ErrNotFound         = stderrors.New("record not found")
	ErrConflict         = stderrors.New("record conflicts with an existing one")
	ErrInvalidReference = stderrors.New("referenced record does not exist")
	ErrInvalidInput     = stderrors.New("invalid input")
	ErrUnauthorized     = stderrors.New("invalid credentials")
	ErrHasDependents    = stderrors.New("record still has dependent rows")
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromError converts a service or repository error into the API error body
// and HTTP status code the web layer should answer with.
func FromError(err error) (*APIError, int) {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil, http.StatusOK
	case stderrors.As(err, &apiErr):
		return apiErr, statusForCode(apiErr.Code)
	case stderrors.Is(err, ErrNotFound):
		return NewAPIError(ErrCodeNotFound, "Resource not found"), http.StatusNotFound
	case stderrors.Is(err, ErrConflict):
		return NewAPIError(ErrCodeConflict, "Resource conflict"), http.StatusConflict
	case stderrors.Is(err, ErrInvalidReference):
		return NewAPIError(ErrCodeInvalidReference, "Referenced resource does not exist"), http.StatusUnprocessableEntity
	case stderrors.Is(err, ErrInvalidInput):
		return NewAPIError(ErrCodeInvalidInput, err.Error()), http.StatusBadRequest
	case stderrors.Is(err, ErrUnauthorized):
		return NewAPIError(ErrCodeInvalidCredentials, "Invalid credentials"), http.StatusUnauthorized
	case stderrors.Is(err, ErrHasDependents):
		return NewAPIError(ErrCodeInvalidOperation, err.Error()), http.StatusConflict
	default:
		return NewAPIError(ErrCodeInternalError, "Internal server error"), http.StatusInternalServerError
	}
}

func statusForCode(code string) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeInvalidReference:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeInvalidOperation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
