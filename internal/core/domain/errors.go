// Package domain holds the interview session model and its error taxonomy.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or invalid request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeAuthentication indicates an authentication failure.
	ErrorTypeAuthentication ErrorType = "authentication"

	// ErrorTypeNotFound indicates a resource was not found.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeConflict indicates the resource is in a state that forbids the operation.
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeRateLimit indicates the caller exceeded its request budget.
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeUnavailable indicates a required collaborator could not serve the request.
	ErrorTypeUnavailable ErrorType = "unavailable"

	// ErrorTypeServer indicates an internal server error.
	ErrorTypeServer ErrorType = "server"
)

// ErrorCode provides additional specificity beyond the error type.
type ErrorCode string

const (
	ErrorCodeNoQuestionsAvailable   ErrorCode = "no_questions_available"
	ErrorCodeSessionNotFound        ErrorCode = "session_not_found"
	ErrorCodeSessionAlreadyComplete ErrorCode = "session_already_complete"
	ErrorCodeInvalidDifficulty      ErrorCode = "invalid_difficulty"
	ErrorCodeInvalidTopic           ErrorCode = "invalid_topic"
	ErrorCodeSessionNotComplete     ErrorCode = "session_not_complete"
	ErrorCodeReportNotPersisted     ErrorCode = "report_not_persisted"
)

// APIError is the canonical error surfaced by the engine and rendered by the HTTP layer.
type APIError struct {
	// Type is the category of error
	Type ErrorType `json:"type"`

	// Code is an optional specific error code
	Code ErrorCode `json:"code,omitempty"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// StatusCode is the suggested HTTP status code
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Is reports whether target is an APIError with the same type and code.
// This lets wrapped or re-created errors match the package sentinels.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// HTTPStatusCode returns the appropriate HTTP status code for this error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewAPIError creates a new API error.
func NewAPIError(errType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
	}
}

// WithCode adds an error code to the error.
func (e *APIError) WithCode(code ErrorCode) *APIError {
	e.Code = code
	return e
}

// WithStatusCode sets a specific HTTP status code.
func (e *APIError) WithStatusCode(code int) *APIError {
	e.StatusCode = code
	return e
}

// State machine and catalog errors surfaced to callers.
var (
	ErrNoQuestionsAvailable   = NewAPIError(ErrorTypeUnavailable, "no questions available for the requested topic").WithCode(ErrorCodeNoQuestionsAvailable)
	ErrSessionNotFound        = NewAPIError(ErrorTypeNotFound, "session not found").WithCode(ErrorCodeSessionNotFound)
	ErrSessionAlreadyComplete = NewAPIError(ErrorTypeConflict, "session already complete").WithCode(ErrorCodeSessionAlreadyComplete)
	ErrSessionNotComplete     = NewAPIError(ErrorTypeConflict, "session has no final report yet").WithCode(ErrorCodeSessionNotComplete)
)

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(ErrorTypeInvalidRequest, message)
}

// ErrServer creates a server error.
func ErrServer(message string) *APIError {
	return NewAPIError(ErrorTypeServer, message)
}

// AsAPIError extracts an APIError from err, falling back to a generic server error.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrServer(err.Error())
}
