// Package errors defines the application error envelope and its HTTP
// mapping. Handlers return *AppError values; the responder turns anything
// else into an opaque internal error so storage details never leak.
package errors

import (
	"net/http"
)

// Error codes used across the service.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeThrottled        = "THROTTLED"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is a code-keyed application error.
type AppError struct {
	Code    string
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetail returns a copy of the error carrying an extra detail entry.
func (e *AppError) WithDetail(key string, value any) *AppError {
	dup := *e
	dup.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		dup.Details[k] = v
	}
	dup.Details[key] = value
	return &dup
}

// New creates an AppError with the given code and message.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError wrapping a cause.
func Wrap(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, cause: cause}
}

// User errors.

func NewInvalidInput(message string) *AppError { return New(CodeInvalidInput, message) }

func NewValidationFailed(message string) *AppError { return New(CodeValidationFailed, message) }

func NewNotFound(message string) *AppError { return New(CodeNotFound, message) }

func NewUnauthorized(message string) *AppError { return New(CodeUnauthorized, message) }

func NewMethodNotAllowed(message string) *AppError { return New(CodeMethodNotAllowed, message) }

// NewThrottled builds the "try again after N seconds" error for a
// rate-limited action.
func NewThrottled(retryAfterSeconds int) *AppError {
	return New(CodeThrottled, "Too many requests, slow down").
		WithDetail("retry_after", retryAfterSeconds)
}

// Server errors.

func NewInternal(message string) *AppError { return New(CodeInternal, message) }

func WrapDatabase(cause error) *AppError {
	return Wrap(CodeDatabaseError, "storage operation failed", cause)
}

// HTTPStatus resolves the HTTP status for an error code.
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidInput, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
