package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// Application errors
	ErrorTypeInternal  ErrorType = "INTERNAL"
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT"

	// Infrastructure errors
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError is the application-wide error carrier. It keeps the
// classification, a human-readable message and the wrapped cause.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches structured details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewNotFoundError creates a not-found error for the named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: resource + " not found", HTTPStatus: http.StatusNotFound}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Type: ErrorTypeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// NewRateLimitError creates a rate-limit error.
func NewRateLimitError(message string) *AppError {
	return &AppError{Type: ErrorTypeRateLimit, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// NewDatabaseError wraps a failed storage operation.
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    fmt.Sprintf("storage operation %q failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewExternalError wraps a failed external-service call.
func NewExternalError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    fmt.Sprintf("external service %q error", service),
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
	}
}

// GetAppError extracts an AppError from an error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks whether err carries the given error type.
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsType(err, ErrorTypeNotFound) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsType(err, ErrorTypeValidation) }

// IsRateLimit reports whether err is a rate-limit error.
func IsRateLimit(err error) bool { return IsType(err, ErrorTypeRateLimit) }

// Wrap adds context to an error, preserving an existing AppError's
// classification.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = message + ": " + appErr.Message
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
