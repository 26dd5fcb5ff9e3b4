package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an application error. The string value is surfaced to
// clients as the error_type response field.
type Type string

const (
	TypeValidation Type = "ValidationError"
	TypeNotFound   Type = "NotFoundError"
	TypeProvider   Type = "ProviderError"
	TypeGeneration Type = "GenerationError"
	TypeInternal   Type = "InternalError"
)

// AppError is an error with a client-visible classification.
type AppError struct {
	Type    Type
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a ValidationError (missing or malformed request field).
func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Type: TypeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFoundError (unknown lookup key).
func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Provider wraps a failure from an external HTTP or service call.
func Provider(err error, format string, args ...interface{}) *AppError {
	return &AppError{Type: TypeProvider, Message: fmt.Sprintf(format, args...), Err: err}
}

// Generation wraps a failure from the image generation provider.
func Generation(err error, format string, args ...interface{}) *AppError {
	return &AppError{Type: TypeGeneration, Message: fmt.Sprintf(format, args...), Err: err}
}

// TypeOf extracts the classification of err. Unclassified errors are
// reported as InternalError.
func TypeOf(err error) Type {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// MessageOf extracts the client-visible message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// HTTPStatus maps an error classification to an HTTP status code.
func HTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
