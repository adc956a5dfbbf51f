package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrUserIDRequired = NewValidationError("user_id", "user_id is required")
	ErrInvalidBody    = NewValidationError("", "invalid request body")
	ErrInternal       = NewInternalError("internal server error", nil)
)

// HTTPStatuser is implemented by errors that map onto an HTTP status code.
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// ProviderError is a non-success answer from the identity provider.
// Body holds the provider's JSON payload verbatim.
type ProviderError struct {
	StatusCode int
	Body       json.RawMessage
}

// NewProviderError creates a new provider error
func NewProviderError(statusCode int, body []byte) *ProviderError {
	return &ProviderError{
		StatusCode: statusCode,
		Body:       json.RawMessage(body),
	}
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider returned status %d: %s", e.StatusCode, string(e.Body))
}

// HTTPStatus relays the provider's status code
func (e *ProviderError) HTTPStatus() int {
	return e.StatusCode
}

// InvalidResponseError means the provider answered with a body that is not JSON.
type InvalidResponseError struct {
	StatusCode int
	Err        error
}

// NewInvalidResponseError creates a new invalid response error
func NewInvalidResponseError(statusCode int, err error) *InvalidResponseError {
	return &InvalidResponseError{
		StatusCode: statusCode,
		Err:        err,
	}
}

// Error implements the error interface
func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response from identity provider (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("invalid response from identity provider (status %d)", e.StatusCode)
}

// Unwrap returns the wrapped error
func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InvalidResponseError) HTTPStatus() int {
	return http.StatusBadGateway
}

// TransportError means the request to the provider never produced a response.
type TransportError struct {
	Err     error
	Timeout bool
}

// NewTransportError creates a new transport error
func NewTransportError(err error, timeout bool) *TransportError {
	return &TransportError{
		Err:     err,
		Timeout: timeout,
	}
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("identity provider timed out: %v", e.Err)
	}
	return fmt.Sprintf("identity provider unavailable: %v", e.Err)
}

// Unwrap returns the wrapped error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *TransportError) HTTPStatus() int {
	if e.Timeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}
