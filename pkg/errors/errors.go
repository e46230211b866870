// Package errors defines the typed errors shared across the extraction
// pipeline. Only auth errors are fatal for a run; every other type is
// converted to a soft empty-result at the component that observed it.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies API and transport failures
type ErrorType string

const (
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Reddit API error with type information. Body holds
// a truncated copy of the response body for diagnostics.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Body    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("reddit %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error without an HTTP status
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// NewWithCode creates a typed error carrying the HTTP status and body
func NewWithCode(errorType ErrorType, message string, code int, body string) *Error {
	return &Error{Type: errorType, Message: message, Code: code, Body: body}
}

// FromStatusCode maps an HTTP status code to a typed error
func FromStatusCode(code int, body string) *Error {
	var t ErrorType
	switch {
	case code == 401 || code == 403:
		t = ErrorTypeAuth
	case code == 404:
		t = ErrorTypeNotFound
	case code == 429:
		t = ErrorTypeRateLimit
	case code >= 500:
		t = ErrorTypeServerError
	default:
		t = ErrorTypeUnknown
	}
	return &Error{
		Type:    t,
		Message: fmt.Sprintf("unexpected status code %d", code),
		Code:    code,
		Body:    body,
	}
}

// IsAuth reports whether err is a fatal auth error
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeAuth
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
