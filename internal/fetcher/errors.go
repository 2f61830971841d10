package fetcher

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeSourceUnavailable indicates the external system did not respond
	// or answered with an error status
	ErrorTypeSourceUnavailable ErrorType = "source_unavailable"
	// ErrorTypeParse indicates the response body is not well-formed for its encoding
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeSchema indicates the response is well-formed but an expected
	// field is missing or has the wrong type
	ErrorTypeSchema ErrorType = "schema"
)

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Type ErrorType
	// StatusCode is the HTTP status or OS error number reported by the
	// source, zero when the source gave none.
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewSourceUnavailableError creates an error for a source that could not be reached
func NewSourceUnavailableError(message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeSourceUnavailable,
		Message: message,
		Cause:   cause,
	}
}

// NewStatusError creates a source unavailable error carrying the status code
// reported by the source
func NewStatusError(statusCode int, message string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeSourceUnavailable,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewParseError creates a parse error
func NewParseError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeParse,
		Message: "malformed response body",
		Cause:   cause,
	}
}

// NewSchemaError creates a schema error
func NewSchemaError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeSchema,
		Message: message,
	}
}

// ClassifyHTTPError turns a non-success HTTP status code into a source
// unavailable error with a readable message
func ClassifyHTTPError(statusCode int) *FetchError {
	switch {
	case statusCode == 429:
		return NewStatusError(statusCode, "rate limit exceeded")
	case statusCode >= 500:
		return NewStatusError(statusCode, "server returned an error")
	case statusCode >= 400:
		return NewStatusError(statusCode, fmt.Sprintf("client error: HTTP %d", statusCode))
	default:
		return NewStatusError(statusCode, fmt.Sprintf("unexpected status code: %d", statusCode))
	}
}

// IsType reports whether any error in err's chain is a FetchError of type t
func IsType(err error, t ErrorType) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Type == t
}
