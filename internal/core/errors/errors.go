// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Credential errors.
var (
	// ErrMissingCredential indicates no API credential is configured for a user.
	// This is an expected condition, recoverable by configuring the credential.
	ErrMissingCredential = errors.New("no API credential configured")
)

// External provider errors.
var (
	// ErrProvider indicates a transport, timeout, quota, or auth failure from an
	// external LLM or embedding call.
	ErrProvider = errors.New("provider request failed")

	// ErrEmptyResponse indicates an empty response was received from a provider.
	ErrEmptyResponse = errors.New("empty response")

	// ErrCircuitOpen indicates the circuit breaker has tripped and requests are blocked.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// Validation errors.
var (
	// ErrValidation indicates generated output failed validation (title too
	// short after normalization, empty content).
	ErrValidation = errors.New("validation failed")

	// ErrDimensionMismatch indicates two embedding vectors of differing length
	// were compared. This is an internal invariant violation.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Generation errors.
var (
	// ErrTopicExhausted indicates the topic suggestion loop ran out of attempts
	// without finding a unique topic.
	ErrTopicExhausted = errors.New("topic suggestion attempts exhausted")

	// ErrDuplicateTitle indicates a generated title collides with an existing post.
	ErrDuplicateTitle = errors.New("title already exists")
)

// Entity errors.
var (
	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
