package common

import (
	"errors"
	"fmt"
)

// Error kind names, stable strings surfaced in batch reports and stored in
// the extraction job catalog.
const (
	KindEmptyInput         = "EMPTY_INPUT"
	KindServiceUnavailable = "SERVICE_UNAVAILABLE"
	KindMalformedResponse  = "MALFORMED_RESPONSE"
	KindSchemaViolation    = "SCHEMA_VIOLATION"
	KindPersistence        = "PERSISTENCE"
)

// EmptyInputError means the document text was empty or whitespace-only, so
// there is nothing meaningful to extract. Raised before any service call.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("empty input: no extractable text in %q", e.Source)
}

// ServiceUnavailableError means the completion service call itself failed
// (network, auth, rate limit, non-2xx). Not retried here; retry policy is
// the caller's responsibility.
type ServiceUnavailableError struct {
	Cause error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("completion service unavailable: %v", e.Cause)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Cause }

// MalformedResponseError means the completion text contained no parseable
// JSON object. Raw carries the offending response for diagnostics.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %v", e.Cause)
	}
	return "malformed model response: no JSON object found"
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// SchemaViolationError names the first missing or mistyped field path in a
// candidate record. Terminal for the document; never retried.
type SchemaViolationError struct {
	Path  string
	Cause error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation at %s: %v", e.Path, e.Cause)
}

func (e *SchemaViolationError) Unwrap() error { return e.Cause }

// PersistenceError means writing the validated recipe artifact failed.
// Fatal for the current document only, never for the batch.
type PersistenceError struct {
	Path  string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// ErrorKind maps an error to its stable kind name, or "" for nil and
// "UNKNOWN" for anything outside the pipeline's failure taxonomy.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		empty     *EmptyInputError
		service   *ServiceUnavailableError
		malformed *MalformedResponseError
		schema    *SchemaViolationError
		persist   *PersistenceError
	)
	switch {
	case errors.As(err, &empty):
		return KindEmptyInput
	case errors.As(err, &service):
		return KindServiceUnavailable
	case errors.As(err, &malformed):
		return KindMalformedResponse
	case errors.As(err, &schema):
		return KindSchemaViolation
	case errors.As(err, &persist):
		return KindPersistence
	default:
		return "UNKNOWN"
	}
}

// WrapError adds context while preserving the wrapped error for errors.As.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
