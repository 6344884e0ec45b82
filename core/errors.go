package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is().
// These map to the error taxonomy in the provider/router contract: a missing
// API key, a transport failure talking to a model backend, a response that
// didn't parse, and an operator-triggered emergency stop.
var (
	// ErrConfigMissing is returned by a provider factory when a real backend
	// was requested without the credentials it needs.
	ErrConfigMissing = errors.New("required provider configuration missing")

	// ErrProviderTransport covers network/transport failure or a non-2xx
	// response from a provider backend.
	ErrProviderTransport = errors.New("provider transport error")

	// ErrProviderParse covers a response body missing required fields.
	ErrProviderParse = errors.New("provider response parse error")

	// ErrEmergencyAbort is the sentinel wrapped by Jarvis's emergency
	// shutdown path. It is always fatal; there is no recovery path.
	ErrEmergencyAbort = errors.New("emergency shutdown triggered")

	// Generic operation errors retained from the ambient stack.
	ErrTimeout            = errors.New("operation timeout")
	ErrContextCanceled    = errors.New("context canceled")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
	ErrConnectionFailed   = errors.New("connection failed")
	ErrRequestFailed      = errors.New("request failed")
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// FrameworkError provides structured error information with context.
// It implements the error interface and supports error wrapping via Unwrap.
type FrameworkError struct {
	Op      string // Operation that failed (e.g., "provider.openai.GenerateResponse")
	Kind    string // Error kind (e.g., "config", "transport", "parse")
	ID      string // Optional ID of the entity involved (e.g. role name)
	Message string // Human-readable message
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *FrameworkError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *FrameworkError) Unwrap() error {
	return e.Err
}

// NewFrameworkError creates a new FrameworkError
func NewFrameworkError(op, kind string, err error) *FrameworkError {
	return &FrameworkError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsRetryable checks if an error is retryable — transient network or
// availability issues. ConfigMissing and parse errors are never retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnectionFailed) ||
		errors.Is(err, ErrProviderTransport)
}

// IsConfigMissing reports whether err is, or wraps, ErrConfigMissing.
func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

// IsEmergencyAbort reports whether err is, or wraps, ErrEmergencyAbort.
func IsEmergencyAbort(err error) bool {
	return errors.Is(err, ErrEmergencyAbort)
}
