// Package core provides fundamental abstractions and interfaces for the ACSA
// module. This file defines the generic CircuitBreaker interface used for
// transport-level fault tolerance — wrapping a provider's outbound HTTP calls
// so a flaky backend degrades gracefully instead of cascading failures into
// every router phase that depends on it.
//
// This is deliberately distinct from the Jarvis circuit breaker (acsa/jarvis):
// Jarvis is a deterministic, synchronous safety veto over plan text; the
// CircuitBreaker here is a statistical, stateful guard over network calls.
// Both are called "circuit breakers" because both trip and block, but they
// guard different failure classes and neither wraps the other.
package core

import (
	"context"
	"time"
)

// CircuitBreaker provides circuit breaker functionality for fault tolerance.
// Implementations should protect against cascading failures by temporarily
// blocking requests when a threshold of failures is reached.
type CircuitBreaker interface {
	// Execute runs the provided function with circuit breaker protection.
	// If the circuit is open, it returns an error immediately without
	// calling fn.
	Execute(ctx context.Context, fn func() error) error

	// ExecuteWithTimeout runs the function with both circuit breaker
	// protection and a timeout.
	ExecuteWithTimeout(ctx context.Context, timeout time.Duration, fn func() error) error

	// GetState returns the current circuit breaker state as a string.
	// Possible values: "closed", "open", "half-open"
	GetState() string

	// GetMetrics returns current metrics about the circuit breaker.
	GetMetrics() map[string]interface{}

	// Reset manually resets the circuit breaker to closed state.
	Reset()

	// CanExecute returns true if the circuit breaker would allow execution.
	CanExecute() bool
}

// CircuitBreakerParams provides construction parameters shared by
// implementations — a name for logging/metrics plus the ambient Logger and
// Telemetry the implementation should report through.
type CircuitBreakerParams struct {
	Name      string
	Logger    Logger
	Telemetry Telemetry
}
