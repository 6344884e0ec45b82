// Package providers holds the concrete Provider backends: one file per
// wire format, sharing a BaseClient for HTTP transport, retry, and logging.
package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/o-sovereign/acsa-orchestrator/core"
	"github.com/o-sovereign/acsa-orchestrator/resilience"
	"github.com/o-sovereign/acsa-orchestrator/telemetry"
)

// BaseClient provides the transport, retry, and logging plumbing shared by
// every concrete provider. Each backend embeds a *BaseClient and adds its
// own request/response shape and system prompt.
type BaseClient struct {
	// Name identifies the provider for circuit breaker naming and metrics
	// labeling, e.g. "provider/openai".
	Name       string
	HTTPClient *http.Client
	Logger     core.Logger

	MaxRetries int
	RetryDelay time.Duration

	DefaultModel       string
	DefaultTemperature float64
	DefaultMaxTokens   uint32

	// breaker guards the outbound transport. nil means no circuit breaker
	// protection, which happens only when NewBaseClient failed to create one.
	breaker *resilience.CircuitBreaker
}

// NewBaseClient constructs a BaseClient with an HTTP client, a logger, and a
// resilience circuit breaker wrapping the transport (the breaker reports
// metrics through telemetry once the global registry is initialized). If the
// breaker cannot be created, a warning is logged and the client runs without
// one.
func NewBaseClient(name string, timeout time.Duration, logger core.Logger) *BaseClient {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}

	cb, err := resilience.CreateCircuitBreaker(name, resilience.ResilienceDependencies{Logger: logger})
	if err != nil {
		logger.Warn("provider: circuit breaker creation failed, proceeding unprotected", map[string]interface{}{
			"provider": name,
			"error":    err.Error(),
		})
		cb = nil
	}

	return &BaseClient{
		Name: name,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithSpanNameFormatter(spanNameForRequest)),
		},
		Logger: logger,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
		DefaultTemperature: 0.7,
		DefaultMaxTokens:   1000,
		breaker:            cb,
	}
}

// ExecuteWithRetry performs req with exponential backoff (via
// cenkalti/backoff/v5), routed through the circuit breaker when one is
// configured. Returns the response body already read and the request
// closed — callers never touch resp.Body directly.
func (b *BaseClient) ExecuteWithRetry(ctx context.Context, req *http.Request, bodyBytes []byte) ([]byte, int, error) {
	start := time.Now()
	body, status, err := b.executeWithRetry(ctx, req, bodyBytes)

	outcome := "success"
	if err != nil {
		outcome = "error"
		telemetry.RecordSpanError(ctx, err)
	}
	telemetry.RecordAIRequest(telemetry.ModuleAI, b.Name, float64(time.Since(start).Milliseconds()), outcome)

	return body, status, err
}

func (b *BaseClient) executeWithRetry(ctx context.Context, req *http.Request, bodyBytes []byte) ([]byte, int, error) {
	op := func() (httpResult, error) {
		clone := req.Clone(ctx)
		if bodyBytes != nil {
			clone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		var resp *http.Response
		var doErr error

		run := func() error {
			resp, doErr = b.HTTPClient.Do(clone)
			return doErr
		}

		if b.breaker != nil {
			cbErr := b.breaker.Execute(ctx, run)
			if cbErr != nil && doErr == nil {
				doErr = cbErr
			}
		} else {
			_ = run()
		}

		if doErr != nil {
			return httpResult{}, doErr
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return httpResult{}, readErr
		}

		result := httpResult{status: resp.StatusCode, body: data}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return result, fmt.Errorf("%w: status %d", core.ErrProviderTransport, resp.StatusCode)
		}

		return result, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = b.RetryDelay

	result, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(b.MaxRetries+1)),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("provider request failed after retries: %w", err)
	}

	return result.body, result.status, nil
}

type httpResult struct {
	status int
	body   []byte
}

// spanNameForRequest names the otelhttp span after the provider host rather
// than otelhttp's default "HTTP POST", so a trace shows which backend was
// called at a glance.
func spanNameForRequest(operation string, r *http.Request) string {
	if r.URL != nil && r.URL.Host != "" {
		return r.Method + " " + r.URL.Host
	}
	return operation
}

// ApplyDefaults fills zero-valued sampling parameters with the client's
// documented defaults.
func (b *BaseClient) ApplyDefaults(maxTokens uint32, temperature float64) (uint32, float64) {
	if maxTokens == 0 {
		maxTokens = b.DefaultMaxTokens
	}
	if temperature == 0 {
		temperature = b.DefaultTemperature
	}
	return maxTokens, temperature
}

// HandleError maps an HTTP status and body into a provider-prefixed error.
func (b *BaseClient) HandleError(provider string, statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: invalid or missing API key: %w", provider, core.ErrConfigMissing)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: rate limit exceeded: %w", provider, core.ErrProviderTransport)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: invalid request - %s: %w", provider, string(body), core.ErrProviderTransport)
	default:
		return fmt.Errorf("%s: request failed (status %d): %s: %w", provider, statusCode, string(body), core.ErrProviderTransport)
	}
}

// LogRequest logs an outgoing request at debug level.
func (b *BaseClient) LogRequest(provider, model string, promptLen int) {
	b.Logger.Debug("provider request", map[string]interface{}{
		"provider":      provider,
		"model":         model,
		"prompt_length": promptLen,
	})
}

// LogResponse logs a completed response at debug level.
func (b *BaseClient) LogResponse(provider, model string, tokens uint32, latency time.Duration) {
	b.Logger.Debug("provider response", map[string]interface{}{
		"provider": provider,
		"model":    model,
		"tokens":   tokens,
		"latency":  latency,
	})
}
