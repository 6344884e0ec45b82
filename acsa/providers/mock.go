package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
)

const (
	mockLatency          = 500 * time.Millisecond
	mockCostPerToken     = 0.00001
	mockTruncateInputLen = 120
)

// MockClient is an offline stand-in provider: no network call, a fixed
// simulated latency, and an echoed, truncated version of the prompt.
// Used whenever a backend is unconfigured for a role that tolerates it,
// or explicitly requested via ProviderConfig.UseMock.
type MockClient struct {
	role  acsa.AgentRole
	stats acsa.StatsCounter
}

func NewMockClient(role acsa.AgentRole) *MockClient {
	return &MockClient{role: role}
}

func (c *MockClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	start := time.Now()

	select {
	case <-ctx.Done():
		c.stats.RecordFailure(uint64(time.Since(start).Milliseconds()))
		return acsa.AgentResponse{}, ctx.Err()
	case <-time.After(mockLatency):
	}

	truncated := prompt
	if len(truncated) > mockTruncateInputLen {
		truncated = truncated[:mockTruncateInputLen] + "..."
	}

	text := fmt.Sprintf("[MOCK:%s] %s", c.role.String(), truncated)
	tokens := uint32(len(strings.Fields(prompt)))
	cost := float64(tokens) * mockCostPerToken
	latencyMS := uint64(time.Since(start).Milliseconds())

	c.stats.RecordSuccess(tokens, cost, latencyMS)

	return acsa.AgentResponse{
		Role:      c.role,
		Text:      text,
		Tokens:    tokens,
		Cost:      cost,
		LatencyMS: latencyMS,
		Metadata:  map[string]string{"provider": "mock"},
		Timestamp: time.Now(),
	}, nil
}

func (c *MockClient) Role() acsa.AgentRole   { return c.role }
func (c *MockClient) Stats() acsa.AgentStats { return c.stats.Snapshot() }
func (c *MockClient) ResetStats()            { c.stats.Reset() }

type MockFactory struct{}

func (MockFactory) Name() string { return "mock" }

// DetectEnvironment never volunteers the mock backend from environment
// probing; it is only chosen via explicit UseMock or an empty non-Planner
// backend in acsa.CreateProvider.
func (MockFactory) DetectEnvironment() bool { return false }

func (MockFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	return NewMockClient(role), nil
}

func init() {
	acsa.MustRegister(MockFactory{})
}
