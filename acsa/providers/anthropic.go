package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/core"
)

// AnthropicClient targets the Anthropic messages wire format:
// POST /v1/messages, headers x-api-key / anthropic-version: 2023-06-01,
// body {model, max_tokens, messages, system, temperature}, reading
// content[0].text and usage.input_tokens + usage.output_tokens.
type AnthropicClient struct {
	*BaseClient
	role    acsa.AgentRole
	apiKey  string
	model   string
	baseURL string
	stats   acsa.StatsCounter
}

// anthropicCostPerMillionTokens is a documented blended rate (input+output
// averaged) for Claude-family models, used since the two-sided usage
// breakdown does not map cleanly onto AgentResponse's single cost field.
const anthropicCostPerMillionTokens = 9.0

func NewAnthropicClient(role acsa.AgentRole, apiKey, model string, logger core.Logger) *AnthropicClient {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return &AnthropicClient{
		BaseClient: NewBaseClient("provider/anthropic", 60*time.Second, logger),
		role:       role,
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.anthropic.com/v1",
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   uint32             `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  uint32 `json:"input_tokens"`
		OutputTokens uint32 `json:"output_tokens"`
	} `json:"usage"`
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	maxTokens, temperature = c.ApplyDefaults(maxTokens, temperature)
	start := time.Now()

	body, _ := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		System:      systemPromptForRole(c.role),
		Temperature: temperature,
	})

	req, err := newJSONRequest(ctx, "POST", c.baseURL+"/messages", body)
	if err != nil {
		c.stats.RecordFailure(uint64(time.Since(start).Milliseconds()))
		return acsa.AgentResponse{}, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	c.LogRequest("anthropic", c.model, len(prompt))

	respBody, status, err := c.ExecuteWithRetry(ctx, req, body)
	latencyMS := uint64(time.Since(start).Milliseconds())
	if err != nil {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("anthropic: %w", err)
	}
	if status >= 400 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, c.HandleError("anthropic", status, respBody)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Content) == 0 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("anthropic: %w", core.ErrProviderParse)
	}

	text := parsed.Content[0].Text
	tokens := parsed.Usage.InputTokens + parsed.Usage.OutputTokens
	cost := (float64(tokens) / 1_000_000.0) * anthropicCostPerMillionTokens

	c.stats.RecordSuccess(tokens, cost, latencyMS)
	c.LogResponse("anthropic", c.model, tokens, time.Since(start))

	return acsa.AgentResponse{
		Role:      c.role,
		Text:      text,
		Tokens:    tokens,
		Cost:      cost,
		LatencyMS: latencyMS,
		Metadata:  map[string]string{"provider": "anthropic", "model": c.model},
		Timestamp: time.Now(),
	}, nil
}

func (c *AnthropicClient) Role() acsa.AgentRole   { return c.role }
func (c *AnthropicClient) Stats() acsa.AgentStats { return c.stats.Snapshot() }
func (c *AnthropicClient) ResetStats()            { c.stats.Reset() }

type AnthropicFactory struct{}

func (AnthropicFactory) Name() string { return "anthropic" }

func (AnthropicFactory) DetectEnvironment() bool {
	return os.Getenv("ANTHROPIC_API_KEY") != ""
}

func (AnthropicFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, core.NewFrameworkError("anthropic.Create", "config", core.ErrConfigMissing)
	}
	return NewAnthropicClient(role, apiKey, cfg.Model, nil), nil
}

func init() {
	acsa.MustRegister(AnthropicFactory{})
}
