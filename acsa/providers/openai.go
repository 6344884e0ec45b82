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

// OpenAIClient targets the OpenAI chat-completions wire format:
// POST .../chat/completions {model, messages:[{role,content}], max_tokens, temperature}
// reading choices[0].message.content and usage.total_tokens.
type OpenAIClient struct {
	*BaseClient
	role    acsa.AgentRole
	apiKey  string
	model   string
	baseURL string
	stats   acsa.StatsCounter
}

const openAICostPerThousandTokens = 0.03 // GPT-4 pricing assumption

func NewOpenAIClient(role acsa.AgentRole, apiKey, model string, logger core.Logger) *OpenAIClient {
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIClient{
		BaseClient: NewBaseClient("provider/openai", 60*time.Second, logger),
		role:       role,
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.openai.com/v1",
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   uint32          `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens uint32 `json:"total_tokens"`
	} `json:"usage"`
}

func (c *OpenAIClient) systemPrompt() string {
	return systemPromptForRole(c.role)
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	maxTokens, temperature = c.ApplyDefaults(maxTokens, temperature)
	start := time.Now()

	body, _ := json.Marshal(openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})

	req, err := newJSONRequest(ctx, "POST", c.baseURL+"/chat/completions", body)
	if err != nil {
		c.stats.RecordFailure(uint64(time.Since(start).Milliseconds()))
		return acsa.AgentResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.LogRequest("openai", c.model, len(prompt))

	respBody, status, err := c.ExecuteWithRetry(ctx, req, body)
	latencyMS := uint64(time.Since(start).Milliseconds())
	if err != nil {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("openai: %w", err)
	}
	if status >= 400 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, c.HandleError("openai", status, respBody)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Choices) == 0 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("openai: %w", core.ErrProviderParse)
	}

	text := parsed.Choices[0].Message.Content
	tokens := parsed.Usage.TotalTokens
	cost := (float64(tokens) / 1000.0) * openAICostPerThousandTokens

	c.stats.RecordSuccess(tokens, cost, latencyMS)
	c.LogResponse("openai", c.model, tokens, time.Since(start))

	return acsa.AgentResponse{
		Role:      c.role,
		Text:      text,
		Tokens:    tokens,
		Cost:      cost,
		LatencyMS: latencyMS,
		Metadata:  map[string]string{"provider": "openai", "model": c.model},
		Timestamp: time.Now(),
	}, nil
}

func (c *OpenAIClient) Role() acsa.AgentRole   { return c.role }
func (c *OpenAIClient) Stats() acsa.AgentStats { return c.stats.Snapshot() }
func (c *OpenAIClient) ResetStats()            { c.stats.Reset() }

// OpenAIFactory self-registers at init() time.
type OpenAIFactory struct{}

func (OpenAIFactory) Name() string { return "openai" }

func (OpenAIFactory) DetectEnvironment() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}

func (OpenAIFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, core.NewFrameworkError("openai.Create", "config", core.ErrConfigMissing)
	}
	return NewOpenAIClient(role, apiKey, cfg.Model, nil), nil
}

func init() {
	acsa.MustRegister(OpenAIFactory{})
}
