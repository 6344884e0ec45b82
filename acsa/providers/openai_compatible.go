package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/core"
)

// openAICompatibleClient is the shared implementation behind the three
// OpenAI-compatible aggregators (DeepSeek, OpenRouter, SiliconFlow), which
// all speak the exact OpenAI chat-completions shape against a different
// base URL and model catalog.
type openAICompatibleClient struct {
	*BaseClient
	providerName        string
	role                acsa.AgentRole
	apiKey              string
	model               string
	baseURL             string
	costPerThousandTok  float64
	stats               acsa.StatsCounter
}

func newOpenAICompatibleClient(providerName string, role acsa.AgentRole, apiKey, model, baseURL, defaultModel string, costPerThousandTok float64, logger core.Logger) *openAICompatibleClient {
	if model == "" {
		model = defaultModel
	}
	return &openAICompatibleClient{
		BaseClient:         NewBaseClient("provider/"+providerName, 60*time.Second, logger),
		providerName:       providerName,
		role:               role,
		apiKey:             apiKey,
		model:              model,
		baseURL:            baseURL,
		costPerThousandTok: costPerThousandTok,
	}
}

func (c *openAICompatibleClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	maxTokens, temperature = c.ApplyDefaults(maxTokens, temperature)
	start := time.Now()

	body, _ := json.Marshal(openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPromptForRole(c.role)},
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

	c.LogRequest(c.providerName, c.model, len(prompt))

	respBody, status, err := c.ExecuteWithRetry(ctx, req, body)
	latencyMS := uint64(time.Since(start).Milliseconds())
	if err != nil {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("%s: %w", c.providerName, err)
	}
	if status >= 400 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, c.HandleError(c.providerName, status, respBody)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Choices) == 0 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("%s: %w", c.providerName, core.ErrProviderParse)
	}

	text := parsed.Choices[0].Message.Content
	tokens := parsed.Usage.TotalTokens
	cost := (float64(tokens) / 1000.0) * c.costPerThousandTok

	c.stats.RecordSuccess(tokens, cost, latencyMS)
	c.LogResponse(c.providerName, c.model, tokens, time.Since(start))

	return acsa.AgentResponse{
		Role:      c.role,
		Text:      text,
		Tokens:    tokens,
		Cost:      cost,
		LatencyMS: latencyMS,
		Metadata:  map[string]string{"provider": c.providerName, "model": c.model},
		Timestamp: time.Now(),
	}, nil
}

func (c *openAICompatibleClient) Role() acsa.AgentRole   { return c.role }
func (c *openAICompatibleClient) Stats() acsa.AgentStats { return c.stats.Snapshot() }
func (c *openAICompatibleClient) ResetStats()            { c.stats.Reset() }
