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

// GeminiClient targets the Gemini generateContent wire format:
// POST .../models/<model>:generateContent?key=<apiKey>
// body {contents:[{parts:[{text}]}], generationConfig:{temperature, maxOutputTokens}}
// reading candidates[0].content.parts[0].text and usageMetadata.totalTokenCount.
type GeminiClient struct {
	*BaseClient
	role    acsa.AgentRole
	apiKey  string
	model   string
	baseURL string
	stats   acsa.StatsCounter
}

const geminiCostPerMillionTokens = 1.25

func NewGeminiClient(role acsa.AgentRole, apiKey, model string, logger core.Logger) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &GeminiClient{
		BaseClient: NewBaseClient("provider/gemini", 60*time.Second, logger),
		role:       role,
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens uint32  `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount uint32 `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	maxTokens, temperature = c.ApplyDefaults(maxTokens, temperature)
	start := time.Now()

	fullPrompt := systemPromptForRole(c.role) + "\n\n" + prompt

	reqBody := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: fullPrompt}}}}}
	reqBody.GenerationConfig.Temperature = temperature
	reqBody.GenerationConfig.MaxOutputTokens = maxTokens
	body, _ := json.Marshal(reqBody)

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := newJSONRequest(ctx, "POST", url, body)
	if err != nil {
		c.stats.RecordFailure(uint64(time.Since(start).Milliseconds()))
		return acsa.AgentResponse{}, err
	}

	c.LogRequest("gemini", c.model, len(prompt))

	respBody, status, err := c.ExecuteWithRetry(ctx, req, body)
	latencyMS := uint64(time.Since(start).Milliseconds())
	if err != nil {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("gemini: %w", err)
	}
	if status >= 400 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, c.HandleError("gemini", status, respBody)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("gemini: %w", core.ErrProviderParse)
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	tokens := parsed.UsageMetadata.TotalTokenCount
	cost := (float64(tokens) / 1_000_000.0) * geminiCostPerMillionTokens

	c.stats.RecordSuccess(tokens, cost, latencyMS)
	c.LogResponse("gemini", c.model, tokens, time.Since(start))

	return acsa.AgentResponse{
		Role:      c.role,
		Text:      text,
		Tokens:    tokens,
		Cost:      cost,
		LatencyMS: latencyMS,
		Metadata:  map[string]string{"provider": "gemini", "model": c.model},
		Timestamp: time.Now(),
	}, nil
}

func (c *GeminiClient) Role() acsa.AgentRole   { return c.role }
func (c *GeminiClient) Stats() acsa.AgentStats { return c.stats.Snapshot() }
func (c *GeminiClient) ResetStats()            { c.stats.Reset() }

type GeminiFactory struct{}

func (GeminiFactory) Name() string { return "gemini" }

func (GeminiFactory) DetectEnvironment() bool {
	return os.Getenv("GEMINI_API_KEY") != ""
}

func (GeminiFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, core.NewFrameworkError("gemini.Create", "config", core.ErrConfigMissing)
	}
	return NewGeminiClient(role, apiKey, cfg.Model, nil), nil
}

func init() {
	acsa.MustRegister(GeminiFactory{})
}
