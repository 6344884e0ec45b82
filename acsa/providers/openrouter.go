package providers

import (
	"os"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/core"
)

const openRouterCostPerThousandTokens = 0.01

func NewOpenRouterClient(role acsa.AgentRole, apiKey, model string, logger core.Logger) acsa.Provider {
	return newOpenAICompatibleClient("openrouter", role, apiKey, model,
		"https://openrouter.ai/api/v1", "openrouter/auto", openRouterCostPerThousandTokens, logger)
}

type OpenRouterFactory struct{}

func (OpenRouterFactory) Name() string { return "openrouter" }

func (OpenRouterFactory) DetectEnvironment() bool {
	return os.Getenv("OPENROUTER_API_KEY") != ""
}

func (OpenRouterFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		return nil, core.NewFrameworkError("openrouter.Create", "config", core.ErrConfigMissing)
	}
	return NewOpenRouterClient(role, apiKey, cfg.Model, nil), nil
}

func init() {
	acsa.MustRegister(OpenRouterFactory{})
}
