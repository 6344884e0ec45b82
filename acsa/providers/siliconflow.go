package providers

import (
	"os"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/core"
)

const siliconFlowCostPerThousandTokens = 0.0014

func NewSiliconFlowClient(role acsa.AgentRole, apiKey, model string, logger core.Logger) acsa.Provider {
	return newOpenAICompatibleClient("siliconflow", role, apiKey, model,
		"https://api.siliconflow.cn/v1", "deepseek-ai/DeepSeek-V2.5", siliconFlowCostPerThousandTokens, logger)
}

type SiliconFlowFactory struct{}

func (SiliconFlowFactory) Name() string { return "siliconflow" }

func (SiliconFlowFactory) DetectEnvironment() bool {
	return os.Getenv("SILICONFLOW_API_KEY") != ""
}

func (SiliconFlowFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("SILICONFLOW_API_KEY")
	}
	if apiKey == "" {
		return nil, core.NewFrameworkError("siliconflow.Create", "config", core.ErrConfigMissing)
	}
	return NewSiliconFlowClient(role, apiKey, cfg.Model, nil), nil
}

func init() {
	acsa.MustRegister(SiliconFlowFactory{})
}
