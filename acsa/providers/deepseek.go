package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/core"
)

const deepSeekCostPerThousandTokens = 0.0014

// fencedCodeBlockRe matches ```lang\n...\n``` blocks. Fixed regex, not
// configurable — scanning behavior is part of the provider's contract.
var fencedCodeBlockRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)\\n(.*?)```")

// DeepSeekClient is the OpenAI-compatible DeepSeek backend, optionally
// wired with a tool bridge: when WorkspaceRoot is set, every fenced code
// block in the executor's output is persisted to disk and the write
// outcome is appended to the response text. Execution of the code itself
// is out of scope — only durable writing is guaranteed.
type DeepSeekClient struct {
	*openAICompatibleClient
	WorkspaceRoot string
}

func NewDeepSeekClient(role acsa.AgentRole, apiKey, model string, logger core.Logger) *DeepSeekClient {
	return &DeepSeekClient{
		openAICompatibleClient: newOpenAICompatibleClient("deepseek", role, apiKey, model,
			"https://api.deepseek.com/v1", "deepseek-chat", deepSeekCostPerThousandTokens, logger),
	}
}

func (c *DeepSeekClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	resp, err := c.openAICompatibleClient.Generate(ctx, prompt, maxTokens, temperature)
	if err != nil {
		return resp, err
	}

	if c.WorkspaceRoot == "" {
		return resp, nil
	}

	summary := c.writeFencedCodeBlocks(resp.Text)
	if summary != "" {
		resp.Text = resp.Text + "\n\n" + summary
	}
	return resp, nil
}

// writeFencedCodeBlocks scans text for fenced code blocks and persists each
// one under WorkspaceRoot, named by language and a monotonically
// increasing timestamp suffix so repeated blocks of the same language in
// one response never collide. A per-block write failure is appended to the
// summary but never propagated as an error from Generate.
func (c *DeepSeekClient) writeFencedCodeBlocks(text string) string {
	matches := fencedCodeBlockRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}

	var lines []string
	for i, m := range matches {
		lang := strings.TrimSpace(m[1])
		if lang == "" {
			lang = "txt"
		}
		code := m[2]

		filename := fmt.Sprintf("block-%d-%d.%s", time.Now().UnixNano(), i, extensionForLanguage(lang))
		path := filepath.Join(c.WorkspaceRoot, filename)

		if err := os.MkdirAll(c.WorkspaceRoot, 0o755); err != nil {
			lines = append(lines, fmt.Sprintf("block %d (%s): FAILED to create workspace: %v", i, lang, err))
			continue
		}

		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			lines = append(lines, fmt.Sprintf("block %d (%s): FAILED to write %s: %v", i, lang, path, err))
			continue
		}

		lines = append(lines, fmt.Sprintf("block %d (%s): wrote %s", i, lang, path))
	}

	return "---\ntool bridge:\n" + strings.Join(lines, "\n")
}

func extensionForLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "python", "py":
		return "py"
	case "go", "golang":
		return "go"
	case "javascript", "js":
		return "js"
	case "typescript", "ts":
		return "ts"
	case "bash", "sh", "shell":
		return "sh"
	case "rust", "rs":
		return "rs"
	default:
		return "txt"
	}
}

type DeepSeekFactory struct{}

func (DeepSeekFactory) Name() string { return "deepseek" }

func (DeepSeekFactory) DetectEnvironment() bool {
	return os.Getenv("DEEPSEEK_API_KEY") != ""
}

func (DeepSeekFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if apiKey == "" {
		return nil, core.NewFrameworkError("deepseek.Create", "config", core.ErrConfigMissing)
	}

	client := NewDeepSeekClient(role, apiKey, cfg.Model, nil)
	if workspace := os.Getenv("ACSA_DEEPSEEK_WORKSPACE"); workspace != "" {
		client.WorkspaceRoot = workspace
	}
	return client, nil
}

func init() {
	acsa.MustRegister(DeepSeekFactory{})
}
