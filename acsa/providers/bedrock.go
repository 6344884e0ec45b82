//go:build bedrock

package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/core"
)

const bedrockCostPerThousandTokens = 0.003

// BedrockClient speaks AWS Bedrock's Converse API, giving any role access to
// Claude/Llama/Titan models behind one AWS account instead of a per-vendor
// API key. Opt-in via the bedrock build tag since it pulls in the AWS SDK.
type BedrockClient struct {
	role    acsa.AgentRole
	model   string
	region  string
	client  *bedrockruntime.Client
	logger  core.Logger
	stats   acsa.StatsCounter
}

func NewBedrockClient(ctx context.Context, role acsa.AgentRole, region, model string, logger core.Logger) (*BedrockClient, error) {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	if model == "" {
		model = "anthropic.claude-3-sonnet-20240229-v1:0"
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if accessKey := os.Getenv("AWS_ACCESS_KEY_ID"); accessKey != "" {
		if secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY"); secretKey != "" {
			sessionToken := os.Getenv("AWS_SESSION_TOKEN")
			opts = append(opts, awscfg.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken)))
		}
	}

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: loading AWS config: %w", err)
	}

	return &BedrockClient{
		role:   role,
		model:  model,
		region: region,
		client: bedrockruntime.NewFromConfig(awsConfig),
		logger: logger,
	}, nil
}

func (c *BedrockClient) Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (acsa.AgentResponse, error) {
	if maxTokens == 0 {
		maxTokens = 1000
	}
	start := time.Now()

	input := &bedrockruntime.ConverseInput{
		ModelId: &c.model,
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
			},
		},
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPromptForRole(c.role)},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   ptrInt32(int32(maxTokens)),
			Temperature: ptrFloat32(float32(temperature)),
		},
	}

	output, err := c.client.Converse(ctx, input)
	latencyMS := uint64(time.Since(start).Milliseconds())
	if err != nil {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("bedrock: %w: %v", core.ErrProviderTransport, err)
	}

	message, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("bedrock: %w", core.ErrProviderParse)
	}

	var text string
	for _, block := range message.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok {
			text += tb.Value
		}
	}
	if text == "" {
		c.stats.RecordFailure(latencyMS)
		return acsa.AgentResponse{}, fmt.Errorf("bedrock: %w", core.ErrProviderParse)
	}

	var tokens uint32
	if output.Usage != nil && output.Usage.TotalTokens != nil {
		tokens = uint32(*output.Usage.TotalTokens)
	}
	cost := (float64(tokens) / 1000.0) * bedrockCostPerThousandTokens

	c.stats.RecordSuccess(tokens, cost, latencyMS)

	return acsa.AgentResponse{
		Role:      c.role,
		Text:      text,
		Tokens:    tokens,
		Cost:      cost,
		LatencyMS: latencyMS,
		Metadata:  map[string]string{"provider": "bedrock", "model": c.model, "region": c.region},
		Timestamp: time.Now(),
	}, nil
}

func (c *BedrockClient) Role() acsa.AgentRole   { return c.role }
func (c *BedrockClient) Stats() acsa.AgentStats { return c.stats.Snapshot() }
func (c *BedrockClient) ResetStats()            { c.stats.Reset() }

func ptrInt32(v int32) *int32     { return &v }
func ptrFloat32(v float32) *float32 { return &v }

type BedrockFactory struct{}

func (BedrockFactory) Name() string { return "bedrock" }

func (BedrockFactory) DetectEnvironment() bool {
	if os.Getenv("AWS_ACCESS_KEY_ID") != "" && os.Getenv("AWS_SECRET_ACCESS_KEY") != "" {
		return true
	}
	if os.Getenv("AWS_PROFILE") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return true
	}
	return false
}

func (BedrockFactory) Create(role acsa.AgentRole, cfg acsa.ProviderConfig) (acsa.Provider, error) {
	client, err := NewBedrockClient(context.Background(), role, os.Getenv("AWS_REGION"), cfg.Model, nil)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func init() {
	acsa.MustRegister(BedrockFactory{})
}
