package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
)

func TestMockClientGeneratesDeterministicEcho(t *testing.T) {
	client := NewMockClient(acsa.RolePlanner)

	resp, err := client.Generate(context.Background(), "build me a widget factory", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, acsa.RolePlanner, resp.Role)
	assert.Contains(t, resp.Text, "[MOCK:planner]")
	assert.Contains(t, resp.Text, "build me a widget factory")
	assert.Equal(t, uint32(5), resp.Tokens)
	assert.InDelta(t, 0.00005, resp.Cost, 1e-9)

	stats := client.Stats()
	assert.Equal(t, uint64(1), stats.TotalCalls)
	assert.Equal(t, uint64(1), stats.SuccessfulCalls)
}

func TestMockClientTruncatesLongPrompts(t *testing.T) {
	client := NewMockClient(acsa.RoleExecutor)
	longPrompt := ""
	for i := 0; i < 50; i++ {
		longPrompt += "word "
	}

	resp, err := client.Generate(context.Background(), longPrompt, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "...")
}

func TestMockClientHonorsContextCancellation(t *testing.T) {
	client := NewMockClient(acsa.RoleValidator)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "anything", 0, 0)
	assert.Error(t, err)

	stats := client.Stats()
	assert.Equal(t, uint64(1), stats.FailedCalls)
}

func TestMockFactoryNeverSelfDetects(t *testing.T) {
	assert.False(t, MockFactory{}.DetectEnvironment())
}
