package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFromInput(t *testing.T) {
	t.Run("code/hacker", func(t *testing.T) {
		p, ok := DetectFromInput("帮我写个爬虫")
		assert.True(t, ok)
		assert.Equal(t, ProtocolArchitect, p)
	})

	t.Run("daily", func(t *testing.T) {
		p, ok := DetectFromInput("饿了")
		assert.True(t, ok)
		assert.Equal(t, ProtocolSunday, p)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := DetectFromInput("xyzzy")
		assert.False(t, ok)
	})
}

func TestDetectFromInputIsTotalAndDeterministic(t *testing.T) {
	inputs := []string{"帮我写个爬虫", "饿了", "xyzzy", "help me debug this function", "file a lawsuit"}
	for _, in := range inputs {
		first, firstOK := DetectFromInput(in)
		second, secondOK := DetectFromInput(in)
		assert.Equal(t, firstOK, secondOK)
		assert.Equal(t, first, second)
	}
}

func TestForProtocolWeightsAreValid(t *testing.T) {
	for _, p := range All() {
		cfg := ForProtocol(p)
		assert.True(t, cfg.AgentWeights.IsValid(), "weights for %s should sum to 1.0", p.Name())
	}
}

func TestForProtocolFixedRecipes(t *testing.T) {
	cases := []struct {
		protocol   Protocol
		weights    AgentWeights
		temp       float64
		jarvis     bool
		highFreq   bool
	}{
		{ProtocolArchitect, AgentWeights{0.00, 0.15, 0.05, 0.80}, 0.2, false, true},
		{ProtocolReviewer2, AgentWeights{0.30, 0.60, 0.10, 0.00}, 0.1, true, false},
		{ProtocolAegis, AgentWeights{0.05, 0.05, 0.90, 0.00}, 0.05, true, false},
		{ProtocolPredator, AgentWeights{0.50, 0.00, 0.00, 0.50}, 1.0, false, true},
		{ProtocolMcKinsey, AgentWeights{0.70, 0.20, 0.10, 0.00}, 0.3, true, false},
		{ProtocolLsd, AgentWeights{0.80, 0.00, 0.00, 0.20}, 1.5, false, true},
		{ProtocolGhost, AgentWeights{0.40, 0.00, 0.10, 0.50}, 0.4, false, true},
		{ProtocolSunday, AgentWeights{0.80, 0.00, 0.00, 0.20}, 1.2, false, true},
	}

	for _, c := range cases {
		cfg := ForProtocol(c.protocol)
		assert.Equal(t, c.weights, cfg.AgentWeights, c.protocol.Name())
		assert.Equal(t, c.temp, cfg.Temperature, c.protocol.Name())
		assert.Equal(t, c.jarvis, cfg.EnableJarvisFilter, c.protocol.Name())
		assert.Equal(t, c.highFreq, cfg.EnableHighFreqCommands, c.protocol.Name())
	}
}

func TestCustomProtocolDefault(t *testing.T) {
	cfg := ForProtocol(Custom("operator-style"))
	assert.True(t, cfg.AgentWeights.IsValid())
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.True(t, cfg.EnableJarvisFilter)
}

func TestAgentWeightsNormalize(t *testing.T) {
	w := AgentWeights{Planner: 2, Validator: 2, Auditor: 2, Executor: 2}
	n := w.Normalize()
	assert.True(t, n.IsValid())
	assert.InDelta(t, 0.25, n.Planner, 0.001)
}
