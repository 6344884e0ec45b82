package protocol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDefaultsToArchitect(t *testing.T) {
	m := NewManager()
	assert.Equal(t, ProtocolArchitect, m.CurrentProtocol())
}

func TestManagerSwitchProtocol(t *testing.T) {
	m := NewManager()
	m.SwitchProtocol(ProtocolAegis)
	assert.Equal(t, ProtocolAegis, m.CurrentProtocol())
	assert.Equal(t, ForProtocol(ProtocolAegis), m.CurrentConfig())
}

func TestManagerAutoDetectAndSwitchOnlyOnChange(t *testing.T) {
	m := NewManager() // starts at Architect

	// Architect is already the code/hacker style, detecting the same style
	// again must not report a switch.
	_, switched := m.AutoDetectAndSwitch("帮我写个爬虫")
	assert.False(t, switched)

	p, switched := m.AutoDetectAndSwitch("file a lawsuit against my landlord")
	assert.True(t, switched)
	assert.Equal(t, ProtocolAegis, p)
	assert.Equal(t, ProtocolAegis, m.CurrentProtocol())

	_, switched = m.AutoDetectAndSwitch("xyzzy")
	assert.False(t, switched)
	assert.Equal(t, ProtocolAegis, m.CurrentProtocol())
}

func TestManagerLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "protocols.yaml")
	contents := `
protocols:
  architect:
    weights:
      planner: 0.10
      validator: 0.10
      auditor: 0.10
      executor: 0.70
    temperature: 0.3
    enable_jarvis_filter: true
    enable_high_freq_commands: true
    description: "tuned architect"
  invalid-example:
    weights:
      planner: 0.90
      validator: 0.90
      auditor: 0.90
      executor: 0.90
    temperature: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	m := NewManager()
	require.NoError(t, m.LoadOverrides(path))

	cfg := m.GetConfig(ProtocolArchitect)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, "tuned architect", cfg.Description)
	assert.True(t, cfg.AgentWeights.IsValid())

	// The invalid entry's weights don't sum to 1.0 — it must be rejected,
	// leaving the Custom protocol's compiled-in default in place.
	invalidCfg := m.GetConfig(Custom("invalid-example"))
	assert.Equal(t, ForProtocol(Custom("invalid-example")), invalidCfg)
}
