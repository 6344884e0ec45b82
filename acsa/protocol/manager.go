package protocol

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the current protocol and the live config table. Config
// values can be tuned per-deployment via an override file (see
// LoadOverrides); the detection keyword routes and the Jarvis rule surface
// are never subject to override.
type Manager struct {
	mu              sync.RWMutex
	currentProtocol Protocol
	configs         map[string]ProtocolConfig
}

// NewManager defaults to Architect, matching the teacher-adjacent source's
// default-on-startup behavior.
func NewManager() *Manager {
	m := &Manager{
		currentProtocol: ProtocolArchitect,
		configs:         make(map[string]ProtocolConfig),
	}
	for _, p := range All() {
		m.configs[p.Name()] = ForProtocol(p)
	}
	return m
}

// CurrentProtocol returns the active style.
func (m *Manager) CurrentProtocol() Protocol {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentProtocol
}

// CurrentConfig returns the config recipe for the active style.
func (m *Manager) CurrentConfig() ProtocolConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getConfigLocked(m.currentProtocol)
}

// SwitchProtocol changes the active style.
func (m *Manager) SwitchProtocol(p Protocol) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentProtocol = p
	if _, ok := m.configs[p.Name()]; !ok {
		m.configs[p.Name()] = ForProtocol(p)
	}
}

// AutoDetectAndSwitch runs DetectFromInput and, only when it detects a style
// different from the current one, switches to it and returns (protocol, true).
// Returns (zero, false) when nothing was detected or the detected style
// already matches the current one.
func (m *Manager) AutoDetectAndSwitch(text string) (Protocol, bool) {
	detected, ok := DetectFromInput(text)
	if !ok {
		return Protocol{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if detected == m.currentProtocol {
		return Protocol{}, false
	}
	m.currentProtocol = detected
	if _, exists := m.configs[detected.Name()]; !exists {
		m.configs[detected.Name()] = ForProtocol(detected)
	}
	return detected, true
}

// GetConfig returns the recipe for an arbitrary protocol without switching.
func (m *Manager) GetConfig(p Protocol) ProtocolConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getConfigLocked(p)
}

func (m *Manager) getConfigLocked(p Protocol) ProtocolConfig {
	if cfg, ok := m.configs[p.Name()]; ok {
		return cfg
	}
	return ForProtocol(p)
}

// UpdateConfig overwrites the stored recipe for a protocol. Used by
// LoadOverrides and by operators wiring in a Custom style by hand.
func (m *Manager) UpdateConfig(p Protocol, cfg ProtocolConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[p.Name()] = cfg
}

// overrideFile is the on-disk shape for a ProtocolConfig tuning file. Weights,
// temperature, the two boolean flags and the description are overridable —
// weights go through AgentWeights.IsValid() before an entry is accepted, and
// the Jarvis rule surface is never touched by this mechanism (see jarvis
// package doc).
type overrideFile struct {
	Protocols map[string]struct {
		Weights struct {
			Planner   float64 `yaml:"planner"`
			Validator float64 `yaml:"validator"`
			Auditor   float64 `yaml:"auditor"`
			Executor  float64 `yaml:"executor"`
		} `yaml:"weights"`
		Temperature            float64 `yaml:"temperature"`
		EnableJarvisFilter     bool    `yaml:"enable_jarvis_filter"`
		EnableHighFreqCommands bool    `yaml:"enable_high_freq_commands"`
		Description            string  `yaml:"description"`
	} `yaml:"protocols"`
}

// LoadOverrides reads a YAML tuning file and applies validated overrides on
// top of the compiled-in recipes. A protocol name in the file that doesn't
// match a known style is treated as a Custom style. A weights block that
// fails IsValid() is rejected for that entry only — the rest of the file
// still applies.
func (m *Manager) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("protocol: reading override file %q: %w", path, err)
	}

	var parsed overrideFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("protocol: parsing override file %q: %w", path, err)
	}

	for name, entry := range parsed.Protocols {
		p := protocolByName(name)
		weights := AgentWeights{
			Planner:   entry.Weights.Planner,
			Validator: entry.Weights.Validator,
			Auditor:   entry.Weights.Auditor,
			Executor:  entry.Weights.Executor,
		}
		if !weights.IsValid() {
			continue
		}

		m.UpdateConfig(p, ProtocolConfig{
			Protocol:               p,
			AgentWeights:           weights,
			Temperature:            entry.Temperature,
			EnableJarvisFilter:     entry.EnableJarvisFilter,
			EnableHighFreqCommands: entry.EnableHighFreqCommands,
			Description:            entry.Description,
		})
	}

	return nil
}

func protocolByName(name string) Protocol {
	for _, p := range All() {
		if p.Name() == name {
			return p
		}
	}
	return Custom(name)
}
