package acsa

import (
	"context"
	"fmt"
	"sync"

	"github.com/o-sovereign/acsa-orchestrator/core"
)

// Provider is the uniform capability the router consumes: asynchronous text
// generation with a fixed role identity and live, snapshot-able stats.
// Implementations must serialize only their internal stats update —
// concurrent Generate calls on the same instance are otherwise permitted.
type Provider interface {
	// Generate produces one AgentResponse for prompt at the given sampling
	// parameters. On success it must have already updated the provider's
	// AgentStats via RecordSuccess; on failure, via RecordFailure.
	Generate(ctx context.Context, prompt string, maxTokens uint32, temperature float64) (AgentResponse, error)

	// Role is constant for the provider's lifetime.
	Role() AgentRole

	// Stats returns a snapshot copy — never a reference to live state.
	Stats() AgentStats

	// ResetStats zeroes the provider's running counters.
	ResetStats()
}

// ProviderConfig is the configuration recognized at provider construction.
type ProviderConfig struct {
	APIKey  string
	Model   string
	UseMock bool
}

// ProviderFactory constructs a Provider for a role. Mirrors the ai package's
// factory/registry pattern: each concrete backend self-registers via init(),
// and CreateProvider picks a backend by the name its caller passes; it does
// not consult DetectEnvironment.
type ProviderFactory interface {
	// Create constructs a Provider bound to role using cfg.
	Create(role AgentRole, cfg ProviderConfig) (Provider, error)

	// Name identifies the backend (e.g. "openai", "anthropic", "mock").
	Name() string

	// DetectEnvironment reports whether this backend's required environment
	// (typically an API key env var) is present, for auto-detection.
	DetectEnvironment() bool
}

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderFactory{}
)

// MustRegister registers a ProviderFactory under its Name(). Panics on a
// duplicate registration — a programming error caught at init() time.
func MustRegister(f ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[f.Name()]; exists {
		panic(fmt.Sprintf("acsa: provider factory %q already registered", f.Name()))
	}
	registry[f.Name()] = f
}

// FactoryByName looks up a previously registered factory.
func FactoryByName(name string) (ProviderFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// RegisteredFactoryNames returns the names of all registered factories, for
// diagnostics and the cmd/acsa demo's --list-providers output.
func RegisteredFactoryNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// CreateProvider is the factory entry point the router (and cmd/acsa) uses.
// Semantics: if cfg.UseMock, return the mock regardless of role. Otherwise,
// with an empty backend name RolePlanner fails with ErrConfigMissing and the
// other roles fall back to the mock. A named backend is built by its
// registered factory; the API-key backends take the key from cfg.APIKey or
// their environment variable and fail with ErrConfigMissing when neither is
// set. Never panics — a bad name or missing config always returns an error.
func CreateProvider(role AgentRole, backend string, cfg ProviderConfig) (Provider, error) {
	if cfg.UseMock {
		mockFactory, ok := FactoryByName("mock")
		if !ok {
			return nil, fmt.Errorf("acsa: mock provider factory not registered")
		}
		return mockFactory.Create(role, cfg)
	}

	if backend == "" {
		if role == RolePlanner {
			return nil, core.NewFrameworkError("acsa.CreateProvider", "config", core.ErrConfigMissing)
		}
		mockFactory, ok := FactoryByName("mock")
		if !ok {
			return nil, fmt.Errorf("acsa: mock provider factory not registered")
		}
		return mockFactory.Create(role, cfg)
	}

	factory, ok := FactoryByName(backend)
	if !ok {
		return nil, fmt.Errorf("acsa: no provider factory registered for backend %q", backend)
	}
	return factory.Create(role, cfg)
}
