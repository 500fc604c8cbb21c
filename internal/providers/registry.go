package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds references to LLM providers keyed by name.
// Providers are instantiated from configuration; only entries with resolved
// credentials are registered, so a missing API key surfaces as "provider not
// found" exactly when a run actually needs that provider.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a provider by name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if r.logger != nil {
		r.logger.Debug("registered LLM provider", "name", name, "type", p.Name())
	}
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("LLM provider not found: %s (check llm_providers config and credentials)", name)
	}
	return p, nil
}

// Has checks if a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config defines one provider entry to instantiate from configuration.
type Config struct {
	Type        string // "openai", "bedrock", "mock"
	Model       string
	APIKey      string // Resolved API key (openai)
	Region      string // AWS region (bedrock)
	Temperature float64
	MaxTokens   int
	Enabled     bool
}

// NewRegistryFromConfig creates a registry with providers based on
// configuration. Disabled entries and entries missing credentials are skipped.
func NewRegistryFromConfig(ctx context.Context, cfgs map[string]Config, logger *slog.Logger) *Registry {
	r := NewRegistry()
	if logger != nil {
		r.logger = logger
	}

	for name, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		p, err := createProvider(ctx, cfg)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping LLM provider", "name", name, "error", err)
			}
			continue
		}
		if p != nil {
			r.providers[name] = p
		}
	}

	return r
}

// createProvider creates a provider based on its configured type.
// A nil, nil return means the entry lacks credentials and is skipped silently.
func createProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Type {
	case "openai":
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	case "bedrock":
		return NewBedrockClient(ctx, BedrockConfig{
			Region:      cfg.Region,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %q", cfg.Type)
	}
}
