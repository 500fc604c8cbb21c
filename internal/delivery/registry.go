package delivery

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds references to delivery providers keyed by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    *slog.Logger
}

// NewRegistry creates a new empty delivery registry.
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

// Register registers a delivery provider by name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if r.logger != nil {
		r.logger.Debug("registered delivery provider", "name", name, "type", p.Name())
	}
}

// Get returns a delivery provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("delivery provider not found: %s (check delivery_providers config and credentials)", name)
	}
	return p, nil
}

// Has checks if a delivery provider is registered.
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

// Config defines one delivery channel entry from configuration.
type Config struct {
	Type     string // "smtp", "mock"
	Host     string
	Port     int
	From     string
	Username string
	Password string // Resolved app password
	Enabled  bool
}

// NewRegistryFromConfig creates a registry with channels based on
// configuration. Disabled entries and entries missing credentials are skipped.
func NewRegistryFromConfig(cfgs map[string]Config, logger *slog.Logger) *Registry {
	r := NewRegistry()
	if logger != nil {
		r.logger = logger
	}

	for name, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		p, err := createProvider(cfg)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping delivery provider", "name", name, "error", err)
			}
			continue
		}
		if p != nil {
			r.providers[name] = p
		}
	}

	return r
}

// createProvider creates a channel based on its configured type.
// A nil, nil return means the entry lacks credentials and is skipped silently.
func createProvider(cfg Config) (Provider, error) {
	switch cfg.Type {
	case "smtp":
		if cfg.From == "" || cfg.Password == "" {
			return nil, nil
		}
		return NewSMTPProvider(SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			From:     cfg.From,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown delivery provider type: %q", cfg.Type)
	}
}
