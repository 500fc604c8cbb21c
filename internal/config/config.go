// Package config loads application configuration from YAML and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/viper"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/jackzampolin/promptrun/internal/delivery"
	"github.com/jackzampolin/promptrun/internal/home"
	"github.com/jackzampolin/promptrun/internal/providers"
)

// Load reads configuration from cfgFile, or from the standard locations
// when cfgFile is empty. A missing config file is not an error; defaults
// and PROMPTRUN_ environment variables still apply.
func Load(cfgFile string, h *home.Dir) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("llm_providers", defaults.LLMProviders)
	v.SetDefault("delivery_providers", defaults.DeliveryProviders)
	v.SetDefault("defaults", defaults.Defaults)
	v.SetDefault("prompts_dir", h.PromptsPath())
	v.SetDefault("db_path", h.DBPath())

	v.SetEnvPrefix("PROMPTRUN")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(h.Path())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// A file may carry explicit empty paths; fall back to the home layout
	// rather than handing an empty path to the store or prompt resolver.
	if cfg.PromptsDir == "" {
		cfg.PromptsDir = h.PromptsPath()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = h.DBPath()
	}
	return &cfg, nil
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for
// providers.NewRegistryFromConfig. It resolves all ${ENV_VAR} references
// in API keys.
func (c *Config) ToProviderRegistryConfig() map[string]providers.Config {
	out := make(map[string]providers.Config, len(c.LLMProviders))
	for name, llm := range c.LLMProviders {
		out[name] = providers.Config{
			Type:        llm.Type,
			Model:       llm.Model,
			APIKey:      ResolveEnvVars(llm.APIKey),
			Region:      llm.Region,
			Temperature: llm.Temperature,
			MaxTokens:   llm.MaxTokens,
			Enabled:     llm.Enabled,
		}
	}
	return out
}

// ToDeliveryRegistryConfig converts the config to a format suitable for
// delivery.NewRegistryFromConfig, resolving ${ENV_VAR} references in
// passwords.
func (c *Config) ToDeliveryRegistryConfig() map[string]delivery.Config {
	out := make(map[string]delivery.Config, len(c.DeliveryProviders))
	for name, d := range c.DeliveryProviders {
		out[name] = delivery.Config{
			Type:     d.Type,
			Host:     d.Host,
			Port:     d.Port,
			From:     ResolveEnvVars(d.From),
			Username: ResolveEnvVars(d.Username),
			Password: ResolveEnvVars(d.Password),
			Enabled:  d.Enabled,
		}
	}
	return out
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yamlv2.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# promptrun configuration
# Credentials use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx GMAIL_APP_PASSWORD=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
