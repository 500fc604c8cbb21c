package config

// Config holds promptrun configuration.
// Stored at: ~/.promptrun/config.yaml
type Config struct {
	PromptsDir        string                        `mapstructure:"prompts_dir" yaml:"prompts_dir,omitempty"`
	DBPath            string                        `mapstructure:"db_path" yaml:"db_path,omitempty"`
	LLMProviders      map[string]LLMProviderCfg     `mapstructure:"llm_providers" yaml:"llm_providers"`
	DeliveryProviders map[string]DeliveryProviderCfg `mapstructure:"delivery_providers" yaml:"delivery_providers"`
	Defaults          DefaultsCfg                   `mapstructure:"defaults" yaml:"defaults"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type        string  `mapstructure:"type" yaml:"type"`     // "openai", "bedrock", "mock"
	Model       string  `mapstructure:"model" yaml:"model"`   // Model name
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	Region      string  `mapstructure:"region" yaml:"region"` // AWS region (bedrock)
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DeliveryProviderCfg configures a delivery channel.
type DeliveryProviderCfg struct {
	Type     string `mapstructure:"type" yaml:"type"` // "smtp", "mock"
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	From     string `mapstructure:"from" yaml:"from"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"` // App password (supports ${ENV_VAR} syntax)
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies fallback provider selections for prompts that
// do not name one.
type DefaultsCfg struct {
	LLMProvider      string `mapstructure:"llm_provider" yaml:"llm_provider"`
	DeliveryProvider string `mapstructure:"delivery_provider" yaml:"delivery_provider"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
			"bedrock": {
				Type:    "bedrock",
				Model:   "anthropic.claude-3-5-sonnet-20241022-v2",
				Region:  "us-east-1",
				Enabled: false,
			},
		},
		DeliveryProviders: map[string]DeliveryProviderCfg{
			"email": {
				Type:     "smtp",
				Host:     "smtp.gmail.com",
				Port:     587,
				From:     "",
				Password: "${GMAIL_APP_PASSWORD}",
				Enabled:  true,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:      "openai",
			DeliveryProvider: "email",
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// GetDeliveryProvider returns a delivery channel config by name.
func (c *Config) GetDeliveryProvider(name string) (DeliveryProviderCfg, bool) {
	cfg, ok := c.DeliveryProviders[name]
	return cfg, ok
}
