package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/promptrun/internal/home"
)

func testHome(t *testing.T) *home.Dir {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create home: %v", err)
	}
	return h
}

func TestLoad(t *testing.T) {
	t.Run("defaults when no config file", func(t *testing.T) {
		h := testHome(t)
		cfg, err := Load("", h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.PromptsDir != h.PromptsPath() {
			t.Errorf("unexpected prompts dir: %s", cfg.PromptsDir)
		}
		if cfg.DBPath != h.DBPath() {
			t.Errorf("unexpected db path: %s", cfg.DBPath)
		}
		if cfg.Defaults.LLMProvider != "openai" {
			t.Errorf("unexpected default provider: %s", cfg.Defaults.LLMProvider)
		}
		llm, ok := cfg.GetLLMProvider("openai")
		if !ok || llm.Type != "openai" {
			t.Errorf("expected openai entry, got %+v", llm)
		}
	})

	t.Run("explicit config file", func(t *testing.T) {
		h := testHome(t)
		path := filepath.Join(t.TempDir(), "custom.yaml")
		content := `
prompts_dir: /srv/prompts
llm_providers:
  local:
    type: mock
    enabled: true
delivery_providers:
  email:
    type: smtp
    from: bot@example.com
    password: secret
    enabled: true
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(path, h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.PromptsDir != "/srv/prompts" {
			t.Errorf("unexpected prompts dir: %s", cfg.PromptsDir)
		}
		if _, ok := cfg.GetLLMProvider("local"); !ok {
			t.Error("expected local provider entry")
		}
		d, ok := cfg.GetDeliveryProvider("email")
		if !ok || d.From != "bot@example.com" {
			t.Errorf("unexpected delivery entry: %+v", d)
		}
	})

	t.Run("explicit empty paths fall back to home layout", func(t *testing.T) {
		h := testHome(t)
		path := filepath.Join(t.TempDir(), "empty-paths.yaml")
		if err := os.WriteFile(path, []byte("prompts_dir: \"\"\ndb_path: \"\"\n"), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(path, h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.PromptsDir != h.PromptsPath() {
			t.Errorf("unexpected prompts dir: %q", cfg.PromptsDir)
		}
		if cfg.DBPath != h.DBPath() {
			t.Errorf("unexpected db path: %q", cfg.DBPath)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		h := testHome(t)
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), h); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("PROMPTRUN_TEST_KEY", "secret123")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple substitution", "${PROMPTRUN_TEST_KEY}", "secret123"},
		{"embedded", "key=${PROMPTRUN_TEST_KEY}!", "key=secret123!"},
		{"unset variable becomes empty", "${PROMPTRUN_UNSET_VAR}", ""},
		{"no reference", "plain-value", "plain-value"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToRegistryConfigs(t *testing.T) {
	t.Setenv("PROMPTRUN_TEST_API_KEY", "sk-test")
	t.Setenv("PROMPTRUN_TEST_APP_PASSWORD", "abcd efgh")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o",
				APIKey:  "${PROMPTRUN_TEST_API_KEY}",
				Enabled: true,
			},
		},
		DeliveryProviders: map[string]DeliveryProviderCfg{
			"email": {
				Type:     "smtp",
				From:     "bot@example.com",
				Password: "${PROMPTRUN_TEST_APP_PASSWORD}",
				Enabled:  true,
			},
		},
	}

	t.Run("llm keys resolved", func(t *testing.T) {
		out := cfg.ToProviderRegistryConfig()
		if out["openai"].APIKey != "sk-test" {
			t.Errorf("unexpected api key: %q", out["openai"].APIKey)
		}
		if out["openai"].Model != "gpt-4o" || !out["openai"].Enabled {
			t.Errorf("unexpected entry: %+v", out["openai"])
		}
	})

	t.Run("delivery passwords resolved", func(t *testing.T) {
		out := cfg.ToDeliveryRegistryConfig()
		if out["email"].Password != "abcd efgh" {
			t.Errorf("unexpected password: %q", out["email"].Password)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# promptrun configuration") {
		t.Error("expected header comment")
	}
	for _, want := range []string{"llm_providers:", "delivery_providers:", "${OPENAI_API_KEY}"} {
		if !strings.Contains(content, want) {
			t.Errorf("expected config to contain %q", want)
		}
	}

	for _, unwanted := range []string{"prompts_dir:", "db_path:"} {
		if strings.Contains(content, unwanted) {
			t.Errorf("default config should omit %q so home paths apply", unwanted)
		}
	}

	t.Run("written file round-trips through Load", func(t *testing.T) {
		h, err := home.New(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create home: %v", err)
		}
		cfg, err := Load(path, h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := cfg.GetLLMProvider("openai"); !ok {
			t.Error("expected openai entry after round-trip")
		}
		if cfg.PromptsDir != h.PromptsPath() {
			t.Errorf("prompts dir lost in round-trip: %q", cfg.PromptsDir)
		}
		if cfg.DBPath != h.DBPath() {
			t.Errorf("db path lost in round-trip: %q", cfg.DBPath)
		}
	})
}
