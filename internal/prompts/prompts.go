// Package prompts loads prompt definitions and profiles from YAML files.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError is returned for missing files, malformed YAML, and schema
// violations in prompt or profile definitions.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config error in %s: %s", e.Path, e.Message)
	}
	return "config error: " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LLMSettings selects the provider and generation parameters for a prompt.
type LLMSettings struct {
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
	EnableWebSearch bool    `yaml:"enable_web_search"`
}

// DeliverySettings selects the channel and addressing for a prompt.
type DeliverySettings struct {
	Provider   string   `yaml:"provider"`
	Recipients []string `yaml:"recipients"`
	Subject    string   `yaml:"subject"` // Template; rendered with the same context as the prompt
}

// PromptConfig is one prompt definition, parsed from a YAML file.
// Immutable after load; one config drives one run.
type PromptConfig struct {
	Name         string           `yaml:"name"`
	Prompt       string           `yaml:"prompt"`
	SystemPrompt string           `yaml:"system_prompt"`
	LLM          LLMSettings      `yaml:"llm"`
	Delivery     DeliverySettings `yaml:"delivery"`
}

// Load parses a prompt configuration from a YAML file.
// The name defaults to the file stem when the document omits it.
func Load(path string) (*PromptConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigError{Path: path, Message: "prompt file not found", Err: err}
		}
		return nil, &ConfigError{Path: path, Message: "failed to read prompt file", Err: err}
	}

	var cfg PromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}

	if strings.TrimSpace(cfg.Prompt) == "" {
		return nil, &ConfigError{Path: path, Message: "missing required field 'prompt'"}
	}
	if cfg.Name == "" {
		cfg.Name = stem(path)
	}

	return &cfg, nil
}

// LoadDocument parses a prompt file into a generic mapping for schema
// validation. yaml.v3 yields map[string]interface{} for string-keyed maps,
// which is what the JSON-Schema validator expects.
func LoadDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: "prompt file not found", Err: err}
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Path: path, Message: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}
	return doc, nil
}

// LoadProfile parses a profile YAML file into an arbitrary mapping.
func LoadProfile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: "profile file not found", Err: err}
	}
	var profile map[string]interface{}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, &ConfigError{Path: path, Message: fmt.Sprintf("invalid profile YAML: %v", err), Err: err}
	}
	if profile == nil {
		profile = map[string]interface{}{}
	}
	return profile, nil
}

// Resolve maps a prompt reference to a file path. A reference is either a
// path to a YAML file or a bare name looked up in promptsDir.
func Resolve(ref, promptsDir string) (string, error) {
	ext := filepath.Ext(ref)
	if ext == ".yml" || ext == ".yaml" {
		if _, err := os.Stat(ref); err != nil {
			return "", &ConfigError{Path: ref, Message: "prompt file not found", Err: err}
		}
		return ref, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return ref, nil
	}

	if promptsDir == "" {
		promptsDir = DiscoverDir()
	}
	if promptsDir == "" {
		return "", &ConfigError{Message: fmt.Sprintf("cannot find prompt %q: no prompts directory found", ref)}
	}

	for _, ext := range []string{".yml", ".yaml"} {
		candidate := filepath.Join(promptsDir, ref+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &ConfigError{Message: fmt.Sprintf("prompt %q not found in %s", ref, promptsDir)}
}

// DiscoverDir walks up from the working directory looking for a "prompts"
// directory. Returns "" when none is found.
func DiscoverDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, "prompts")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// List returns the names of all prompt definitions in promptsDir, sorted.
func List(promptsDir string) ([]string, error) {
	if promptsDir == "" {
		promptsDir = DiscoverDir()
	}
	if promptsDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(promptsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ConfigError{Path: promptsDir, Message: "failed to read prompts directory", Err: err}
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
