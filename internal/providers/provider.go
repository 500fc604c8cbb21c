// Package providers implements the LLM provider abstraction.
// Providers are selected by name from a config-driven registry.
package providers

import (
	"context"
	"time"
)

// Provider is the interface for text generation backends.
type Provider interface {
	// Generate sends a prompt and returns the model's response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the provider identifier (e.g., "openai").
	Name() string
}

// GenerateRequest is a single generation request.
type GenerateRequest struct {
	// Prompt is the rendered user prompt text.
	Prompt string

	// SystemPrompt sets model behavior/context. Optional.
	SystemPrompt string

	// Model overrides the provider's default model when set.
	Model string

	// Temperature is the sampling temperature. Zero means provider default.
	Temperature float64

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int

	// EnableWebSearch asks the provider to use its live web lookup tool.
	EnableWebSearch bool

	// RequestID correlates the request in logs.
	RequestID string
}

// GenerateResult is the response from a generation request.
type GenerateResult struct {
	// Content is the response text.
	Content string

	// Provider and model that produced the response.
	Provider  string
	ModelUsed string

	// Token usage as reported by the provider.
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	// WebSearchCalls counts web lookups the model performed.
	WebSearchCalls int

	ExecutionTime time.Duration
}
