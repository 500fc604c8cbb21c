package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockProvider is a Provider for testing.
type MockProvider struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[GenerateRequest]
}

// NewMockProvider creates a new mock provider with sensible defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ResponseText: "mock response",
	}
}

// Name returns the provider identifier.
func (p *MockProvider) Name() string {
	return MockName
}

// Generate returns the canned response.
func (p *MockProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := p.requestCount.Add(1)
	p.lastRequest.Store(req)

	if p.ShouldFail {
		return nil, &ProviderError{Provider: MockName, Message: "mock provider configured to fail"}
	}
	if p.FailAfter > 0 && int(count) > p.FailAfter {
		return nil, &ProviderError{Provider: MockName, Message: fmt.Sprintf("mock provider failed after %d requests", p.FailAfter)}
	}

	if p.Latency > 0 {
		select {
		case <-time.After(p.Latency):
		case <-ctx.Done():
			return nil, &ProviderError{Provider: MockName, Message: "context cancelled", Err: ctx.Err()}
		}
	}

	return &GenerateResult{
		Content:          p.ResponseText,
		Provider:         MockName,
		ModelUsed:        req.Model,
		PromptTokens:     len(req.Prompt) / 4,
		CompletionTokens: len(p.ResponseText) / 4,
		TotalTokens:      (len(req.Prompt) + len(p.ResponseText)) / 4,
		ExecutionTime:    time.Since(start),
	}, nil
}

// RequestCount returns the number of requests made.
func (p *MockProvider) RequestCount() int64 {
	return p.requestCount.Load()
}

// LastRequest returns the most recent request, or nil.
func (p *MockProvider) LastRequest() *GenerateRequest {
	return p.lastRequest.Load()
}

// Reset resets the request counter.
func (p *MockProvider) Reset() {
	p.requestCount.Store(0)
	p.lastRequest.Store(nil)
}

var _ Provider = (*MockProvider)(nil)
