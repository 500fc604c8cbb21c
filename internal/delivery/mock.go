package delivery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const MockName = "mock"

// MockProvider is a Provider for testing.
type MockProvider struct {
	ShouldFail bool

	attemptCount atomic.Int64

	mu       sync.Mutex
	messages []*Message
}

// NewMockProvider creates a new mock delivery provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the channel identifier.
func (p *MockProvider) Name() string {
	return MockName
}

// Deliver records the message instead of sending it.
func (p *MockProvider) Deliver(ctx context.Context, msg *Message) (*Result, error) {
	count := p.attemptCount.Add(1)

	if msg == nil || len(msg.Recipients) == 0 {
		return nil, &DeliveryError{Provider: MockName, Message: "at least one recipient is required"}
	}
	if p.ShouldFail {
		return nil, &DeliveryError{Provider: MockName, Message: "mock delivery configured to fail"}
	}

	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()

	return &Result{
		MessageID:  fmt.Sprintf("mock-%d", count),
		Recipients: len(msg.Recipients),
	}, nil
}

// AttemptCount returns the number of delivery attempts made.
func (p *MockProvider) AttemptCount() int64 {
	return p.attemptCount.Load()
}

// Messages returns a copy of all delivered messages.
func (p *MockProvider) Messages() []*Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Reset clears recorded state.
func (p *MockProvider) Reset() {
	p.attemptCount.Store(0)
	p.mu.Lock()
	p.messages = nil
	p.mu.Unlock()
}

var _ Provider = (*MockProvider)(nil)
