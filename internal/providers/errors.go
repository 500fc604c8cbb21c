package providers

import (
	"fmt"
	"time"
)

// ProviderError is returned when an upstream LLM call fails.
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when no HTTP status is available
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the provider rejected the request due to rate limiting.
type RateLimitError struct {
	Provider   string
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited (retry after %s): %s", e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("%s rate limited: %s", e.Provider, e.Message)
}
