// Package delivery implements the notification channel abstraction.
// Channels are selected by name from a config-driven registry.
package delivery

import (
	"context"
	"fmt"
)

// Provider is the interface for notification channels.
type Provider interface {
	// Deliver sends one message to its recipients. Implementations attempt
	// the send at most once per call.
	Deliver(ctx context.Context, msg *Message) (*Result, error)

	// Name returns the channel identifier (e.g., "email").
	Name() string
}

// Message is the content handed to a delivery channel.
type Message struct {
	Recipients []string
	Subject    string
	Text       string
	HTML       string // Optional HTML alternative body
}

// Result describes a completed delivery attempt.
type Result struct {
	MessageID  string
	Recipients int
}

// DeliveryError is returned when a delivery attempt fails.
type DeliveryError struct {
	Provider string
	Message  string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery error: %s", e.Provider, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
