package delivery

import (
	"context"
	"errors"
	"testing"
)

func TestNewSMTPProvider(t *testing.T) {
	t.Run("requires sender", func(t *testing.T) {
		_, err := NewSMTPProvider(SMTPConfig{Password: "secret"})
		if err == nil {
			t.Error("expected error for missing sender")
		}
	})

	t.Run("requires password", func(t *testing.T) {
		_, err := NewSMTPProvider(SMTPConfig{From: "me@example.com"})
		if err == nil {
			t.Error("expected error for missing password")
		}
	})

	t.Run("applies defaults and strips password spaces", func(t *testing.T) {
		p, err := NewSMTPProvider(SMTPConfig{
			From:     "me@example.com",
			Password: "abcd efgh ijkl mnop",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.host != defaultSMTPHost || p.port != defaultSMTPPort {
			t.Errorf("expected default host/port, got %s:%d", p.host, p.port)
		}
		if p.username != "me@example.com" {
			t.Errorf("expected username to default to sender, got %s", p.username)
		}
		if p.password != "abcdefghijklmnop" {
			t.Errorf("expected spaces stripped, got %q", p.password)
		}
	})
}

func TestSMTPProviderDeliver_NoRecipients(t *testing.T) {
	p, err := NewSMTPProvider(SMTPConfig{From: "me@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Deliver(context.Background(), &Message{Subject: "s", Text: "t"})
	if err == nil {
		t.Fatal("expected error for empty recipient list")
	}
	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeliveryError, got %T", err)
	}
}

func TestMockProviderDeliver(t *testing.T) {
	ctx := context.Background()
	mock := NewMockProvider()

	res, err := mock.Deliver(ctx, &Message{
		Recipients: []string{"a@example.com", "b@example.com"},
		Subject:    "hi",
		Text:       "body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Recipients != 2 {
		t.Errorf("expected 2 recipients, got %d", res.Recipients)
	}
	if mock.AttemptCount() != 1 {
		t.Errorf("expected 1 attempt, got %d", mock.AttemptCount())
	}
	if len(mock.Messages()) != 1 || mock.Messages()[0].Subject != "hi" {
		t.Error("expected message to be recorded")
	}

	mock.ShouldFail = true
	if _, err := mock.Deliver(ctx, &Message{Recipients: []string{"a@example.com"}}); err == nil {
		t.Error("expected failure when ShouldFail is set")
	}
	if mock.AttemptCount() != 2 {
		t.Errorf("failed attempts still count, got %d", mock.AttemptCount())
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("skips smtp without credentials", func(t *testing.T) {
		r := NewRegistryFromConfig(map[string]Config{
			"email": {Type: "smtp", From: "me@example.com", Enabled: true},
		}, nil)
		if r.Has("email") {
			t.Error("smtp entry without password should not register")
		}
	})

	t.Run("registers smtp with credentials", func(t *testing.T) {
		r := NewRegistryFromConfig(map[string]Config{
			"email": {Type: "smtp", From: "me@example.com", Password: "secret", Enabled: true},
		}, nil)
		if !r.Has("email") {
			t.Error("expected smtp provider to register")
		}
	})

	t.Run("registers mock type", func(t *testing.T) {
		r := NewRegistryFromConfig(map[string]Config{
			"stub": {Type: "mock", Enabled: true},
		}, nil)
		if !r.Has("stub") {
			t.Error("expected mock provider to register")
		}
	})
}
