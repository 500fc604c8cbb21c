package providers

import (
	"context"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("get unknown provider", func(t *testing.T) {
		if _, err := r.Get("nope"); err == nil {
			t.Error("expected error for unknown provider")
		}
	})

	t.Run("register and get", func(t *testing.T) {
		mock := NewMockProvider()
		r.Register("primary", mock)

		p, err := r.Get("primary")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name() != MockName {
			t.Errorf("expected %s, got %s", MockName, p.Name())
		}
		if !r.Has("primary") {
			t.Error("expected Has to report registered provider")
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		r.Register("alpha", NewMockProvider())
		names := r.List()
		if len(names) != 2 || names[0] != "alpha" || names[1] != "primary" {
			t.Errorf("unexpected names: %v", names)
		}
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("skips openai without api key", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, map[string]Config{
			"openai": {Type: "openai", Model: "gpt-4o", Enabled: true},
		}, nil)
		if r.Has("openai") {
			t.Error("provider without API key should not register")
		}
	})

	t.Run("skips disabled entries", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, map[string]Config{
			"openai": {Type: "openai", Model: "gpt-4o", APIKey: "sk-test", Enabled: false},
		}, nil)
		if r.Has("openai") {
			t.Error("disabled provider should not register")
		}
	})

	t.Run("registers openai with api key", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, map[string]Config{
			"openai": {Type: "openai", Model: "gpt-4o", APIKey: "sk-test", Enabled: true},
		}, nil)
		if !r.Has("openai") {
			t.Fatal("expected openai provider to register")
		}
		p, err := r.Get("openai")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		oc, ok := p.(*OpenAIClient)
		if !ok {
			t.Fatalf("expected *OpenAIClient, got %T", p)
		}
		if oc.Model() != "gpt-4o" {
			t.Errorf("expected model gpt-4o, got %s", oc.Model())
		}
	})

	t.Run("registers mock type", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, map[string]Config{
			"stub": {Type: "mock", Enabled: true},
		}, nil)
		if !r.Has("stub") {
			t.Error("expected mock provider to register")
		}
	})

	t.Run("skips unknown type", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, map[string]Config{
			"weird": {Type: "weird", Enabled: true},
		}, nil)
		if r.Has("weird") {
			t.Error("unknown provider type should not register")
		}
	})
}

func TestMockProvider(t *testing.T) {
	ctx := context.Background()
	mock := NewMockProvider()
	mock.ResponseText = "canned"

	res, err := mock.Generate(ctx, &GenerateRequest{Prompt: "hello", Model: "m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Content != "canned" {
		t.Errorf("expected canned, got %s", res.Content)
	}
	if res.ModelUsed != "m1" {
		t.Errorf("expected m1, got %s", res.ModelUsed)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", mock.RequestCount())
	}
	if mock.LastRequest().Prompt != "hello" {
		t.Error("expected last request to be recorded")
	}

	mock.ShouldFail = true
	if _, err := mock.Generate(ctx, &GenerateRequest{Prompt: "again"}); err == nil {
		t.Error("expected failure when ShouldFail is set")
	}
	if mock.RequestCount() != 2 {
		t.Errorf("expected 2 requests, got %d", mock.RequestCount())
	}
}
