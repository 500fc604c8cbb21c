package render

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedClock = time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

func TestBuildContext(t *testing.T) {
	profile := map[string]interface{}{
		"name": "Bob",
		"city": "Madrid",
	}
	ctx := BuildContext(profile, fixedClock, []string{"HOME=/home/bob", "EMPTY="})

	t.Run("profile keys at top level", func(t *testing.T) {
		if ctx["name"] != "Bob" {
			t.Errorf("expected Bob, got %v", ctx["name"])
		}
	})

	t.Run("profile keys under namespace", func(t *testing.T) {
		nested, ok := ctx["profile"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected profile map, got %T", ctx["profile"])
		}
		if nested["city"] != "Madrid" {
			t.Errorf("expected Madrid, got %v", nested["city"])
		}
	})

	t.Run("built-in variables from clock", func(t *testing.T) {
		if ctx["current_date"] != "2025-03-14" {
			t.Errorf("unexpected current_date: %v", ctx["current_date"])
		}
		if ctx["current_time"] != "09:26" {
			t.Errorf("unexpected current_time: %v", ctx["current_time"])
		}
		if ctx["current_datetime"] != "2025-03-14T09:26:53Z" {
			t.Errorf("unexpected current_datetime: %v", ctx["current_datetime"])
		}
		if ctx["weekday"] != "Friday" {
			t.Errorf("unexpected weekday: %v", ctx["weekday"])
		}
	})

	t.Run("environment mapping", func(t *testing.T) {
		env, ok := ctx["env"].(map[string]string)
		if !ok {
			t.Fatalf("expected env map, got %T", ctx["env"])
		}
		if env["HOME"] != "/home/bob" {
			t.Errorf("unexpected HOME: %v", env["HOME"])
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("substitutes profile and builtins", func(t *testing.T) {
		ctx := BuildContext(map[string]interface{}{"name": "Bob"}, fixedClock, nil)
		out, err := Render("greeting", "Hello {{.name}}, today is {{.weekday}}", ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "Hello Bob, today is Friday" {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("deterministic under fixed clock", func(t *testing.T) {
		ctx := BuildContext(map[string]interface{}{"name": "Bob"}, fixedClock, nil)
		first, err := Render("p", "{{.name}} on {{.current_datetime}}", ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Render("p", "{{.name}} on {{.current_datetime}}", ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Errorf("rendering not deterministic: %q vs %q", first, second)
		}
	})

	t.Run("unresolved variable is a TemplateError", func(t *testing.T) {
		ctx := BuildContext(nil, fixedClock, nil)
		_, err := Render("p", "Hello {{.missing}}", ctx)
		var terr *TemplateError
		if !errors.As(err, &terr) {
			t.Fatalf("expected TemplateError, got %v", err)
		}
	})

	t.Run("parse failure is a TemplateError", func(t *testing.T) {
		ctx := BuildContext(nil, fixedClock, nil)
		_, err := Render("p", "Hello {{.name", ctx)
		var terr *TemplateError
		if !errors.As(err, &terr) {
			t.Fatalf("expected TemplateError, got %v", err)
		}
	})
}

func TestMarkdownToHTML(t *testing.T) {
	t.Run("headers get inline styles", func(t *testing.T) {
		out, err := MarkdownToHTML("# Heading 1\n\n## Heading 2\n\n### Heading 3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"<h1 style=", "Heading 1</h1>", "<h2 style=", "Heading 2</h2>", "<h3 style=", "Heading 3</h3>"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("lists", func(t *testing.T) {
		out, err := MarkdownToHTML("- Item 1\n- Item 2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "<ul style=") || !strings.Contains(out, "<li style=") {
			t.Error("expected styled list tags")
		}
	})

	t.Run("fenced code block", func(t *testing.T) {
		out, err := MarkdownToHTML("```\nfmt.Println(42)\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "<pre style=") {
			t.Error("expected styled pre tag")
		}
	})

	t.Run("tables", func(t *testing.T) {
		out, err := MarkdownToHTML("| A | B |\n|---|---|\n| 1 | 2 |")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "<table style=") || !strings.Contains(out, "<td style=") {
			t.Error("expected styled table tags")
		}
	})

	t.Run("wrapped in document template", func(t *testing.T) {
		out, err := MarkdownToHTML("plain text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "</html>") {
			t.Error("expected full HTML document")
		}
	})
}
