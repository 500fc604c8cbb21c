// Package render builds template contexts and renders prompt templates.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// TemplateError is returned when a template fails to parse or execute,
// including references to variables missing from the context.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error in %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// BuildContext assembles the immutable template context for one run.
// Profile keys are available both at the top level and under "profile";
// built-in variables are derived from the given clock so rendering is
// deterministic under a fixed time.
func BuildContext(profile map[string]interface{}, now time.Time, environ []string) map[string]interface{} {
	ctx := make(map[string]interface{}, len(profile)+6)

	for k, v := range profile {
		ctx[k] = v
	}
	ctx["profile"] = profile

	ctx["current_date"] = now.Format("2006-01-02")
	ctx["current_time"] = now.Format("15:04")
	ctx["current_datetime"] = now.Format(time.RFC3339)
	ctx["weekday"] = now.Weekday().String()

	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	ctx["env"] = env

	return ctx
}

// Render executes a prompt template against the context. Unresolved
// variables are errors, not silent blanks.
func Render(name, text string, ctx map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", &TemplateError{Name: name, Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", &TemplateError{Name: name, Err: err}
	}
	return buf.String(), nil
}
