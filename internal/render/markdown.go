package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Email clients strip <style> blocks, so all styling is inlined.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px;">
%s
</body>
</html>`

// Longer tags must be substituted before their prefixes (<pre> before <p>,
// <blockquote> before <b>).
var inlineStyles = []struct {
	tag    string
	styled string
}{
	{"<h1>", `<h1 style="font-size: 24px; font-weight: 600; margin: 24px 0 16px 0; border-bottom: 1px solid #eee; padding-bottom: 8px;">`},
	{"<h2>", `<h2 style="font-size: 20px; font-weight: 600; margin: 20px 0 12px 0;">`},
	{"<h3>", `<h3 style="font-size: 16px; font-weight: 600; margin: 16px 0 8px 0;">`},
	{"<pre>", `<pre style="background-color: #f6f8fa; padding: 16px; border-radius: 6px; overflow-x: auto; margin: 0 0 16px 0;">`},
	{"<p>", `<p style="margin: 0 0 16px 0;">`},
	{"<ul>", `<ul style="margin: 0 0 16px 0; padding-left: 24px;">`},
	{"<ol>", `<ol style="margin: 0 0 16px 0; padding-left: 24px;">`},
	{"<li>", `<li style="margin: 4px 0;">`},
	{"<code>", `<code style="font-family: SFMono-Regular, Consolas, Monaco, monospace; font-size: 14px;">`},
	{"<code ", `<code style="font-family: SFMono-Regular, Consolas, Monaco, monospace; font-size: 14px;" `},
	{"<blockquote>", `<blockquote style="margin: 0 0 16px 0; padding: 0 16px; border-left: 4px solid #ddd; color: #666;">`},
	{"<table>", `<table style="border-collapse: collapse; margin: 0 0 16px 0; width: 100%;">`},
	{"<th>", `<th style="border: 1px solid #ddd; padding: 8px 12px; background-color: #f6f8fa; text-align: left;">`},
	{"<td>", `<td style="border: 1px solid #ddd; padding: 8px 12px;">`},
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// MarkdownToHTML converts markdown content to an email-friendly HTML
// document with inline CSS.
func MarkdownToHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", &TemplateError{Name: "markdown", Err: err}
	}

	body := buf.String()
	for _, s := range inlineStyles {
		body = strings.ReplaceAll(body, s.tag, s.styled)
	}

	return fmt.Sprintf(htmlTemplate, body), nil
}
