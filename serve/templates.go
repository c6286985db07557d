// ABOUTME: Template loading, rendering, and FuncMap for the read-only LAN viewer.
// ABOUTME: Each page parses against the base layout; templates are embedded and parsed once.
package serve

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var contentFS embed.FS

// TemplateRenderer holds one parsed template set per page. Every page defines
// blocks ("title", "content") that override the defaults in base.html.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	funcMap := buildFuncMap()

	entries, err := fs.ReadDir(contentFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(funcMap).
			ParseFS(contentFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &TemplateRenderer{pages: pages}, nil
}

// Render executes a page inside the base layout and writes the result to w.
func (r *TemplateRenderer) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown page template %q", page), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		http.Error(w, fmt.Sprintf("template render error: %v", err), http.StatusInternalServerError)
	}
}

// buildFuncMap creates the template FuncMap with helper functions for rendering.
func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": markdownToHTML,
		"timeAgo":  timeAgo,
		"czk":      formatCZK,
		"pct":      formatPercent,
		"truncate": truncate,
	}
}

// markdownToHTML converts a markdown string to HTML using goldmark.
// Raw HTML in the input is stripped to prevent XSS.
func markdownToHTML(input string) template.HTML {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(input), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(input))
	}
	return template.HTML(buf.String())
}

// timeAgo formats a time as a relative duration string (e.g. "5m ago", "2h ago").
func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatCZK renders an amount with Czech digit grouping and a currency suffix.
func formatCZK(amount float64, currency string) string {
	if currency == "" {
		currency = "CZK"
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	frac := int64((amount-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac = 0
	}

	digits := fmt.Sprintf("%d", whole)

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if neg {
		out = "-" + out
	}
	return fmt.Sprintf("%s,%02d %s", out, frac, currency)
}

// formatPercent renders a 0..1 confidence as a whole percentage.
func formatPercent(f float64) string {
	return fmt.Sprintf("%.0f %%", f*100)
}

// truncate shortens a string to at most maxLen characters, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
