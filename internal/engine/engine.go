// Package engine defines the contract the renderer is driven through. The
// site treats engines as opaque: anything mapping a route plus a context to
// markup, with a declared output extension, is interchangeable.
package engine

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/GhoulMac/render-engine/internal/relogger"
)

// Renderable is the slice of a route an engine needs to produce markup.
type Renderable interface {
	Slug() string
	Template() string
}

// Engine renders one route into its output markup.
type Engine interface {
	Render(r Renderable, ctx map[string]any) (string, error)
	Ext() string
}

// HTMLEngine renders routes through Go html/template files loaded from a
// template directory.
type HTMLEngine struct {
	templates *template.Template
}

// NewHTMLEngine loads every *.html template under dir. A missing or empty
// directory yields an engine that fails on first use, so a site with no
// templated pages still constructs.
func NewHTMLEngine(dir string) *HTMLEngine {
	e := &HTMLEngine{}

	if _, err := os.Stat(dir); err != nil {
		relogger.Debug("msg", "Template directory not found", "path", dir)
		return e
	}

	tmpl, err := template.ParseGlob(dir + "/*.html")
	if err != nil {
		relogger.Warn("msg", "Failed to parse templates", "path", dir, "err", err)
		return e
	}
	e.templates = tmpl
	return e
}

func (e *HTMLEngine) Ext() string { return ".html" }

func (e *HTMLEngine) Render(r Renderable, ctx map[string]any) (string, error) {
	if e.templates == nil {
		return "", fmt.Errorf("no templates loaded, cannot render %q", r.Slug())
	}
	tmpl := e.templates.Lookup(r.Template())
	if tmpl == nil {
		return "", fmt.Errorf("template %q not found for %q", r.Template(), r.Slug())
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		relogger.Error("msg", "Template execution failed", "template", r.Template(), "slug", r.Slug(), "err", err)
		return "", err
	}
	return buf.String(), nil
}
