package page

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"

	"github.com/GhoulMac/render-engine/internal/relogger"
)

var markdown = goldmark.New()

// Page is one unit of content bound to one or more output routes. It is
// immutable after creation except for the routes/template overrides a
// collection applies before registration.
type Page struct {
	slug     string
	title    string
	routes   []string
	template string

	raw     []byte // full source bytes, the fingerprint input
	content string // body converted to markup
	tags    []string
	extra   map[string]any

	children      []*Page // archive pages only
	noIndex       bool
	alwaysRefresh bool
	engineName    string
	contentPath   string
}

// New builds a hand-authored page with no content-source binding.
func New(title, slugStr, template string, routes []string, raw []byte) *Page {
	if slugStr == "" {
		slugStr = slug.Make(title)
	}
	if len(routes) == 0 {
		routes = []string{""}
	}
	return &Page{
		slug:     slugStr,
		title:    title,
		routes:   routes,
		template: template,
		raw:      raw,
		content:  string(raw),
	}
}

// FromFile reads a content file, splits its YAML frontmatter and converts
// the markdown body. Recognized fields: title, slug, template, tags,
// always_refresh. Every other field is carried into the template context.
func FromFile(path string) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		relogger.Error("msg", "Failed to read content file", "path", path, "err", err)
		return nil, err
	}

	header, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fields, err := parseFrontmatter(header)
	if err != nil {
		return nil, fmt.Errorf("%s: frontmatter: %w", path, err)
	}

	p := &Page{
		raw:         raw,
		routes:      []string{""},
		extra:       map[string]any{},
		contentPath: path,
	}

	for k, v := range fields {
		switch k {
		case "title":
			p.title, _ = v.(string)
		case "slug":
			p.slug, _ = v.(string)
		case "template":
			p.template, _ = v.(string)
		case "tags":
			p.tags = toStrings(v)
		case "always_refresh":
			p.alwaysRefresh, _ = v.(bool)
		default:
			p.extra[k] = v
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if p.title == "" {
		p.title = stem
	}
	if p.slug == "" {
		p.slug = slug.Make(p.title)
	}

	if filepath.Ext(path) == ".md" {
		var buf bytes.Buffer
		if err := markdown.Convert(body, &buf); err != nil {
			return nil, fmt.Errorf("%s: markdown: %w", path, err)
		}
		p.content = buf.String()
	} else {
		p.content = string(body)
	}

	return p, nil
}

// NewArchive synthesizes a no-index page listing the given pages. Its
// fingerprint input is derived from the children so that membership or
// ordering changes invalidate the cached output.
func NewArchive(title, slugStr, template string, children []*Page) *Page {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(c.slug)
		b.WriteByte('\t')
		b.WriteString(c.title)
		b.WriteByte('\n')
	}
	return &Page{
		slug:     slugStr,
		title:    title,
		routes:   []string{""},
		template: template,
		raw:      []byte(b.String()),
		children: children,
		noIndex:  true,
	}
}

func (p *Page) Slug() string        { return p.slug }
func (p *Page) Title() string       { return p.title }
func (p *Page) Routes() []string    { return p.routes }
func (p *Page) Template() string    { return p.template }
func (p *Page) Raw() []byte         { return p.raw }
func (p *Page) Content() string     { return p.content }
func (p *Page) Tags() []string      { return p.tags }
func (p *Page) Children() []*Page   { return p.children }
func (p *Page) NoIndex() bool       { return p.noIndex }
func (p *Page) AlwaysRefresh() bool { return p.alwaysRefresh }
func (p *Page) Engine() string      { return p.engineName }
func (p *Page) ContentPath() string { return p.contentPath }

// SetRoutes replaces the output route prefixes. The first entry is canonical.
func (p *Page) SetRoutes(routes []string) {
	if len(routes) == 0 {
		routes = []string{""}
	}
	p.routes = routes
}

// SetTemplate replaces the template identifier.
func (p *Page) SetTemplate(template string) { p.template = template }

// SetAlwaysRefresh marks the page as bypassing the build cache.
func (p *Page) SetAlwaysRefresh(v bool) { p.alwaysRefresh = v }

// Attr returns the string values of a named grouping attribute. Pages
// without the attribute, or with an empty list, return nil.
func (p *Page) Attr(name string) []string {
	if name == "tags" {
		return p.tags
	}
	if v, ok := p.extra[name]; ok {
		return toStrings(v)
	}
	return nil
}

// TemplateContext exposes the page's public values to the render engine.
func (p *Page) TemplateContext() map[string]any {
	ctx := map[string]any{
		"title":   p.title,
		"slug":    p.slug,
		"content": p.content,
		"tags":    p.tags,
	}
	if p.children != nil {
		ctx["children"] = p.children
	}
	for k, v := range p.extra {
		ctx[k] = v
	}
	return ctx
}

func toStrings(v any) []string {
	switch vv := v.(type) {
	case time.Time:
		// yaml decodes unquoted dates into time.Time.
		return []string{vv.Format(time.RFC3339)}
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
