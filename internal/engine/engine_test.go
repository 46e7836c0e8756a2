package engine

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoute struct {
	slug     string
	template string
}

func (r stubRoute) Slug() string     { return r.slug }
func (r stubRoute) Template() string { return r.template }

func TestHTMLEngineRendersTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"),
		[]byte("<h1>{{.title}}</h1>{{.content}}"), 0644))

	e := NewHTMLEngine(dir)
	out, err := e.Render(stubRoute{slug: "p", template: "page.html"}, map[string]any{
		"title":   "Hello",
		"content": "body",
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>body", out)
	assert.Equal(t, ".html", e.Ext())
}

func TestHTMLEngineMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte("x"), 0644))

	e := NewHTMLEngine(dir)
	_, err := e.Render(stubRoute{slug: "p", template: "absent.html"}, nil)
	assert.Error(t, err)
}

func TestHTMLEngineMissingDirectory(t *testing.T) {
	e := NewHTMLEngine(filepath.Join(t.TempDir(), "nope"))
	_, err := e.Render(stubRoute{slug: "p", template: "page.html"}, nil)
	assert.Error(t, err)
}

type closableBuffer struct {
	bytes.Buffer
}

func (closableBuffer) Close() error { return nil }

func TestMinifyWriterCompressesHTML(t *testing.T) {
	w := NewMinifyWriter()

	buf := &closableBuffer{}
	wr := w.Writer("text/html", buf)
	_, err := io.WriteString(wr, "<html>  <body>   <p>hi</p>  </body> </html>")
	require.NoError(t, err)
	require.NoError(t, wr.Close())

	assert.Less(t, buf.Len(), len("<html>  <body>   <p>hi</p>  </body> </html>"))
	assert.Contains(t, buf.String(), "<p>hi")
}

func TestNOOPWriterPassesThrough(t *testing.T) {
	w := &NOOPWriter{}
	buf := &closableBuffer{}
	wr := w.Writer("text/html", buf)
	_, err := io.WriteString(wr, "  untouched  ")
	require.NoError(t, err)
	assert.Equal(t, "  untouched  ", buf.String())
}
