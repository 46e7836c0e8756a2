package page

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFromFileParsesFrontmatter(t *testing.T) {
	path := writePage(t, t.TempDir(), "post.md", `---
title: Hello World
tags: [go, web]
author: someone
---
Some *markdown* body.
`)

	p, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", p.Title())
	assert.Equal(t, "hello-world", p.Slug())
	assert.Equal(t, []string{"go", "web"}, p.Tags())
	assert.Contains(t, p.Content(), "<em>markdown</em>")
	assert.False(t, p.AlwaysRefresh())

	ctx := p.TemplateContext()
	assert.Equal(t, "someone", ctx["author"])
	assert.Equal(t, "hello-world", ctx["slug"])
}

func TestFromFileWithoutFrontmatter(t *testing.T) {
	path := writePage(t, t.TempDir(), "notes.md", "just a body\n")

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "notes", p.Title())
	assert.Equal(t, "notes", p.Slug())
	assert.Contains(t, p.Content(), "just a body")
}

func TestFromFileExplicitSlugWins(t *testing.T) {
	path := writePage(t, t.TempDir(), "x.md", "---\ntitle: Some Title\nslug: custom\n---\nbody\n")

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Slug())
}

func TestFromFileHTMLBodyIsNotConverted(t *testing.T) {
	path := writePage(t, t.TempDir(), "raw.html", "---\ntitle: Raw\n---\n<b>kept</b>\n")

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<b>kept</b>\n", p.Content())
}

func TestFromFileAlwaysRefresh(t *testing.T) {
	path := writePage(t, t.TempDir(), "now.md", "---\ntitle: Now\nalways_refresh: true\n---\nbody\n")

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.True(t, p.AlwaysRefresh())
}

func TestRawIsFullSourceBytes(t *testing.T) {
	content := "---\ntitle: T\n---\nbody\n"
	path := writePage(t, t.TempDir(), "t.md", content)

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(content), p.Raw())
}

func TestAttr(t *testing.T) {
	path := writePage(t, t.TempDir(), "a.md", "---\ntitle: A\ntags: [x, y]\ncategory: stuff\n---\nbody\n")

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, p.Attr("tags"))
	assert.Equal(t, []string{"stuff"}, p.Attr("category"))
	assert.Nil(t, p.Attr("missing"))
}

func TestSetRoutesEmptyFallsBackToRoot(t *testing.T) {
	p := New("T", "t", "page.html", nil, []byte("x"))
	assert.Equal(t, []string{""}, p.Routes())

	p.SetRoutes(nil)
	assert.Equal(t, []string{""}, p.Routes())

	p.SetRoutes([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, p.Routes())
}

func TestNewArchiveFingerprintTracksChildren(t *testing.T) {
	a := New("A", "a", "", nil, nil)
	b := New("B", "b", "", nil, nil)

	one := NewArchive("All", "all_posts", "archive.html", []*Page{a, b})
	two := NewArchive("All", "all_posts", "archive.html", []*Page{b, a})

	assert.True(t, one.NoIndex())
	assert.Len(t, one.Children(), 2)
	assert.NotEqual(t, one.Raw(), two.Raw())
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		header string
		body   string
	}{
		{"basic", "---\na: 1\n---\nbody\n", "a: 1\n", "body\n"},
		{"no header", "body only\n", "", "body only\n"},
		{"empty header", "---\n---\nbody\n", "", "body\n"},
		{"crlf", "---\r\na: 1\r\n---\r\nbody\r\n", "a: 1\n", "body\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, err := splitFrontmatter([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.header, string(header))
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestSplitFrontmatterUnclosed(t *testing.T) {
	_, _, err := splitFrontmatter([]byte("---\na: 1\nno closer\n"))
	assert.ErrorIs(t, err, ErrUnclosedFrontmatter)
}
