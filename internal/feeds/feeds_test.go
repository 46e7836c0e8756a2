package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhoulMac/render-engine/internal/page"
)

func TestComposeBuildsTitleAndLink(t *testing.T) {
	f := New("Latest", "new posts")
	f.Compose("My Site", "https://example.com/", "blog", nil)

	assert.Equal(t, "blog", f.Slug())
	assert.Equal(t, "My Site - Latest", f.Title())
	assert.Equal(t, "https://example.com/blog.rss", f.Link())
	assert.Equal(t, []string{""}, f.Routes())
	assert.Equal(t, "rss", f.Engine())
	assert.False(t, f.AlwaysRefresh())
}

func TestRawTracksMembership(t *testing.T) {
	a := page.New("A", "a", "", []string{"blog"}, nil)
	b := page.New("B", "b", "", []string{"blog"}, nil)

	one := New("Latest", "")
	one.Compose("S", "https://example.com", "blog", []*page.Page{a})
	two := New("Latest", "")
	two.Compose("S", "https://example.com", "blog", []*page.Page{a, b})

	assert.NotEqual(t, one.Raw(), two.Raw())
}

func TestRSSEngineRender(t *testing.T) {
	a := page.New("First Post", "first-post", "", []string{"blog"}, nil)

	f := New("Latest", "new posts")
	f.Compose("My Site", "https://example.com", "blog", []*page.Page{a})

	out, err := RSSEngine{}.Render(f, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "<rss")
	assert.Contains(t, out, "My Site - Latest")
	assert.Contains(t, out, "First Post")
	assert.Contains(t, out, "https://example.com/blog/first-post.html")
	assert.Equal(t, ".rss", RSSEngine{}.Ext())
}

func TestRSSEngineRejectsNonFeed(t *testing.T) {
	p := page.New("P", "p", "", nil, nil)
	_, err := RSSEngine{}.Render(p, nil)
	assert.Error(t, err)
}
