// Package feeds builds the RSS routes a collection declares. A Feed is
// page-compatible: the site appends it to the route registry like any page
// and renders it through the RSS engine.
package feeds

import (
	"fmt"
	"os"
	"strings"
	"time"

	gfeeds "github.com/gorilla/feeds"

	"github.com/GhoulMac/render-engine/internal/config"
	"github.com/GhoulMac/render-engine/internal/engine"
	"github.com/GhoulMac/render-engine/internal/page"
)

// Ext is the output extension the RSS engine declares.
const Ext = ".rss"

// Feed is one syndication route over a collection's pages.
type Feed struct {
	title       string
	description string
	slug        string
	link        string
	siteURL     string
	items       []*page.Page
}

// New declares a feed. Compose must run before the feed enters the route
// registry.
func New(title, description string) *Feed {
	return &Feed{title: title, description: description}
}

// Compose fills in the fields the site derives at registration: the slug of
// the owning collection, the composed title and the absolute link.
func (f *Feed) Compose(siteTitle, siteURL, slugStr string, items []*page.Page) {
	f.slug = slugStr
	f.title = fmt.Sprintf("%s - %s", siteTitle, f.title)
	f.siteURL = strings.TrimSuffix(siteURL, "/")
	f.link = fmt.Sprintf("%s/%s%s", f.siteURL, slugStr, Ext)
	f.items = items
}

func (f *Feed) Slug() string        { return f.slug }
func (f *Feed) Title() string       { return f.title }
func (f *Feed) Link() string        { return f.link }
func (f *Feed) Routes() []string    { return []string{""} }
func (f *Feed) Template() string    { return "" }
func (f *Feed) AlwaysRefresh() bool { return false }
func (f *Feed) Engine() string      { return "rss" }

// Raw is the fingerprint input: the feed changes when its membership,
// ordering or titles change.
func (f *Feed) Raw() []byte {
	var b strings.Builder
	b.WriteString(f.link)
	b.WriteByte('\n')
	for _, it := range f.items {
		b.WriteString(it.Slug())
		b.WriteByte('\t')
		b.WriteString(it.Title())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func (f *Feed) TemplateContext() map[string]any {
	return map[string]any{
		"title": f.title,
		"slug":  f.slug,
		"link":  f.link,
	}
}

// RSSEngine serializes a Feed. It only accepts feed routes.
type RSSEngine struct{}

func (RSSEngine) Ext() string { return Ext }

func (RSSEngine) Render(r engine.Renderable, _ map[string]any) (string, error) {
	f, ok := r.(*Feed)
	if !ok {
		return "", fmt.Errorf("rss engine cannot render %q: not a feed", r.Slug())
	}

	loc := feedLocation()
	out := &gfeeds.Feed{
		Title:       f.title,
		Link:        &gfeeds.Link{Href: f.link},
		Description: f.description,
		Created:     time.Now().In(loc),
	}

	for _, it := range f.items {
		item := &gfeeds.Item{
			Title: it.Title(),
			Link:  &gfeeds.Link{Href: itemLink(f, it)},
		}
		if date, ok := itemDate(it, loc); ok {
			item.Created = date
		}
		out.Items = append(out.Items, item)
	}

	return out.ToRss()
}

func itemLink(f *Feed, it *page.Page) string {
	route := strings.Trim(it.Routes()[0], "/")
	if route == "" {
		return fmt.Sprintf("%s/%s.html", f.siteURL, it.Slug())
	}
	return fmt.Sprintf("%s/%s/%s.html", f.siteURL, route, it.Slug())
}

func itemDate(it *page.Page, loc *time.Location) (time.Time, bool) {
	v := it.Attr("date")
	if len(v) == 0 {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, v[0], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func feedLocation() *time.Location {
	name := os.Getenv(config.TimezoneEnv)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
