package collection

import (
	"sort"

	"github.com/gosimple/slug"

	"github.com/GhoulMac/render-engine/internal/content"
	"github.com/GhoulMac/render-engine/internal/page"
)

// ContentType builds a page from a content file path. Any function with
// this shape can serve as a collection's content policy.
type ContentType func(path string) (*page.Page, error)

// SortKey pulls the attribute a collection's archive sorts its pages by.
type SortKey func(*page.Page) string

// FeedDecl declares one feed a collection wants generated.
type FeedDecl struct {
	Title       string
	Description string
}

// Collection groups pages sharing one content source and one set of
// rendering defaults. Member pages inherit the collection's routes and
// template.
type Collection struct {
	Title           string
	ContentPath     string
	Includes        []string
	Template        string
	Routes          []string
	HasArchive      bool
	ArchiveTemplate string
	ArchiveSlug     string
	ArchiveReverse  bool
	Subcollections  []string
	Feeds           []FeedDecl

	ContentType ContentType
	Sort        SortKey

	// items, when set, replaces filesystem discovery. Used by derived
	// subcollections whose membership is already computed.
	items []*page.Page
}

// New returns a collection with the default content policy. Every call
// builds a fresh instance; defaults are never shared.
func New(title string) *Collection {
	return &Collection{
		Title:           title,
		ContentPath:     "content",
		Includes:        []string{"*.md", "*.html"},
		Template:        "page.html",
		Routes:          []string{""},
		ArchiveTemplate: "archive.html",
		ArchiveSlug:     "all_posts",
		ContentType:     page.FromFile,
		Sort:            func(p *page.Page) string { return p.Slug() },
	}
}

// Slug is the collection's identifier in links and feed paths.
func (c *Collection) Slug() string { return slug.Make(c.Title) }

// Pages walks the content source and wraps each matching file into a page
// carrying the collection's routes and template. The walk happens on every
// call; callers needing a stable snapshot keep the returned slice.
func (c *Collection) Pages() ([]*page.Page, error) {
	if c.items != nil {
		return c.items, nil
	}
	if c.ContentPath == "" {
		return nil, nil
	}

	src := &content.Source{Root: c.ContentPath, Includes: c.Includes}
	files, err := src.Files()
	if err != nil {
		return nil, err
	}

	pages := make([]*page.Page, 0, len(files))
	for _, f := range files {
		p, err := c.ContentType(f)
		if err != nil {
			return nil, err
		}
		p.SetRoutes(c.Routes)
		p.SetTemplate(c.Template)
		pages = append(pages, p)
	}
	return pages, nil
}

// Archive synthesizes the single page listing this collection's members,
// sorted by the collection's sort key. The sort is stable: equal keys keep
// discovery order, in both directions.
func (c *Collection) Archive() (*page.Page, error) {
	pages, err := c.Pages()
	if err != nil {
		return nil, err
	}

	key := c.Sort
	if key == nil {
		key = func(p *page.Page) string { return p.Slug() }
	}
	sorted := make([]*page.Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c.ArchiveReverse {
			return key(sorted[j]) < key(sorted[i])
		}
		return key(sorted[i]) < key(sorted[j])
	})

	return page.NewArchive(c.Title, c.ArchiveSlug, c.ArchiveTemplate, sorted), nil
}

// SubcollectionsBy partitions the collection's pages on the distinct values
// of the named attribute. Pages missing the attribute are in no partition.
// Each partition becomes a derived collection with archives enabled, in
// first-seen value order.
func (c *Collection) SubcollectionsBy(attr string) ([]*Collection, error) {
	pages, err := c.Pages()
	if err != nil {
		return nil, err
	}

	var order []string
	groups := map[string][]*page.Page{}
	for _, p := range pages {
		for _, val := range p.Attr(attr) {
			if _, ok := groups[val]; !ok {
				order = append(order, val)
			}
			groups[val] = append(groups[val], p)
		}
	}

	subs := make([]*Collection, 0, len(order))
	for _, val := range order {
		subs = append(subs, &Collection{
			Title:           val,
			HasArchive:      true,
			ArchiveTemplate: c.ArchiveTemplate,
			ArchiveSlug:     slug.Make(val),
			items:           groups[val],
		})
	}
	return subs, nil
}
