// Package site owns the route registry and the render pass. Collections
// are registered into an ordered list of routes; rendering walks that list
// and rewrites only what changed since the previous build.
package site

import (
	"sort"

	"github.com/GhoulMac/render-engine/internal/cache"
	"github.com/GhoulMac/render-engine/internal/collection"
	"github.com/GhoulMac/render-engine/internal/config"
	"github.com/GhoulMac/render-engine/internal/engine"
	"github.com/GhoulMac/render-engine/internal/feeds"
)

// Route is anything the site can render: a content page, a generated
// archive, a feed. The first entry of Routes is the canonical output prefix.
type Route interface {
	Slug() string
	Routes() []string
	Template() string
	Raw() []byte
	AlwaysRefresh() bool
	Engine() string
	TemplateContext() map[string]any
}

// registered ties a route to the collection that produced it, so a
// re-registration under the same title can retract its routes.
type registered struct {
	route Route
	owner string
}

type Site struct {
	cfg     *config.Config
	engines map[string]engine.Engine
	writer  engine.FileWriter

	routes      []registered
	collections map[string]*collection.Collection
	order       []string

	hashes       *cache.Cache
	subsExpanded bool
}

// New loads the previous build's cache and sets up the default engines.
func New(cfg *config.Config) (*Site, error) {
	cfg.SetupTimezone()

	hashes, err := cache.Load(cfg.CacheFile)
	if err != nil {
		return nil, err
	}

	var w engine.FileWriter = &engine.NOOPWriter{}
	if cfg.Minify {
		w = engine.NewMinifyWriter()
	}

	return &Site{
		cfg:    cfg,
		writer: w,
		engines: map[string]engine.Engine{
			"":    engine.NewHTMLEngine(cfg.TemplatesDir),
			"rss": feeds.RSSEngine{},
		},
		collections: map[string]*collection.Collection{},
		hashes:      hashes,
	}, nil
}

// SetEngine overrides the engine registered under name. The empty name is
// the default engine.
func (s *Site) SetEngine(name string, e engine.Engine) {
	s.engines[name] = e
}

func (s *Site) engineFor(name string) engine.Engine {
	if e, ok := s.engines[name]; ok {
		return e
	}
	return s.engines[""]
}

// TemplateContext exposes the site-wide values every rendered page sees.
// Page values win on key collision.
func (s *Site) TemplateContext() map[string]any {
	return map[string]any{
		"site_title": s.cfg.Title,
		"site_url":   s.cfg.URL,
	}
}

// RegisterCollection stores the collection under its title and appends all
// of its pages, its archive and its feeds to the route registry. A second
// registration under the same title replaces the first and retracts the
// routes it had appended.
func (s *Site) RegisterCollection(c *collection.Collection) error {
	if _, ok := s.collections[c.Title]; ok {
		s.retract(c.Title)
	} else {
		s.order = append(s.order, c.Title)
	}
	s.collections[c.Title] = c

	pages, err := c.Pages()
	if err != nil {
		return err
	}
	for _, p := range pages {
		s.routes = append(s.routes, registered{route: p, owner: c.Title})
	}

	if c.HasArchive {
		archive, err := c.Archive()
		if err != nil {
			return err
		}
		s.routes = append(s.routes, registered{route: archive, owner: c.Title})
	}

	for _, decl := range c.Feeds {
		f := feeds.New(decl.Title, decl.Description)
		f.Compose(s.cfg.Title, s.cfg.URL, c.Slug(), pages)
		s.routes = append(s.routes, registered{route: f, owner: c.Title})
	}

	return nil
}

// RegisterRoute appends a hand-authored route with no collection binding.
func (s *Site) RegisterRoute(r Route) {
	s.routes = append(s.routes, registered{route: r})
}

// Routes returns the registered routes in registration order.
func (s *Site) Routes() []Route {
	out := make([]Route, len(s.routes))
	for i, reg := range s.routes {
		out[i] = reg.route
	}
	return out
}

func (s *Site) retract(title string) {
	kept := make([]registered, 0, len(s.routes))
	for _, reg := range s.routes {
		if reg.owner != title {
			kept = append(kept, reg)
		}
	}
	s.routes = kept
}

// expandSubcollections appends the archive of every subcollection of every
// registered collection, largest groups first, ties broken by descending
// title. It runs once, at the start of the first render pass.
func (s *Site) expandSubcollections() error {
	if s.subsExpanded {
		return nil
	}
	s.subsExpanded = true

	for _, title := range s.order {
		c := s.collections[title]
		for _, attr := range c.Subcollections {
			subs, err := c.SubcollectionsBy(attr)
			if err != nil {
				return err
			}

			type sized struct {
				sub   *collection.Collection
				count int
			}
			group := make([]sized, 0, len(subs))
			for _, sub := range subs {
				pages, err := sub.Pages()
				if err != nil {
					return err
				}
				group = append(group, sized{sub: sub, count: len(pages)})
			}
			sort.SliceStable(group, func(i, j int) bool {
				if group[i].count != group[j].count {
					return group[i].count > group[j].count
				}
				return group[i].sub.Title > group[j].sub.Title
			})

			for _, g := range group {
				archive, err := g.sub.Archive()
				if err != nil {
					return err
				}
				s.routes = append(s.routes, registered{route: archive, owner: title})
			}
		}
	}
	return nil
}
