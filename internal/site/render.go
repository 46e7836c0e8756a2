package site

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GhoulMac/render-engine/internal/cache"
	"github.com/GhoulMac/render-engine/internal/relogger"
)

// RenderOptions drive one render pass.
type RenderOptions struct {
	// Verbose reports every route as written or skipped.
	Verbose bool
	// DryRun renders without touching the output tree or the cache file.
	// It forces Verbose on and Strict off.
	DryRun bool
	// Strict wipes the output tree and the cache before rendering.
	Strict bool
}

// Render walks the route registry in order, rewriting every route whose
// content changed since the previous build and replicating the result to
// each of its declared route prefixes. The updated cache is persisted after
// the full pass; a failed pass commits no cache changes.
func (s *Site) Render(opts RenderOptions) error {
	if opts.DryRun {
		opts.Strict = false
		opts.Verbose = true
	}

	if (s.cfg.Strict || opts.Strict) && !opts.DryRun {
		if err := os.RemoveAll(s.cfg.OutputDir); err != nil {
			relogger.Error("msg", "Failed to remove output folder", "path", s.cfg.OutputDir, "err", err)
			return err
		}
		s.hashes.Clear()
		// Persist the cleared cache before any rendering, so a crash
		// mid-pass cannot leave a stale cache file next to an empty
		// output tree.
		if err := s.hashes.Persist(s.cfg.CacheFile); err != nil {
			return err
		}
	}

	if !opts.DryRun {
		if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
			relogger.Error("msg", "Failed to create output folder", "path", s.cfg.OutputDir, "err", err)
			return err
		}
		if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
			dst := filepath.Join(s.cfg.OutputDir, filepath.Base(s.cfg.StaticDir))
			if err := copyTree(s.cfg.StaticDir, dst); err != nil {
				relogger.Error("msg", "Failed to copy static folder", "path", s.cfg.StaticDir, "err", err)
				return err
			}
		}
	}

	if err := s.expandSubcollections(); err != nil {
		return err
	}

	relogger.Info("msg", "Rendering started", "routes", len(s.routes))

	for _, reg := range s.routes {
		outcome, err := s.renderRoute(reg.route, opts)
		if err != nil {
			relogger.Error("msg", "Render failed", "slug", reg.route.Slug(), "err", err)
			return err
		}
		if opts.Verbose {
			relogger.Info("msg", outcome, "slug", reg.route.Slug())
		} else {
			relogger.Debug("msg", outcome, "slug", reg.route.Slug())
		}
	}

	relogger.Info("msg", "Rendering finished", "routes", len(s.routes))

	if opts.DryRun {
		return nil
	}
	return s.hashes.Persist(s.cfg.CacheFile)
}

// renderRoute writes one route, returning "written" or "skipped".
func (s *Site) renderRoute(rt Route, opts RenderOptions) (string, error) {
	eng := s.engineFor(rt.Engine())
	filename := rt.Slug() + eng.Ext()
	dir := filepath.Join(s.cfg.OutputDir, strings.TrimPrefix(rt.Routes()[0], "/"))
	path := filepath.Join(dir, filename)

	if !opts.DryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	if !s.needsWrite(path, rt) {
		return "skipped", nil
	}

	ctx := s.TemplateContext()
	for k, v := range rt.TemplateContext() {
		ctx[k] = v
	}

	markup, err := eng.Render(rt, ctx)
	if err != nil {
		return "", err
	}

	if opts.DryRun {
		return "written", nil
	}

	// An always-refresh page never touches the cache: it neither relies on
	// nor pollutes the fingerprint set.
	if !rt.AlwaysRefresh() {
		s.hashes.Add(cache.Fingerprint(rt.Raw()))
	}

	if err := s.writeFile(path, eng.Ext(), markup); err != nil {
		return "", err
	}

	// Additional routes receive a byte-for-byte copy of the first write,
	// never a second render.
	for _, extra := range rt.Routes()[1:] {
		extraDir := filepath.Join(s.cfg.OutputDir, strings.TrimPrefix(extra, "/"))
		if err := os.MkdirAll(extraDir, 0755); err != nil {
			return "", err
		}
		if _, err := copyFile(path, filepath.Join(extraDir, filename)); err != nil {
			return "", err
		}
	}

	return "written", nil
}

func (s *Site) needsWrite(path string, rt Route) bool {
	if rt.AlwaysRefresh() {
		return true
	}
	if _, err := os.Stat(path); err != nil {
		return true
	}
	return !s.hashes.Contains(cache.Fingerprint(rt.Raw()))
}

func (s *Site) writeFile(path, ext, markup string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var werr, cerr error
	if mt := mediatypeFor(ext); mt != "" {
		wr := s.writer.Writer(mt, f)
		_, werr = io.WriteString(wr, markup)
		cerr = wr.Close()
		f.Close()
	} else {
		_, werr = io.WriteString(f, markup)
		cerr = f.Close()
	}

	if werr != nil {
		return werr
	}
	return cerr
}

// mediatypeFor maps an engine extension to the minifier's media type.
// Extensions without a minifier are written untouched.
func mediatypeFor(ext string) string {
	switch ext {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	}
	return ""
}
