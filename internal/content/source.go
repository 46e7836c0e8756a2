package content

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GhoulMac/render-engine/internal/relogger"
)

// Source enumerates content files under a root directory. Matching never
// escapes the root: patterns are evaluated against a filesystem rooted there.
type Source struct {
	Root     string
	Includes []string
}

// Files returns every path under the root matching any include pattern, in
// pattern order. A missing root yields an empty list, so a collection can be
// declared before its content directory exists. Overlapping patterns are not
// deduplicated; a file matching two patterns appears twice.
func (s *Source) Files() ([]string, error) {
	info, err := os.Stat(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	if abs, err := filepath.Abs(s.Root); err == nil && abs == filepath.Dir(abs) {
		relogger.Warn("msg", "Content path is a filesystem root, globbing it is dangerous", "path", s.Root)
	}

	fsys := os.DirFS(s.Root)

	var files []string
	for _, pattern := range s.Includes {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			files = append(files, filepath.Join(s.Root, filepath.FromSlash(m)))
		}
	}
	return files, nil
}
