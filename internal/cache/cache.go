// Package cache persists content fingerprints between builds so unchanged
// pages are not rewritten.
package cache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
)

// Fingerprint is the stable cache key for a page's raw content.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Cache is the set of fingerprints rendered by a previous build. It is
// additive within a run: entries for removed content are never pruned.
type Cache struct {
	hashes map[string]struct{}
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{hashes: map[string]struct{}{}}
}

// Load reads the newline-delimited cache file. A missing file yields an
// empty cache; blank lines are skipped. A malformed line never matches any
// fingerprint, which only forces a rewrite.
func Load(path string) (*Cache, error) {
	c := New()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		c.hashes[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Contains reports whether the fingerprint was persisted by a prior build.
func (c *Cache) Contains(fp string) bool {
	_, ok := c.hashes[fp]
	return ok
}

// Add records a fingerprint for the next persist.
func (c *Cache) Add(fp string) {
	c.hashes[fp] = struct{}{}
}

// Clear drops every in-memory entry.
func (c *Cache) Clear() {
	c.hashes = map[string]struct{}{}
}

// Len returns the number of entries.
func (c *Cache) Len() int { return len(c.hashes) }

// Persist rewrites the cache file with the full set, one fingerprint per
// line. Entries are written sorted so rewrites are deterministic.
func (c *Cache) Persist(path string) error {
	lines := make([]string, 0, len(c.hashes))
	for h := range c.hashes {
		lines = append(lines, h)
	}
	sort.Strings(lines)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	return w.Flush()
}
