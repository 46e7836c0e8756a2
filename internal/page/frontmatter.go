package page

import (
	"bytes"
	"errors"
	"regexp"

	"gopkg.in/yaml.v3"
)

var windowsCRRegexp = regexp.MustCompile(`\r\n`)

var delim = []byte("---\n")

// ErrUnclosedFrontmatter is returned when a document opens a frontmatter
// block but never closes it.
var ErrUnclosedFrontmatter = errors.New("frontmatter block is never closed")

// splitFrontmatter separates a `---` delimited YAML header from the body.
// Documents without a header come back whole as the body. CRLF input is
// normalized to LF before splitting.
func splitFrontmatter(raw []byte) (header, body []byte, err error) {
	raw = windowsCRRegexp.ReplaceAll(raw, []byte("\n"))

	if !bytes.HasPrefix(raw, delim) {
		return nil, raw, nil
	}

	rest := raw[len(delim):]
	end := bytes.Index(rest, delim)
	if end < 0 {
		// Tolerate a closing delimiter without trailing newline at EOF.
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")+1], nil, nil
		}
		return nil, nil, ErrUnclosedFrontmatter
	}

	return rest[:end], rest[end+len(delim):], nil
}

// parseFrontmatter decodes the YAML header into a generic field map.
// An empty header yields an empty map.
func parseFrontmatter(header []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(header)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
