package render

import (
	"path"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
)

// Exclusions decides which files are copied verbatim.
//
// Patterns are slash-separated and relative to the entry directory. A path
// is excluded when a pattern:
//   - equals it or one of its parent directories,
//   - matches it or one of its parent directories as a path.Match glob, or
//   - contains no slash and matches any single segment ("*.png").
//
// A trailing slash only marks the pattern as a directory; "assets/" and
// "assets" behave the same.
type Exclusions struct {
	patterns []string
}

// NewExclusions validates and normalizes patterns.
func NewExclusions(patterns []string) (*Exclusions, error) {
	ex := &Exclusions{}
	for _, p := range patterns {
		p = strings.TrimPrefix(strings.TrimSpace(p), "./")
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid exclusion pattern %q", p)
		}
		ex.patterns = append(ex.patterns, p)
	}
	return ex, nil
}

// Excluded reports whether any candidate path is excluded. The renderer
// passes both the raw and the rendered path.
func (e *Exclusions) Excluded(candidates ...string) bool {
	if e == nil {
		return false
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, p := range e.patterns {
			if matchPattern(p, c) {
				return true
			}
		}
	}
	return false
}

// Len returns the number of patterns.
func (e *Exclusions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.patterns)
}

func matchPattern(pattern, rel string) bool {
	if !strings.Contains(pattern, "/") {
		for _, seg := range strings.Split(rel, "/") {
			if ok, _ := path.Match(pattern, seg); ok {
				return true
			}
		}
		return false
	}
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		if p == pattern {
			return true
		}
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
