// Package ignore provides pattern matching functionality for excluding
// files and directories from a traversal. Exclusion patterns use the same
// glob dialect the rest of the service matches paths with
// (github.com/bmatcuk/doublestar), so an excludePatterns entry behaves
// identically whether it is matched against a tree walk, a glob search, or
// a content scan.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/j0hanz/fscontext/internal/logger"
)

// Matcher determines if a path should be excluded from a traversal.
type Matcher interface {
	// Match returns true if path (relative to the traversal root, forward
	// slashes) should be excluded. basename is path's final segment.
	Match(path string, basename string, isDir bool) bool
}

// PatternMatcher matches relative paths against a set of doublestar glob
// patterns. A pattern ending in "/" only matches directories. A pattern
// with no "/" is matched against the basename as well as the full relative
// path, so "node_modules" excludes that directory at any depth without the
// caller needing to write "**/node_modules".
type PatternMatcher struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	raw        string
	dirOnly    bool
	basenameOK bool
}

// NewPatternMatcher compiles patterns into a Matcher. Empty lines and lines
// starting with "#" are ignored, matching .gitignore comment conventions.
func NewPatternMatcher(patterns []string) *PatternMatcher {
	pm := &PatternMatcher{patterns: make([]compiledPattern, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		cp := compiledPattern{raw: p}
		if strings.HasSuffix(p, "/") {
			cp.dirOnly = true
			p = strings.TrimSuffix(p, "/")
		}
		p = filepath.ToSlash(p)
		cp.basenameOK = !strings.Contains(p, "/")
		cp.raw = p
		pm.patterns = append(pm.patterns, cp)
	}
	return pm
}

// Match reports whether path or basename matches any compiled pattern. A
// pattern with no "/" also matches when any ancestor directory segment of
// path matches it, so entries inside an excluded directory are excluded too.
func (pm *PatternMatcher) Match(path string, basename string, isDir bool) bool {
	path = filepath.ToSlash(path)
	segs := strings.Split(path, "/")
	for _, p := range pm.patterns {
		if !p.dirOnly || isDir {
			if matched, err := doublestar.Match(p.raw, path); err == nil && matched {
				return true
			}
			if p.basenameOK {
				if matched, err := doublestar.Match(p.raw, basename); err == nil && matched {
					return true
				}
			}
		}
		if p.basenameOK {
			for _, seg := range segs[:len(segs)-1] {
				if matched, err := doublestar.Match(p.raw, seg); err == nil && matched {
					return true
				}
			}
		}
	}
	return false
}

// noOpMatcher never excludes anything; used when no patterns are configured.
type noOpMatcher struct{}

func (noOpMatcher) Match(string, string, bool) bool { return false }

// New builds a Matcher from explicit patterns. A nil or empty slice yields a
// matcher that excludes nothing.
func New(patterns []string) Matcher {
	if len(patterns) == 0 {
		return noOpMatcher{}
	}
	return NewPatternMatcher(patterns)
}

// LoadFile reads newline-delimited patterns from filename inside root.
// filename must be a bare name (no separators or "..") so the lookup cannot
// escape root. A missing file returns (nil, nil).
func LoadFile(root string, filename string) ([]string, error) {
	if filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return nil, fmt.Errorf("invalid ignore filename: %s", filename)
	}
	full := filepath.Join(root, filename)

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("failed to close ignore file", "error", cerr)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return patterns, nil
}
