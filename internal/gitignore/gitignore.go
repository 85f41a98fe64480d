// Package gitignore loads standard .gitignore files and exposes a matcher
// that is consulted once per root and cached for the lifetime of a single
// request, per the directory tree builder's "loaded once at a tree/hash
// root on demand" contract.
package gitignore

import (
	"os"
	"path/filepath"

	ig "github.com/sabhiram/go-gitignore"
)

// Stack is a cumulative .gitignore matcher rooted at a single directory. It
// reads the root's .gitignore (if present) once; nested .gitignore files
// are not separately consulted, matching the single-load-per-root contract.
type Stack struct {
	root    string
	matcher *ig.GitIgnore
}

// Load reads root's .gitignore, if present. A missing file yields a Stack
// that never reports a path as ignored.
func Load(root string) (*Stack, error) {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Stack{root: root}, nil
		}
		return nil, err
	}
	m, err := ig.CompileIgnoreFile(path)
	if err != nil {
		return nil, err
	}
	return &Stack{root: root, matcher: m}, nil
}

// Ignored reports whether absPath is excluded by the loaded .gitignore.
// absPath must lie under the Stack's root.
func (s *Stack) Ignored(absPath string) bool {
	if s == nil || s.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil {
		return false
	}
	return s.matcher.MatchesPath(filepath.ToSlash(rel))
}
