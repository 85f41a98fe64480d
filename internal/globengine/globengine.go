// Package globengine produces a lazy, de-duplicated, depth-bounded stream of
// filesystem entries matching a glob pattern. It wraps doublestar with the
// hidden-file and base-name matching extensions the service layer needs, and
// de-duplicates by absolute path since hidden-file handling can cause the
// same entry to be yielded by more than one synthesized pattern.
package globengine

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/gitignore"
	"github.com/j0hanz/fscontext/internal/ignore"
)

// DefaultMaxDepth bounds the hidden-file pattern expansion when a caller
// does not bound traversal depth; the walk itself is then unbounded.
const DefaultMaxDepth = 10

// UnboundedDepth is the MaxDepth sentinel meaning "caller did not specify a
// depth bound," distinct from an explicit 0 (root only, per the contract's
// "depth 0 is cwd itself"). Options.MaxDepth zero-values to 0 in Go, which
// would otherwise be indistinguishable from this sentinel, so callers that
// want an unbounded walk must set MaxDepth to UnboundedDepth explicitly.
const UnboundedDepth = -1

// Entry is one matched filesystem entry, de-duplicated by AbsolutePath.
type Entry struct {
	AbsolutePath string
	RelativePath string
	IsDir        bool
	IsSymlink    bool
	Size         int64
	ModUnixNano  int64
}

// Options mirrors the contract every caller (search, tree-population via
// exclude patterns) configures the engine with.
type Options struct {
	Cwd                string
	Pattern            string
	ExcludePatterns    []string
	IncludeHidden      bool
	BaseNameMatch      bool
	CaseSensitiveMatch bool
	MaxDepth           int
	FollowSymlinks     bool
	OnlyFiles          bool
	SuppressErrors     bool
	// IncludeIgnored, when false (the default), excludes entries matched by
	// a .gitignore loaded once from Cwd.
	IncludeIgnored bool
}

// Walk streams matching entries to yield. Returning an error from yield (or
// ctx being cancelled) stops the walk early and that error propagates. The
// returned bool reports whether the depth bound elided any descendants
// (directories that had children the walk never visited).
func Walk(ctx context.Context, opt Options, yield func(Entry) error) (bool, error) {
	if opt.Cwd == "" {
		return false, errs.New(errs.InvalidInput, "", "glob cwd must not be empty")
	}
	if opt.Pattern == "" {
		return false, errs.New(errs.InvalidInput, opt.Pattern, "glob pattern must not be empty")
	}

	maxDepth := opt.MaxDepth
	patternDepth := maxDepth
	if maxDepth < 0 {
		maxDepth = math.MaxInt
		patternDepth = DefaultMaxDepth
	}

	patterns, err := buildPatterns(opt, patternDepth)
	if err != nil {
		return false, err
	}

	seen := make(map[string]bool)
	root := opt.Cwd
	excludeMatcher := ignore.New(opt.ExcludePatterns)

	var gi *gitignore.Stack
	if !opt.IncludeIgnored {
		gi, err = gitignore.Load(root)
		if err != nil {
			return false, errs.Wrap(errs.Unknown, root, "failed to load .gitignore", err)
		}
	}

	return filepathWalk(ctx, root, maxDepth, opt.IncludeHidden, opt.FollowSymlinks, func(path string, d os.DirEntry) error {
		if seen[path] {
			return nil
		}
		if gi != nil && gi.Ignored(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !opt.IncludeHidden && isHiddenRelPath(rel) {
			return nil
		}

		matched := false
		for _, p := range patterns {
			m, err := matchPattern(p, rel, opt.CaseSensitiveMatch)
			if err != nil {
				if opt.SuppressErrors {
					continue
				}
				return errs.Wrap(errs.InvalidPattern, opt.Pattern, "invalid glob pattern", err)
			}
			if m {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}
		if excludeMatcher.Match(rel, d.Name(), d.IsDir()) {
			return nil
		}

		isDir := d.IsDir()
		isSymlink := d.Type()&os.ModeSymlink != 0
		if isSymlink {
			if opt.FollowSymlinks {
				target, statErr := os.Stat(path)
				if statErr != nil {
					if opt.SuppressErrors {
						return nil
					}
					return errs.FromOS(path, statErr)
				}
				isDir = target.IsDir()
			} else {
				isDir = false
			}
		}
		if opt.OnlyFiles && isDir {
			return nil
		}

		var size int64
		var modNano int64
		info, err := d.Info()
		if err == nil {
			size = info.Size()
			modNano = info.ModTime().UnixNano()
		}

		seen[path] = true
		return yield(Entry{
			AbsolutePath: path,
			RelativePath: rel,
			IsDir:        isDir,
			IsSymlink:    isSymlink,
			Size:         size,
			ModUnixNano:  modNano,
		})
	})
}

// isHiddenRelPath reports whether any slash-separated segment of rel begins
// with a dot, matching the contract's "a standard glob does not traverse
// dot-prefixed directories" rule for the non-includeHidden case.
func isHiddenRelPath(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// buildPatterns normalizes the caller's pattern to forward slashes, applies
// base-name rewriting, and synthesizes hidden-file variants per the hidden
// file handling rule: dotfiles are unreachable through a standard glob
// unless the pattern is rewritten to explicitly traverse dot-prefixed
// segments.
func buildPatterns(opt Options, maxDepth int) ([]string, error) {
	pattern := filepath.ToSlash(opt.Pattern)
	if opt.BaseNameMatch && !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errs.New(errs.InvalidPattern, opt.Pattern, "invalid glob pattern")
	}

	patterns := []string{pattern}
	if opt.IncludeHidden {
		patterns = append(patterns, synthesizeHiddenPatterns(pattern, maxDepth)...)
	}
	return patterns, nil
}

// synthesizeHiddenPatterns splits pattern into a literal prefix and a globby
// remainder, then emits dotfile variants for the first globby segment and,
// when the remainder begins with "**/", bounded-depth expansions through
// ".*/ " segments up to maxDepth. maxDepth is the caller's depth bound, or
// DefaultMaxDepth when the walk is unbounded (0 means root only, so no
// expansions are emitted).
func synthesizeHiddenPatterns(pattern string, maxDepth int) []string {
	segments := strings.Split(pattern, "/")
	globIdx := -1
	for i, seg := range segments {
		if strings.ContainsAny(seg, "*?[{") {
			globIdx = i
			break
		}
	}
	if globIdx == -1 {
		return nil
	}

	var out []string
	dotSeg := segments[globIdx]
	if !strings.HasPrefix(dotSeg, ".") {
		hiddenSegs := append([]string{}, segments...)
		hiddenSegs[globIdx] = "." + dotSeg
		out = append(out, strings.Join(hiddenSegs, "/"))
	}

	remainder := strings.Join(segments[globIdx:], "/")
	if strings.HasPrefix(remainder, "**/") {
		prefix := strings.Join(segments[:globIdx], "/")
		tail := strings.TrimPrefix(remainder, "**/")
		depthPrefix := ""
		for depth := 1; depth <= maxDepth; depth++ {
			depthPrefix += ".*/"
			candidate := depthPrefix + tail
			if prefix != "" {
				candidate = prefix + "/" + candidate
			}
			out = append(out, candidate)
		}
	}
	return out
}

func matchPattern(pattern, relPath string, caseSensitive bool) (bool, error) {
	if caseSensitive {
		return doublestar.Match(pattern, relPath)
	}
	return doublestar.Match(strings.ToLower(pattern), strings.ToLower(relPath))
}

// filepathWalk is a depth-bounded, cancellation-aware directory walk. Depth
// 0 is root itself; depth budget is evaluated against the path relative to
// root, matching the contract's definition. Dot-prefixed directories are
// never descended into unless includeHidden; directory symlinks are only
// descended into when followSymlinks. The returned bool reports whether any
// directory had children that the depth bound prevented from being visited.
func filepathWalk(ctx context.Context, root string, maxDepth int, includeHidden, followSymlinks bool, fn func(path string, d os.DirEntry) error) (bool, error) {
	type stackEntry struct {
		path  string
		depth int
	}

	info, err := os.Lstat(root)
	if err != nil {
		return false, errs.FromOS(root, err)
	}
	if !info.IsDir() {
		return false, errs.New(errs.NotDirectory, root, "glob root is not a directory")
	}

	truncated := false
	stack := []stackEntry{{path: root, depth: 0}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return truncated, errs.Wrap(errs.Cancelled, root, "glob walk cancelled", err)
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(cur.path)
		if err != nil {
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return truncated, errs.Wrap(errs.Cancelled, root, "glob walk cancelled", err)
			}

			hidden := !includeHidden && strings.HasPrefix(e.Name(), ".")
			childDepth := cur.depth + 1
			if childDepth > maxDepth {
				if !hidden {
					truncated = true
				}
				continue
			}

			childPath := filepath.Join(cur.path, e.Name())
			if err := fn(childPath, e); err != nil {
				return truncated, err
			}

			isDir := e.IsDir()
			isSymlink := e.Type()&os.ModeSymlink != 0
			if isSymlink && followSymlinks {
				if target, statErr := os.Stat(childPath); statErr == nil {
					isDir = target.IsDir()
				}
			}
			if !isDir || hidden {
				continue
			}
			if childDepth < maxDepth {
				stack = append(stack, stackEntry{path: childPath, depth: childDepth})
			} else if dirHasEntries(childPath) {
				truncated = true
			}
		}
	}
	return truncated, nil
}

// dirHasEntries reports whether dir contains at least one entry, used only
// to decide whether eliding it at the depth bound counts as truncation.
// Read errors are treated as "nothing to elide" rather than propagated,
// since this is a best-effort truncation signal, not a correctness path.
func dirHasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
