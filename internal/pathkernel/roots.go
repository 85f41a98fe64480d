// Package pathkernel normalizes, resolves, and verifies any externally
// supplied path against a process-wide set of allowed roots, guaranteeing
// containment even across symbolic links and hidden-file traversal. It is
// grounded on the allowed-root / symlink-aware containment design of
// other_examples/ppipada-llmtools-go's internal/fspolicy, generalized to the
// request-scoped normalize/validate split the specification calls for.
package pathkernel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/j0hanz/fscontext/internal/errs"
)

// Roots holds the process-wide set of allowed roots. Writers replace the
// whole snapshot atomically; readers observe a consistent slice per request
// with no locking, matching spec.md §9's "single holder with initialization
// lifecycle... avoid singletons that mutate mid-request".
type Roots struct {
	ptr atomic.Pointer[[]string]
}

// Global is the process-wide AllowedRoots holder, mutated only by initial
// CLI parse and the host handshake (spec.md §3 Lifecycle).
var Global = &Roots{}

// Snapshot returns the current allowed roots. The returned slice must be
// treated as immutable by the caller.
func (r *Roots) Snapshot() []string {
	p := r.ptr.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Set canonicalizes each input path, discards unreadable or non-directory
// entries, and atomically swaps in the survivors. It never returns an error:
// a root that cannot be used is simply dropped (spec.md §3, "Empty state is
// legal and renders every path-consuming operation a denial").
func (r *Roots) Set(paths []string) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		canon, err := canonicalizeRoot(p)
		if err != nil {
			continue
		}
		out = append(out, canon)
	}
	sort.Strings(out)
	out = dedupe(out)
	r.ptr.Store(&out)
}

// Add appends paths to the current root set (used by the host handshake,
// which augments rather than replaces the CLI-supplied roots).
func (r *Roots) Add(paths []string) {
	merged := append([]string{}, r.Snapshot()...)
	merged = append(merged, paths...)
	r.Set(merged)
}

func canonicalizeRoot(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("empty root")
	}
	abs, err := normalizeNoIO(p)
	if err != nil {
		return "", err
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(real)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", real)
	}
	return filepath.Clean(real), nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0:0]
	var prev string
	for i, s := range sorted {
		if i > 0 && s == prev {
			continue
		}
		out = append(out, s)
		prev = s
	}
	return out
}

// Within reports whether child lies inside root by full path-segment
// prefix, never by naive string-prefix comparison (which would let
// "/home/user-work" falsely satisfy root "/home/user").
func Within(child, root string) bool {
	child = filepath.Clean(child)
	root = filepath.Clean(root)
	if child == root {
		return true
	}
	return strings.HasPrefix(child, root+string(filepath.Separator))
}

// WithinAny reports whether child lies inside at least one of roots.
func WithinAny(child string, roots []string) bool {
	for _, r := range roots {
		if Within(child, r) {
			return true
		}
	}
	return false
}

// EnsureWithinRoots returns an E_ACCESS_DENIED error naming origPath (never
// the resolved path) when child escapes every root. An empty root set
// denies everything.
func EnsureWithinRoots(origPath, child string, roots []string) error {
	if len(roots) == 0 {
		return errs.New(errs.AccessDenied, origPath, "no allowed roots configured")
	}
	if !WithinAny(child, roots) {
		return errs.New(errs.AccessDenied, origPath, "path is outside all allowed roots")
	}
	return nil
}
