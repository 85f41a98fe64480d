// Package treebuilder assembles a directory tree by streaming entries from
// the glob engine, inserting each into a path-indexed map (creating
// intermediate directory nodes on demand, since entries can arrive out of
// order relative to their parent), then sorting every node's children
// (directories first, then lexicographic) once streaming ends. It also
// renders the finished tree as the ASCII art a terminal-facing client
// expects.
package treebuilder

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/globengine"
	"github.com/j0hanz/fscontext/internal/pathkernel"
)

// Node is one entry in the built tree.
type Node struct {
	Name      string
	Path      string // absolute path
	IsDir     bool
	IsSymlink bool
	Size      int64
	Children  []*Node
}

// Result is the outcome of Build.
type Result struct {
	Root          *Node
	TotalEntries  int
	Truncated     bool
	StoppedReason string
}

// Options configures a single tree build.
type Options struct {
	Root           string
	MaxDepth       int
	MaxEntries     int
	IncludeHidden  bool
	IncludeIgnored bool
	Sensitive      *pathkernel.SensitivePolicy
}

// Build streams **/* from Root via the glob engine and assembles a tree.
func Build(ctx context.Context, opt Options) (Result, error) {
	nodes := map[string]*Node{
		opt.Root: {Name: filepath.Base(opt.Root), Path: opt.Root, IsDir: true},
	}
	total := 0
	truncated := false
	stoppedReason := ""

	depthTruncated, walkErr := globengine.Walk(ctx, globengine.Options{
		Cwd:                opt.Root,
		Pattern:            "**/*",
		IncludeHidden:      opt.IncludeHidden,
		IncludeIgnored:     opt.IncludeIgnored,
		MaxDepth:           opt.MaxDepth,
		CaseSensitiveMatch: true,
	}, func(e globengine.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opt.Sensitive != nil && opt.Sensitive.IsSensitive(e.AbsolutePath) {
			return nil
		}
		if opt.MaxEntries > 0 && total >= opt.MaxEntries {
			truncated = true
			stoppedReason = "maxEntries"
			return errStop
		}

		ensureNode(nodes, opt.Root, e)
		total++
		return nil
	})
	if walkErr != nil && walkErr != errStop {
		if errs.IsCancellation(walkErr) {
			return Result{}, errs.Wrap(errs.Cancelled, opt.Root, "tree build cancelled", walkErr)
		}
		return Result{}, walkErr
	}
	if depthTruncated {
		truncated = true
		if stoppedReason == "" {
			stoppedReason = "maxDepth"
		}
	}

	root := nodes[opt.Root]
	sortChildren(root)

	return Result{Root: root, TotalEntries: total, Truncated: truncated, StoppedReason: stoppedReason}, nil
}

var errStop = fmt.Errorf("treebuilder: stop")

// ensureNode inserts e into nodes, creating any missing intermediate
// directory ancestors so an entry visited before its parent directory still
// attaches correctly once the parent arrives (or never does).
func ensureNode(nodes map[string]*Node, root string, e globengine.Entry) *Node {
	if n, ok := nodes[e.AbsolutePath]; ok {
		n.IsDir = e.IsDir
		n.IsSymlink = e.IsSymlink
		n.Size = e.Size
		return n
	}

	parent := ensureParent(nodes, root, filepath.Dir(e.AbsolutePath))
	n := &Node{
		Name:      filepath.Base(e.AbsolutePath),
		Path:      e.AbsolutePath,
		IsDir:     e.IsDir,
		IsSymlink: e.IsSymlink,
		Size:      e.Size,
	}
	nodes[e.AbsolutePath] = n
	parent.Children = append(parent.Children, n)
	return n
}

func ensureParent(nodes map[string]*Node, root, dir string) *Node {
	if n, ok := nodes[dir]; ok {
		return n
	}
	if dir == root || len(dir) <= len(root) {
		n := &Node{Name: filepath.Base(root), Path: root, IsDir: true}
		nodes[root] = n
		return n
	}
	parent := ensureParent(nodes, root, filepath.Dir(dir))
	n := &Node{Name: filepath.Base(dir), Path: dir, IsDir: true}
	nodes[dir] = n
	parent.Children = append(parent.Children, n)
	return n
}

func sortChildren(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortChildren(c)
		}
	}
}

// Render produces the "├── / └── / │" ASCII rendering of a built tree.
func Render(root *Node) string {
	var b strings.Builder
	b.WriteString(root.Name)
	b.WriteByte('\n')
	renderChildren(&b, root.Children, "")
	return b.String()
}

func renderChildren(b *strings.Builder, children []*Node, prefix string) {
	for i, c := range children {
		last := i == len(children)-1
		connector := "├── "
		nextPrefix := prefix + "│   "
		if last {
			connector = "└── "
			nextPrefix = prefix + "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(c.Name)
		if c.IsDir {
			b.WriteByte('/')
		}
		b.WriteByte('\n')
		if c.IsDir {
			renderChildren(b, c.Children, nextPrefix)
		}
	}
}
