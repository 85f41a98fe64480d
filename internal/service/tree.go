package service

import (
	"context"

	"github.com/j0hanz/fscontext/internal/cancelfabric"
	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/treebuilder"
)

// TreeOptions configures the tree operation.
type TreeOptions struct {
	MaxDepth       int
	MaxEntries     int
	IncludeHidden  bool
	IncludeIgnored bool
	TimeoutMs      int
}

// Tree builds a directory tree rooted at path, applying the sensitive-path
// filter and, unless IncludeIgnored, a .gitignore loaded once from the root.
func (s *Service) Tree(ctx context.Context, path string, opt TreeOptions) (TreeResult, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return TreeResult{}, err
	}

	ctx, cancel := cancelfabric.New(ctx, opt.TimeoutMs)
	defer cancel()

	res, err := treebuilder.Build(ctx, treebuilder.Options{
		Root:           v.RealPath,
		MaxDepth:       opt.MaxDepth,
		MaxEntries:     opt.MaxEntries,
		IncludeHidden:  opt.IncludeHidden,
		IncludeIgnored: opt.IncludeIgnored,
		Sensitive:      s.sensitive,
	})
	if err != nil {
		if errs.IsCancellation(err) {
			return TreeResult{}, errs.Wrap(errs.Timeout, path, "tree build timed out", err)
		}
		return TreeResult{}, err
	}

	node := convertNode(res.Root)
	return TreeResult{
		Root:         node,
		Tree:         node,
		Truncated:    res.Truncated,
		TotalEntries: res.TotalEntries,
		ASCII:        treebuilder.Render(res.Root),
	}, nil
}

func convertNode(n *treebuilder.Node) TreeNode {
	if n == nil {
		return TreeNode{}
	}
	// TreeNode.Kind is file|directory only (spec.md §3); a symlink is
	// reported as whatever its resolved target is, matching treebuilder's
	// own kind-probe resolution.
	kind := KindFile
	if n.IsDir {
		kind = KindDirectory
	}
	tn := TreeNode{Name: n.Name, Kind: kind, Size: n.Size}
	if n.IsDir {
		tn.Children = make([]TreeNode, 0, len(n.Children))
		for _, c := range n.Children {
			tn.Children = append(tn.Children, convertNode(c))
		}
	}
	return tn
}
