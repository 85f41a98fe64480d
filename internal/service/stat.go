package service

import (
	"context"
	"os"

	"github.com/j0hanz/fscontext/internal/batch"
	"github.com/j0hanz/fscontext/internal/errs"
)

// Stat resolves path and returns its FileInfo. A sensitive path fails
// E_ACCESS_DENIED rather than reporting its metadata.
func (s *Service) Stat(ctx context.Context, path string) (FileInfo, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Lstat(v.RealPath)
	if err != nil {
		return FileInfo{}, errs.FromOS(path, err)
	}

	fi := FileInfo{
		Path:        path,
		Kind:        kindOf(info),
		Size:        info.Size(),
		ModUnixNano: info.ModTime().UnixNano(),
	}
	if v.WasSymlink {
		fi.Kind = KindSymlink
		if target, err := os.Readlink(v.RealPath); err == nil {
			fi.SymlinkTarget = target
		}
	}
	return fi, nil
}

// StatManyResult is one statMany entry: either Info or Err is populated.
type StatManyResult struct {
	Path string
	Info FileInfo
	Err  *errs.Error
}

// StatMany stats every path concurrently, isolating per-path failures.
func (s *Service) StatMany(ctx context.Context, paths []string, concurrency int) ([]StatManyResult, error) {
	results, err := batch.Run(ctx, paths, concurrency, func(ctx context.Context, item string) (FileInfo, error) {
		return s.Stat(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	out := make([]StatManyResult, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			out = append(out, StatManyResult{Path: paths[r.Index], Err: asErr(r.Err)})
			continue
		}
		out = append(out, StatManyResult{Path: paths[r.Index], Info: r.Value})
	}
	return out, nil
}
