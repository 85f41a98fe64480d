package service

import (
	"context"
	"os"

	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/hasher"
)

// HashOptions configures the hash operation.
type HashOptions struct {
	IncludeIgnored bool
	Concurrency    int
}

// Hash computes a SHA-256 digest for a file, or a composite directory
// digest (C10) for a directory.
func (s *Service) Hash(ctx context.Context, path string, opt HashOptions) (HashResult, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return HashResult{}, err
	}

	info, err := os.Stat(v.RealPath)
	if err != nil {
		return HashResult{}, errs.FromOS(path, err)
	}

	if !info.IsDir() {
		res, err := hasher.HashFile(ctx, v.RealPath)
		if err != nil {
			return HashResult{}, err
		}
		return HashResult{Hash: res.Digest, IsDirectory: false}, nil
	}

	res, err := hasher.HashDirectory(ctx, v.RealPath, hasher.Options{
		IncludeIgnored: opt.IncludeIgnored,
		Concurrency:    opt.Concurrency,
	})
	if err != nil {
		return HashResult{}, err
	}
	return HashResult{Hash: res.Digest, IsDirectory: true, FileCount: res.FileCount}, nil
}
