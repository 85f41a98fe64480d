package service

import (
	"context"

	"github.com/j0hanz/fscontext/internal/diffutil"
	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/reader"
)

// Diff validates original and modified as paths within the allowed roots,
// reads each in full, and returns a unified diff between their contents.
func (s *Service) Diff(ctx context.Context, original, modified string) (string, error) {
	origContent, err := s.readWholeFile(ctx, original)
	if err != nil {
		return "", err
	}
	modContent, err := s.readWholeFile(ctx, modified)
	if err != nil {
		return "", err
	}

	out, err := diffutil.Unified(original, modified, origContent, modContent)
	if err != nil {
		return "", errs.Wrap(errs.Unknown, original, "failed to compute diff", err)
	}
	return out, nil
}

func (s *Service) readWholeFile(ctx context.Context, path string) (string, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return "", err
	}
	res, err := reader.Read(ctx, reader.Request{
		Path:    v.RealPath,
		Mode:    reader.ModeFull,
		MaxSize: reader.DefaultMaxSize,
	})
	if err != nil {
		return "", err
	}
	if res.WasBinary {
		return "", errs.New(errs.BinaryFile, path, "file content appears to be binary")
	}
	return res.Content, nil
}
