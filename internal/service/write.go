package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/j0hanz/fscontext/internal/errs"
)

// Write validates path's parent directory and writes content atomically via
// a temp-file-plus-rename in the same directory, per the Non-goals' "no
// cross-file transactions, but best-effort atomic at the single-file level"
// contract.
func (s *Service) Write(ctx context.Context, path, content string) (WriteStatus, error) {
	final, err := s.resolveForWrite(ctx, path)
	if err != nil {
		return WriteStatus{}, err
	}

	dir := filepath.Dir(final)
	tmp, err := os.CreateTemp(dir, ".fscontext-write-*")
	if err != nil {
		return WriteStatus{}, errs.FromOS(path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return WriteStatus{}, errs.FromOS(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return WriteStatus{}, errs.FromOS(path, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return WriteStatus{}, errs.FromOS(path, err)
	}

	return WriteStatus{OK: true, Path: path}, nil
}

// Mkdir validates path's parent directory and creates path, optionally
// creating intermediate directories.
func (s *Service) Mkdir(ctx context.Context, path string, recursive bool) (WriteStatus, error) {
	final, err := s.resolveForWrite(ctx, path)
	if err != nil {
		return WriteStatus{}, err
	}

	if recursive {
		err = os.MkdirAll(final, 0o755)
	} else {
		err = os.Mkdir(final, 0o755)
	}
	if err != nil {
		return WriteStatus{}, errs.FromOS(path, err)
	}
	return WriteStatus{OK: true, Path: path}, nil
}

// Mv validates both src's existing location and dst's write target, then
// renames. Both endpoints must resolve within the allowed roots.
func (s *Service) Mv(ctx context.Context, src, dst string) (WriteStatus, error) {
	v, err := s.resolve(ctx, src)
	if err != nil {
		return WriteStatus{}, err
	}
	final, err := s.resolveForWrite(ctx, dst)
	if err != nil {
		return WriteStatus{}, err
	}
	if err := os.Rename(v.RealPath, final); err != nil {
		return WriteStatus{}, errs.FromOS(src, err)
	}
	return WriteStatus{OK: true, Path: dst}, nil
}

// Rm validates path and removes it. A non-recursive delete of a non-empty
// directory fails E_INVALID_INPUT with a suggestion to pass recursive=true,
// per §7's error-handling design.
func (s *Service) Rm(ctx context.Context, path string, recursive bool) (WriteStatus, error) {
	v, err := s.resolve(ctx, path)
	if err != nil {
		return WriteStatus{}, err
	}

	if recursive {
		if err := os.RemoveAll(v.RealPath); err != nil {
			return WriteStatus{}, errs.FromOS(path, err)
		}
		return WriteStatus{OK: true, Path: path}, nil
	}

	if err := os.Remove(v.RealPath); err != nil {
		if errors.Is(err, syscall.ENOTEMPTY) {
			return WriteStatus{}, errs.New(errs.InvalidInput, path, "directory is not empty").
				WithSuggestion("use recursive: true")
		}
		return WriteStatus{}, errs.FromOS(path, err)
	}
	return WriteStatus{OK: true, Path: path}, nil
}
