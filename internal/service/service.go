package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/j0hanz/fscontext/internal/errs"
	"github.com/j0hanz/fscontext/internal/pathkernel"
)

// Service is the single entry point agent-facing transports (the CLI, or a
// future host handshake) call into. It holds no mutable state of its own
// beyond what pathkernel.Global already owns process-wide; a Service value
// is safe to share across concurrent requests.
type Service struct {
	sensitive *pathkernel.SensitivePolicy
}

// New builds a Service with the given sensitive-path policy. Pass nil to
// use only the fixed denylist with no operator overrides.
func New(sensitive *pathkernel.SensitivePolicy) *Service {
	return &Service{sensitive: sensitive}
}

// roots returns the current allowed-roots snapshot.
func (s *Service) roots() []string {
	return pathkernel.Global.Snapshot()
}

// resolve validates a caller path against the current roots and sensitive
// policy, returning its symlink-resolved real path.
func (s *Service) resolve(ctx context.Context, path string) (pathkernel.Validated, error) {
	return pathkernel.ValidateExistingPathDetailed(ctx, path, s.roots(), s.sensitive)
}

// resolveForWrite validates path's parent directory for a write/mkdir/mv
// target that need not exist yet.
func (s *Service) resolveForWrite(ctx context.Context, path string) (string, error) {
	return pathkernel.ValidatePathForWrite(ctx, path, s.roots(), s.sensitive)
}

func kindOf(info os.FileInfo) EntryKind {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return KindSymlink
	case info.IsDir():
		return KindDirectory
	case info.Mode().IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

func toRel(base, abs string) string {
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		rel = abs
	}
	return filepath.ToSlash(rel)
}

// ListRoots returns the current allowed-roots snapshot verbatim; it is the
// only operation that performs no path validation, since there is no input
// path to validate.
func (s *Service) ListRoots(_ context.Context) []string {
	return append([]string{}, s.roots()...)
}

func invalidInput(path, msg string) error {
	return errs.New(errs.InvalidInput, path, msg)
}
