package pathkernel

import (
	"context"
	"os"
	"path/filepath"

	"github.com/j0hanz/fscontext/internal/errs"
)

// Validated is the result of validating a caller-supplied path: the
// symlink-resolved real path, plus whether the input itself was a symlink
// (tree/search render these as "not followed").
type Validated struct {
	RealPath   string
	WasSymlink bool
}

// ValidateExistingPath combines Normalize -> containment check -> real-path
// resolution -> re-containment-check. It is the only way a core operation
// should turn a caller-supplied path into one safe to pass to the
// filesystem.
func ValidateExistingPath(ctx context.Context, input string, roots []string, sensitive *SensitivePolicy) (Validated, error) {
	v, err := ValidateExistingPathDetailed(ctx, input, roots, sensitive)
	return v, err
}

// ValidateExistingPathDetailed is ValidateExistingPath plus the symlink flag.
func ValidateExistingPathDetailed(ctx context.Context, input string, roots []string, sensitive *SensitivePolicy) (Validated, error) {
	if err := ctx.Err(); err != nil {
		return Validated{}, errs.Wrap(errs.Cancelled, input, "request cancelled", err)
	}

	abs, err := Normalize(input)
	if err != nil {
		return Validated{}, err
	}
	if err := EnsureWithinRoots(input, abs, roots); err != nil {
		return Validated{}, err
	}

	lst, err := os.Lstat(abs)
	if err != nil {
		return Validated{}, errs.FromOS(input, err)
	}
	wasSymlink := lst.Mode()&os.ModeSymlink != 0

	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Validated{}, errs.New(errs.NotFound, input, "path does not exist")
		}
		return Validated{}, errs.Wrap(errs.SymlinkNotAllow, input, "failed to resolve symlink", err)
	}
	real = filepath.Clean(real)

	if err := EnsureWithinRoots(input, real, roots); err != nil {
		return Validated{}, errs.Wrap(errs.SymlinkNotAllow, input, "symlink target escapes allowed roots", err)
	}

	if sensitive != nil && sensitive.IsSensitive(real) {
		return Validated{}, errs.New(errs.AccessDenied, input, "path is denied by sensitive-path policy")
	}

	return Validated{RealPath: real, WasSymlink: wasSymlink}, nil
}

// ValidatePathForWrite validates the *parent* directory of input against
// roots and forbids writing through a symlink whose target escapes; the
// final path component need not exist yet. It returns the absolute
// (non-symlink-resolved-beyond-parent) path new content should be written
// to.
func ValidatePathForWrite(ctx context.Context, input string, roots []string, sensitive *SensitivePolicy) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(errs.Cancelled, input, "request cancelled", err)
	}

	abs, err := Normalize(input)
	if err != nil {
		return "", err
	}
	if err := EnsureWithinRoots(input, abs, roots); err != nil {
		return "", err
	}

	parent := filepath.Dir(abs)
	realParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return "", errs.FromOS(input, err)
	}
	realParent = filepath.Clean(realParent)
	if err := EnsureWithinRoots(input, realParent, roots); err != nil {
		return "", errs.Wrap(errs.SymlinkNotAllow, input, "write parent escapes allowed roots via symlink", err)
	}

	final := filepath.Join(realParent, filepath.Base(abs))
	if sensitive != nil && sensitive.IsSensitive(final) {
		return "", errs.New(errs.AccessDenied, input, "path is denied by sensitive-path policy")
	}

	if lst, err := os.Lstat(final); err == nil {
		if lst.Mode()&os.ModeSymlink != 0 {
			target, rerr := filepath.EvalSymlinks(final)
			if rerr != nil {
				return "", errs.Wrap(errs.SymlinkNotAllow, input, "cannot resolve existing symlink target", rerr)
			}
			if err := EnsureWithinRoots(input, target, roots); err != nil {
				return "", errs.Wrap(errs.SymlinkNotAllow, input, "existing symlink target escapes allowed roots", err)
			}
		}
	}

	return final, nil
}
