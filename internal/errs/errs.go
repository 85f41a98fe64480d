// Package errs defines the closed set of error kinds surfaced by fscontext
// operations and the mapping from OS-level errors onto them.
package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Kind is the closed set of error classifications a core operation can
// return. Every failure path in the service layer maps to exactly one Kind.
type Kind string

const (
	AccessDenied     Kind = "E_ACCESS_DENIED"
	NotFound         Kind = "E_NOT_FOUND"
	NotFile          Kind = "E_NOT_FILE"
	NotDirectory     Kind = "E_NOT_DIRECTORY"
	TooLarge         Kind = "E_TOO_LARGE"
	BinaryFile       Kind = "E_BINARY_FILE"
	Timeout          Kind = "E_TIMEOUT"
	Cancelled        Kind = "E_CANCELLED"
	InvalidPattern   Kind = "E_INVALID_PATTERN"
	InvalidInput     Kind = "E_INVALID_INPUT"
	PermissionDenied Kind = "E_PERMISSION_DENIED"
	SymlinkNotAllow  Kind = "E_SYMLINK_NOT_ALLOWED"
	PathTraversal    Kind = "E_PATH_TRAVERSAL"
	Unknown          Kind = "E_UNKNOWN"
)

// Error is the single error type returned by core operations. Path always
// carries the caller-supplied path, never a resolved/canonical one, so a
// failure never leaks the existence or location of something outside the
// allowed roots.
type Error struct {
	Kind       Kind
	Message    string
	Path       string
	Suggestion string
	cause      error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs an *Error with no underlying cause.
func New(kind Kind, path, message string) *Error {
	return &Error{Kind: kind, Path: path, Message: message}
}

// Wrap constructs an *Error that preserves cause for errors.Is/As chains.
func Wrap(kind Kind, path, message string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: message, cause: cause}
}

// WithSuggestion attaches a caller-facing hint and returns the receiver.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// KindOf extracts the Kind of err, defaulting to Unknown for anything that
// isn't (or doesn't wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, fs.ErrNotExist) {
		return NotFound
	}
	if errors.Is(err, fs.ErrPermission) {
		return PermissionDenied
	}
	return Unknown
}

// FromOS classifies a raw OS/filesystem error into a Kind, following the
// errno mapping table in the specification: ENOENT -> NotFound, EACCES/EPERM
// -> PermissionDenied, ENOTDIR -> NotDirectory, EISDIR -> NotFile, ELOOP ->
// SymlinkNotAllow, ETIMEDOUT -> Timeout. Anything unrecognized maps to
// Unknown.
func FromOS(path string, err error) *Error {
	if err == nil {
		return nil
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return Wrap(NotFound, path, "no such file or directory", err)
		case syscall.EACCES, syscall.EPERM:
			return Wrap(PermissionDenied, path, "permission denied", err)
		case syscall.ENOTDIR:
			return Wrap(NotDirectory, path, "not a directory", err)
		case syscall.EISDIR:
			return Wrap(NotFile, path, "is a directory", err)
		case syscall.ELOOP:
			return Wrap(SymlinkNotAllow, path, "too many levels of symbolic links", err)
		case syscall.ETIMEDOUT:
			return Wrap(Timeout, path, "operation timed out", err)
		default:
			return Wrap(Unknown, path, errno.Error(), err)
		}
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Wrap(NotFound, path, "no such file or directory", err)
	case errors.Is(err, fs.ErrPermission):
		return Wrap(PermissionDenied, path, "permission denied", err)
	case errors.Is(err, fs.ErrClosed):
		return Wrap(Unknown, path, "file already closed", err)
	default:
		return Wrap(Unknown, path, err.Error(), err)
	}
}

// IsCancellation reports whether err represents a cancellation or deadline
// expiry raised anywhere in the cancellation fabric.
func IsCancellation(err error) bool {
	k := KindOf(err)
	return k == Cancelled || k == Timeout
}
