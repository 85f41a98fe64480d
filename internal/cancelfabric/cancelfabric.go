// Package cancelfabric composes a caller's cancellation with an optional
// per-request timeout into a single context, the only mechanism by which
// long-running core operations observe a deadline. Go's context.Context is
// itself the "composed cancellation token passed by value" the original
// design calls for (see spec.md §9) — there is no third-party replacement
// that improves on it, so this package is a thin, intentional wrapper rather
// than a hand-rolled listener/abort-signal system.
package cancelfabric

import (
	"context"
	"time"
)

// New composes parent (which may already carry a caller-initiated cancel)
// with an optional timeout. If timeoutMs is zero or negative, no deadline is
// added. The returned cancel func must be called on every exit path; it is
// always safe to call more than once.
func New(parent context.Context, timeoutMs int) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeoutMs <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(timeoutMs)*time.Millisecond)
}

// Aborted reports whether ctx has already been cancelled or has exceeded its
// deadline, without blocking. Components call this at every natural
// suspension point named in spec.md §5: before opening a handle, after each
// glob entry, after each scanner line, after each read chunk, and before
// each batch-orchestrator semaphore acquisition.
func Aborted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Reason maps ctx.Err() to the distinction the spec requires between a
// caller-initiated cancellation and a deadline expiry.
func Reason(ctx context.Context) (timedOut bool, cancelled bool) {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return true, false
	case context.Canceled:
		return false, true
	default:
		return false, false
	}
}
