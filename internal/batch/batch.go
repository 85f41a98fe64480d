// Package batch implements the bounded-concurrency executor used for
// multi-path operations (readMany, statMany): at most Concurrency items run
// at once, each item's failure becomes a per-item error record rather than
// a pool-wide failure, and a single context cancellation aborts every
// in-flight task and fails the whole call.
package batch

import (
	"context"
	"os"

	"golang.org/x/sync/semaphore"

	"github.com/j0hanz/fscontext/internal/errs"
)

// DefaultConcurrency bounds in-flight work when a caller does not set one.
const DefaultConcurrency = 8

// ItemResult pairs one item's outcome with its original index so result
// order mirrors input order even though items complete out of order.
type ItemResult[T any] struct {
	Index int
	Value T
	Err   error
}

// Run executes fn over items with at most concurrency in flight. It always
// returns len(items) results, index-aligned with items; a cancelled ctx
// aborts remaining work and every undone item gets ctx.Err() as its error.
func Run[T any](ctx context.Context, items []string, concurrency int, fn func(ctx context.Context, item string) (T, error)) ([]ItemResult[T], error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([]ItemResult[T], len(items))

	type slot struct {
		idx   int
		value T
		err   error
	}
	done := make(chan slot, len(items))
	started := 0

	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = ItemResult[T]{Index: i, Err: errs.Wrap(errs.Cancelled, item, "batch cancelled before start", err)}
			continue
		}
		started++
		go func(idx int, it string) {
			defer sem.Release(1)
			v, err := fn(ctx, it)
			done <- slot{idx: idx, value: v, err: err}
		}(i, item)
	}

	for range started {
		s := <-done
		results[s.idx] = ItemResult[T]{Index: s.idx, Value: s.value, Err: s.err}
	}

	if err := ctx.Err(); err != nil {
		return results, errs.Wrap(errs.Cancelled, "", "batch operation cancelled", err)
	}
	return results, nil
}

// SizeEstimate is one path's contribution to the read-many total-size
// budget: its stat-reported size and, for a partial read, the capped
// estimate of bytes that read would actually consume.
type SizeEstimate struct {
	Path      string
	Size      int64
	Estimated int64
	StatErr   error
}

// BudgetResult is the outcome of applying the total-size budget to a list
// of candidate reads.
type BudgetResult struct {
	Proceed []string
	Skipped map[string]error
}

// ApplyReadManyBudget stats every path up front and accumulates the
// running estimated-bytes-to-read sum. A path that would push the sum over
// maxTotalSize is flagged skipped-by-budget and never opened; it does not
// count toward the sum. maxSize, if > 0, caps the estimate per path
// (partial reads never need more than that many bytes).
func ApplyReadManyBudget(paths []string, maxTotalSize int64, maxSize int64) BudgetResult {
	var res BudgetResult
	res.Skipped = make(map[string]error)

	var running int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			res.Skipped[p] = errs.FromOS(p, err)
			continue
		}
		estimate := info.Size()
		if maxSize > 0 && estimate > maxSize {
			estimate = maxSize
		}
		if maxTotalSize > 0 && running+estimate > maxTotalSize {
			res.Skipped[p] = errs.New(errs.TooLarge, p, "skipped: would exceed total read-many size budget")
			continue
		}
		running += estimate
		res.Proceed = append(res.Proceed, p)
	}
	return res
}
