// Package concurrency provides a small bounded fan-out helper.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerFn handles task index. It should return promptly once ctx is done.
type WorkerFn func(ctx context.Context, index int) error

// ForEach runs fn for every index in [0, tasks) with at most limit calls in
// flight. The first error cancels the context passed to the remaining calls
// and is returned once all started calls have finished. If ctx is done
// before every index was handled, ctx.Err() is returned.
func ForEach(parent context.Context, limit, tasks int, fn WorkerFn) error {
	if limit <= 0 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(limit)
	for i := 0; i < tasks; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			return fn(ctx, idx)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
