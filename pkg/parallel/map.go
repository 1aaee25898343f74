package parallel

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-pathways/pkg/logging"
)

// ErrTaskPanicked marks an item whose function panicked.
var ErrTaskPanicked = errors.New("task panicked")

// Map applies fn to every item on a fresh pool of workers and returns the
// results in item order. Items not yet started when ctx is done are
// skipped and their result is the zero value; the returned error is then
// ctx.Err(). A panicking item yields the zero value and ErrTaskPanicked.
func Map[T, R any](ctx context.Context, workers int, logger logging.Logger, items []T, fn func(context.Context, T) R) ([]R, error) {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out, ctx.Err()
	}
	if workers > len(items) {
		workers = len(items)
	}

	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			out[i] = fn(ctx, items[i])
		})
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	if n := pool.Panics(); n > 0 {
		return out, fmt.Errorf("%w: %d of %d items", ErrTaskPanicked, n, len(items))
	}
	return out, nil
}
