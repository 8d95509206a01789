package worker

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ForEachIndex runs fn for every index in [0, n) with at most c workers.
// Workers pull the next unclaimed index, so items are processed in rough
// source order and each invocation owns exactly one index. Callers write
// results into pre-sized slices indexed by position; no worker touches
// another worker's slot, so no locking is needed. The first error cancels
// the remaining work.
func ForEachIndex(ctx context.Context, n, c int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if c <= 0 {
		c = 1
	}
	if c > n {
		c = n
	}

	g, ctx := errgroup.WithContext(ctx)
	var next atomic.Int64

	for w := 0; w < c; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(ctx, i); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}

// Ranges cuts [0, n) into consecutive half-open [start, end) windows of
// at most size items. Used to batch service calls.
func Ranges(n, size int) [][2]int {
	if n <= 0 || size <= 0 {
		return nil
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
