// Package mc provides the Monte Carlo sampling engine: a generic parallel
// trial executor over a single bounded worker pool. One pool is sized once
// per run and shared by every sampling call and by the outer grid fan-out,
// so nested parallel loops cannot multiply concurrency.
package mc

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrently executing trials across the whole
// run. Slots are held only while a trial body runs, never while a caller
// waits on other work, so sampling calls can nest under grid fan-out without
// deadlocking.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// NewPool creates a pool with the given parallelism. Sizes below 1 fall back
// to the available hardware parallelism.
func NewPool(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the configured parallelism.
func (p *Pool) Size() int {
	return p.size
}

// Sample executes trial exactly repetitions times and collects the results
// into a slice of that length, indexed by trial number. Trials are
// independent: each may call generators and the contrast measure but must not
// share mutable state with other trials. Execution order is unspecified and
// concurrent up to the pool size.
//
// There is no error recovery: the first trial failure cancels the remaining
// trials and Sample returns the failure with no partial results.
func Sample[T any](ctx context.Context, pool *Pool, repetitions int, trial func(trial int) (T, error)) ([]T, error) {
	if repetitions < 1 {
		return nil, fmt.Errorf("repetitions must be positive, got %d", repetitions)
	}

	results := make([]T, repetitions)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < repetitions; i++ {
		g.Go(func() error {
			if err := pool.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer pool.sem.Release(1)

			v, err := trial(i)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
