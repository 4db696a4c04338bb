// Package parallel provides bounded concurrent execution of independent
// tasks. Callers choose the worker limit; tasks acquire a semaphore slot
// before running so at most that many execute at once.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// minDefaultWorkers is the floor for the CPU-derived default.
	minDefaultWorkers = 2
	// maxDefaultWorkers caps the default to avoid overwhelming provider APIs.
	maxDefaultWorkers = 8
)

// DefaultWorkers returns the default worker limit based on available CPUs.
func DefaultWorkers() int64 {
	n := int64(runtime.NumCPU())
	if n < minDefaultWorkers {
		n = minDefaultWorkers
	}
	if n > maxDefaultWorkers {
		n = maxDefaultWorkers
	}
	return n
}

// Task is a unit of work executed by an Executor.
type Task func(ctx context.Context) error

// Executor runs tasks concurrently with a fixed upper bound on parallelism.
type Executor struct {
	workers int64
}

// NewExecutor creates an executor with the given worker limit.
// If workers <= 0, DefaultWorkers() is used.
func NewExecutor(workers int64) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Executor{workers: workers}
}

// Workers returns the configured worker limit.
func (e *Executor) Workers() int64 {
	return e.workers
}

// Execute runs all tasks and waits for them to finish. The first task error
// cancels the group context handed to the remaining tasks; tasks that manage
// their own failures should return nil. A single task runs inline.
func (e *Executor) Execute(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if len(tasks) == 1 {
		return tasks[0](ctx)
	}

	sem := semaphore.NewWeighted(e.workers)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return fmt.Errorf("acquire worker slot: %w", err)
			}
			defer sem.Release(1)
			return task(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("parallel execution: %w", err)
	}
	return nil
}

// Results collects values and errors from concurrent tasks.
type Results[T any] struct {
	mu     sync.Mutex
	values []T
	errs   []error
}

// NewResults creates an empty Results collector.
func NewResults[T any]() *Results[T] {
	return &Results[T]{}
}

// Add appends a result value.
func (r *Results[T]) Add(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
}

// AddError appends an error.
func (r *Results[T]) AddError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Values returns all collected values.
func (r *Results[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values
}

// Err returns the first collected error, or nil.
func (r *Results[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[0]
}
