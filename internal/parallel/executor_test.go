package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteRunsAllTasks(t *testing.T) {
	e := NewExecutor(4)
	var count atomic.Int32
	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			count.Add(1)
			return nil
		}
	}
	if err := e.Execute(context.Background(), tasks...); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := count.Load(); got != 20 {
		t.Fatalf("expected 20 tasks to run, got %d", got)
	}
}

func TestExecuteRespectsWorkerBound(t *testing.T) {
	const workers = 3
	e := NewExecutor(workers)

	var mu sync.Mutex
	inFlight, peak := 0, 0

	tasks := make([]Task, 12)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		}
	}
	if err := e.Execute(context.Background(), tasks...); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if peak > workers {
		t.Fatalf("in-flight peak %d exceeded worker bound %d", peak, workers)
	}
}

func TestExecutePropagatesFirstError(t *testing.T) {
	e := NewExecutor(2)
	boom := errors.New("boom")
	err := e.Execute(context.Background(),
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
	)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
}

func TestExecuteSingleTaskRunsInline(t *testing.T) {
	e := NewExecutor(1)
	ran := false
	if err := e.Execute(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Fatalf("single task did not run")
	}
}

func TestExecuteNoTasks(t *testing.T) {
	if err := NewExecutor(0).Execute(context.Background()); err != nil {
		t.Fatalf("Execute with no tasks: %v", err)
	}
}

func TestNewExecutorDefaults(t *testing.T) {
	e := NewExecutor(0)
	if e.Workers() < minDefaultWorkers || e.Workers() > maxDefaultWorkers {
		t.Fatalf("default workers %d outside [%d, %d]", e.Workers(), minDefaultWorkers, maxDefaultWorkers)
	}
}

func TestResultsCollects(t *testing.T) {
	r := NewResults[int]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				r.Add(n)
			} else {
				r.AddError(errors.New("odd"))
			}
		}(i)
	}
	wg.Wait()
	if len(r.Values()) != 5 {
		t.Fatalf("expected 5 values, got %d", len(r.Values()))
	}
	if r.Err() == nil {
		t.Fatalf("expected collected error")
	}
}
