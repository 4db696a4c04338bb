// Package bulk fans one mutation out over many targets with bounded
// concurrency. Progress lives in owned in-memory operation records; the
// repository only keeps terminal summaries.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
	"github.com/stratokube/strato/internal/naming"
	"github.com/stratokube/strato/internal/parallel"
)

const (
	minWorkers     = 5
	maxWorkers     = 10
	defaultWorkers = 5

	// terminalRetention is how long a finished operation stays in the live
	// registry before only the persisted summary remains queryable.
	terminalRetention = 10 * time.Minute
)

// UnitOfWork applies the operation to a single target.
type UnitOfWork func(ctx context.Context, target string) error

// Engine runs bulk operations. History and Notifier may be nil; the engine
// then keeps no terminal summaries and publishes no events.
type Engine struct {
	History  domain.BulkOperationRepository
	Notifier model.Notifier

	workers   int
	retention time.Duration

	mu   sync.Mutex
	live map[string]*model.BulkOperation
}

// NewEngine builds an engine with the worker limit clamped into
// [minWorkers, maxWorkers]. A non-positive limit selects the default.
func NewEngine(history domain.BulkOperationRepository, notifier model.Notifier, workers int) *Engine {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers < minWorkers {
		workers = minWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &Engine{
		History:   history,
		Notifier:  notifier,
		workers:   workers,
		retention: terminalRetention,
		live:      make(map[string]*model.BulkOperation),
	}
}

// Workers returns the effective worker limit.
func (e *Engine) Workers() int { return e.workers }

// Submit validates the request, registers the operation and starts the
// fan-out in the background, returning the live handle immediately. Callers
// follow progress through Status, Wait or the handle itself.
//
// Cancellation is cooperative: a cancel request, or cancellation of the
// submitting context, marks targets that have not been dispatched yet as
// cancelled. Units already in flight always run to completion.
func (e *Engine) Submit(ctx context.Context, scope model.ProviderScope, kind model.BulkOperationKind, resourceKind string, targets []string, unit UnitOfWork) (*model.BulkOperation, error) {
	if !kind.Valid() {
		return nil, model.NewValidationError("kind", "must be delete or tag")
	}
	if resourceKind == "" {
		return nil, model.NewValidationError("resourceKind", "is required")
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, model.NewValidationError("targets", "at least one target is required")
	}
	if unit == nil {
		return nil, model.NewValidationError("unitOfWork", "is required")
	}

	id, err := naming.NewCompactID()
	if err != nil {
		return nil, fmt.Errorf("generate operation id: %w", err)
	}
	op := model.NewBulkOperation("bulk-"+id, kind, resourceKind, scope, targets)

	e.mu.Lock()
	e.live[op.ID] = op
	e.mu.Unlock()

	e.publish(ctx, bulkEvent(op, model.EventActionStarted))

	// The work context is detached from the submitter's cancellation so
	// in-flight provider calls are never torn down mid-request. The
	// submitter's Done channel still acts as a cancel signal at dispatch
	// boundaries.
	go e.run(context.WithoutCancel(ctx), ctx.Done(), op, unit)
	return op, nil
}

func (e *Engine) run(ctx context.Context, cancelled <-chan struct{}, op *model.BulkOperation, unit UnitOfWork) {
	op.MarkRunning()

	tasks := make([]parallel.Task, 0, len(op.Targets))
	for _, target := range op.Targets {
		tasks = append(tasks, func(tctx context.Context) error {
			if op.CancelRequested() || isClosed(cancelled) {
				op.MarkCancelled(target)
				return nil
			}
			if err := unit(tctx, target); err != nil {
				op.MarkFailed(target, err)
			} else {
				op.MarkCompleted(target)
			}
			// Failures are recorded on the operation, never propagated, so
			// one bad target cannot cancel its siblings.
			return nil
		})
	}
	_ = parallel.NewExecutor(int64(e.workers)).Execute(ctx, tasks...)
	e.finish(ctx, op)
}

// finish publishes the single terminal event, persists the summary and
// schedules the registry sweep. It runs exactly once per operation, after
// every target has landed in a bucket.
func (e *Engine) finish(ctx context.Context, op *model.BulkOperation) {
	snap := op.Snapshot()

	action := model.EventActionCompleted
	if snap.Status == model.BulkStatusCancelled {
		action = model.EventActionCancelled
	}
	e.publish(ctx, bulkEvent(op, action))

	if e.History != nil {
		if err := e.History.Save(ctx, &snap); err != nil {
			logging.FromContext(ctx).Warn(ctx, "bulk summary save failed", "operation", op.ID, "error", err)
		}
	}

	time.AfterFunc(e.retention, func() {
		e.mu.Lock()
		delete(e.live, op.ID)
		e.mu.Unlock()
	})
}

// Lookup returns the live operation handle, if it has not been swept.
func (e *Engine) Lookup(id string) (*model.BulkOperation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	op, ok := e.live[id]
	return op, ok
}

// Status returns the operation's current snapshot, falling back to the
// persisted summary once the live record has been swept.
func (e *Engine) Status(ctx context.Context, id string) (*model.BulkOperationSnapshot, error) {
	if id == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	if op, ok := e.Lookup(id); ok {
		snap := op.Snapshot()
		return &snap, nil
	}
	if e.History == nil {
		return nil, model.NewNotFoundError("bulk operation", id)
	}
	snap, err := e.History.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBulkOperationNotFound) {
			return nil, model.NewNotFoundError("bulk operation", id)
		}
		return nil, err
	}
	return snap, nil
}

// Cancel requests cooperative cancellation and returns the current snapshot.
// Cancelling a terminal or already swept operation has no effect.
func (e *Engine) Cancel(ctx context.Context, id string) (*model.BulkOperationSnapshot, error) {
	if op, ok := e.Lookup(id); ok {
		op.Cancel()
		snap := op.Snapshot()
		return &snap, nil
	}
	return e.Status(ctx, id)
}

// Wait blocks until the operation is terminal or ctx ends, then returns the
// terminal snapshot.
func (e *Engine) Wait(ctx context.Context, id string) (*model.BulkOperationSnapshot, error) {
	if op, ok := e.Lookup(id); ok {
		if err := op.Wait(ctx); err != nil {
			return nil, err
		}
		snap := op.Snapshot()
		return &snap, nil
	}
	return e.Status(ctx, id)
}

// List merges live operations with persisted summaries, newest first. Live
// records win on ID collisions.
func (e *Engine) List(ctx context.Context, workspaceID string) ([]*model.BulkOperationSnapshot, error) {
	seen := make(map[string]bool)
	var out []*model.BulkOperationSnapshot

	e.mu.Lock()
	for _, op := range e.live {
		if workspaceID != "" && op.Scope.WorkspaceID != workspaceID {
			continue
		}
		snap := op.Snapshot()
		out = append(out, &snap)
		seen[op.ID] = true
	}
	e.mu.Unlock()

	if e.History != nil {
		hist, err := e.History.List(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		for _, s := range hist {
			if !seen[s.ID] {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (e *Engine) publish(ctx context.Context, ev *model.Event) {
	if e.Notifier == nil {
		return
	}
	if err := e.Notifier.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn(ctx, "event publish failed", "topic", ev.Topic(), "error", err)
	}
}

func bulkEvent(op *model.BulkOperation, action string) *model.Event {
	snap := op.Snapshot()
	ev := model.NewEvent(op.Scope, "bulk_operation", action, op.ID, string(snap.Status))
	ev.Data = map[string]any{
		"kind":      string(op.Kind),
		"total":     snap.Total,
		"completed": snap.Completed,
		"failed":    snap.Failed,
		"cancelled": snap.Cancelled,
	}
	return ev
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
