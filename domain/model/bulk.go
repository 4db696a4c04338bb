package model

import (
	"context"
	"sync"
	"time"
)

// BulkOperationKind names the mutation fanned out over the targets.
type BulkOperationKind string

const (
	BulkOperationDelete BulkOperationKind = "delete"
	BulkOperationTag    BulkOperationKind = "tag"
)

// Valid reports whether k is a supported bulk kind.
func (k BulkOperationKind) Valid() bool {
	return k == BulkOperationDelete || k == BulkOperationTag
}

// BulkOperationStatus is the state machine of a bulk operation:
// Pending -> Running -> Completed | Cancelled. Terminal states never
// transition back.
type BulkOperationStatus string

const (
	BulkStatusPending   BulkOperationStatus = "PENDING"
	BulkStatusRunning   BulkOperationStatus = "RUNNING"
	BulkStatusCompleted BulkOperationStatus = "COMPLETED"
	BulkStatusCancelled BulkOperationStatus = "CANCELLED"
)

// Terminal reports whether the status is final.
func (s BulkOperationStatus) Terminal() bool {
	return s == BulkStatusCompleted || s == BulkStatusCancelled
}

// BulkOperation tracks one request fanned out over N targets. The record
// owns its counters: workers mutate them only through the synchronized Mark
// methods, and the record is handed to callers as the operation handle.
//
// Counter invariant: completed+failed+cancelled <= total at every instant,
// with equality exactly at completion. Every target lands in exactly one
// bucket.
type BulkOperation struct {
	ID           string
	Kind         BulkOperationKind
	ResourceKind string
	Scope        ProviderScope
	Targets      []string
	StartedAt    time.Time

	mu         sync.Mutex
	status     BulkOperationStatus
	completed  int
	failed     int
	cancelled  int
	failures   []TargetFailure
	cancelFlag bool
	finishedAt time.Time
	done       chan struct{}
}

// NewBulkOperation returns a Pending operation over the given targets.
func NewBulkOperation(id string, kind BulkOperationKind, resourceKind string, scope ProviderScope, targets []string) *BulkOperation {
	return &BulkOperation{
		ID:           id,
		Kind:         kind,
		ResourceKind: resourceKind,
		Scope:        scope,
		Targets:      append([]string(nil), targets...),
		StartedAt:    time.Now().UTC(),
		status:       BulkStatusPending,
		done:         make(chan struct{}),
	}
}

// MarkRunning transitions Pending -> Running. It is a no-op once the
// operation left Pending.
func (o *BulkOperation) MarkRunning() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == BulkStatusPending {
		o.status = BulkStatusRunning
	}
}

// MarkCompleted counts one successfully finished target.
func (o *BulkOperation) MarkCompleted(target string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed++
	o.finishLocked()
}

// MarkFailed counts one failed target and records its reason.
func (o *BulkOperation) MarkFailed(target string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed++
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	o.failures = append(o.failures, TargetFailure{Target: target, Reason: reason})
	o.finishLocked()
}

// MarkCancelled counts one target that was never dispatched.
func (o *BulkOperation) MarkCancelled(target string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelled++
	o.finishLocked()
}

// finishLocked declares completion exactly when the buckets cover every
// target. Caller holds o.mu.
func (o *BulkOperation) finishLocked() {
	if o.status.Terminal() {
		return
	}
	if o.completed+o.failed+o.cancelled < len(o.Targets) {
		return
	}
	if o.cancelled > 0 {
		o.status = BulkStatusCancelled
	} else {
		o.status = BulkStatusCompleted
	}
	o.finishedAt = time.Now().UTC()
	close(o.done)
}

// Cancel requests cooperative cancellation. Targets not yet dispatched are
// marked cancelled at their dispatch boundary; in-flight work always runs to
// completion.
func (o *BulkOperation) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelFlag = true
}

// CancelRequested reports whether Cancel was called.
func (o *BulkOperation) CancelRequested() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelFlag
}

// Done returns a channel closed at the terminal transition.
func (o *BulkOperation) Done() <-chan struct{} { return o.done }

// Wait blocks until the operation is terminal or ctx ends.
func (o *BulkOperation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns nil when every target completed, or a PartialFailureError
// carrying the tri-state summary otherwise. Only meaningful once terminal.
func (o *BulkOperation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failed == 0 && o.cancelled == 0 {
		return nil
	}
	return &PartialFailureError{
		Completed: o.completed,
		Failed:    o.failed,
		Cancelled: o.cancelled,
		Failures:  append([]TargetFailure(nil), o.failures...),
	}
}

// BulkOperationSnapshot is a point-in-time copy of an operation's progress.
type BulkOperationSnapshot struct {
	ID           string
	Kind         BulkOperationKind
	ResourceKind string
	Scope        ProviderScope
	Status       BulkOperationStatus
	Total        int
	Completed    int
	Failed       int
	Cancelled    int
	Failures     []TargetFailure
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Snapshot copies the counters under the lock.
func (o *BulkOperation) Snapshot() BulkOperationSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return BulkOperationSnapshot{
		ID:           o.ID,
		Kind:         o.Kind,
		ResourceKind: o.ResourceKind,
		Scope:        o.Scope,
		Status:       o.status,
		Total:        len(o.Targets),
		Completed:    o.completed,
		Failed:       o.failed,
		Cancelled:    o.cancelled,
		Failures:     append([]TargetFailure(nil), o.failures...),
		StartedAt:    o.StartedAt,
		FinishedAt:   o.finishedAt,
	}
}
