package inmem

import (
	"context"
	"sync"

	"github.com/stratokube/strato/domain/model"
)

// BulkOperationRepository keeps bulk operation summaries in memory.
type BulkOperationRepository struct {
	mu    sync.RWMutex
	items map[string]*model.BulkOperationSnapshot
}

func NewBulkOperationRepository() *BulkOperationRepository {
	return &BulkOperationRepository{items: make(map[string]*model.BulkOperationSnapshot)}
}

func copySnapshot(s *model.BulkOperationSnapshot) *model.BulkOperationSnapshot {
	cp := *s
	cp.Failures = append([]model.TargetFailure(nil), s.Failures...)
	return &cp
}

func (r *BulkOperationRepository) Save(_ context.Context, s *model.BulkOperationSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = copySnapshot(s)
	return nil
}

func (r *BulkOperationRepository) Get(_ context.Context, id string) (*model.BulkOperationSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, model.ErrBulkOperationNotFound
	}
	return copySnapshot(s), nil
}

func (r *BulkOperationRepository) List(_ context.Context, workspaceID string) ([]*model.BulkOperationSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.BulkOperationSnapshot, 0, len(r.items))
	for _, v := range r.items {
		if workspaceID != "" && v.Scope.WorkspaceID != workspaceID {
			continue
		}
		out = append(out, copySnapshot(v))
	}
	return out, nil
}

func (r *BulkOperationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return model.ErrBulkOperationNotFound
	}
	delete(r.items, id)
	return nil
}
