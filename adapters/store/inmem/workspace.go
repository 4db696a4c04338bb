package inmem

import (
	"context"
	"sync"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// WorkspaceRepository is a thread-safe in-memory implementation. The map
// holds private copies and reads hand out copies, so callers never share
// memory with the store.
type WorkspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[string]*model.Workspace
}

func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{
		workspaces: make(map[string]*model.Workspace),
	}
}

func (r *WorkspaceRepository) Create(_ context.Context, w *model.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		w.ID = naming.NewID("ws")
	}
	cp := *w
	r.workspaces[w.ID] = &cp
	return nil
}

func (r *WorkspaceRepository) Get(_ context.Context, id string) (*model.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workspaces[id]
	if !ok {
		return nil, model.ErrWorkspaceNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *WorkspaceRepository) List(_ context.Context) ([]*model.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Workspace, 0, len(r.workspaces))
	for _, v := range r.workspaces {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *WorkspaceRepository) Update(_ context.Context, w *model.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.workspaces[w.ID]
	if !ok {
		return model.ErrWorkspaceNotFound
	}
	cp := *w
	// CreatedAt is immutable once stored.
	cp.CreatedAt = existing.CreatedAt
	r.workspaces[w.ID] = &cp
	return nil
}

func (r *WorkspaceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workspaces[id]; !ok {
		return model.ErrWorkspaceNotFound
	}
	delete(r.workspaces, id)
	return nil
}
