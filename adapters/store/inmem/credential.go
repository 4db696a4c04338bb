package inmem

import (
	"context"
	"sync"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// CredentialRepository is a thread-safe in-memory implementation. Blobs are
// stored sealed; this layer never sees plaintext credential data.
type CredentialRepository struct {
	mu    sync.RWMutex
	items map[string]*model.Credential
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{items: make(map[string]*model.Credential)}
}

func copyCredential(c *model.Credential) *model.Credential {
	cp := *c
	cp.Encrypted = append([]byte(nil), c.Encrypted...)
	return &cp
}

func (r *CredentialRepository) Create(_ context.Context, c *model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = naming.NewID("cred")
	}
	r.items[c.ID] = copyCredential(c)
	return nil
}

func (r *CredentialRepository) Get(_ context.Context, id string) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	return copyCredential(c), nil
}

func (r *CredentialRepository) List(_ context.Context, workspaceID string) ([]*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Credential, 0, len(r.items))
	for _, v := range r.items {
		if workspaceID != "" && v.WorkspaceID != workspaceID {
			continue
		}
		out = append(out, copyCredential(v))
	}
	return out, nil
}

func (r *CredentialRepository) Update(_ context.Context, c *model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[c.ID]
	if !ok {
		return model.ErrCredentialNotFound
	}
	cp := copyCredential(c)
	cp.CreatedAt = existing.CreatedAt
	r.items[c.ID] = cp
	return nil
}

func (r *CredentialRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return model.ErrCredentialNotFound
	}
	delete(r.items, id)
	return nil
}
