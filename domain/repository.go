package domain

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// WorkspaceRepository stores and retrieves Workspace aggregates.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *model.Workspace) error
	Get(ctx context.Context, id string) (*model.Workspace, error)
	List(ctx context.Context) ([]*model.Workspace, error)
	Update(ctx context.Context, w *model.Workspace) error
	Delete(ctx context.Context, id string) error
}

// CredentialRepository stores and retrieves Credential aggregates. Get is
// unscoped on purpose: the resolver performs the workspace ownership check
// itself so a mismatch is distinguishable from absence.
type CredentialRepository interface {
	Create(ctx context.Context, c *model.Credential) error
	Get(ctx context.Context, id string) (*model.Credential, error)
	List(ctx context.Context, workspaceID string) ([]*model.Credential, error)
	Update(ctx context.Context, c *model.Credential) error
	Delete(ctx context.Context, id string) error
}

// BulkOperationRepository persists terminal bulk operation summaries.
// Live progress is tracked in memory by the engine; the store only keeps
// history.
type BulkOperationRepository interface {
	Save(ctx context.Context, s *model.BulkOperationSnapshot) error
	Get(ctx context.Context, id string) (*model.BulkOperationSnapshot, error)
	List(ctx context.Context, workspaceID string) ([]*model.BulkOperationSnapshot, error)
	Delete(ctx context.Context, id string) error
}

// Repositories groups the repository interfaces for builder wiring.
type Repositories struct {
	Workspace  WorkspaceRepository
	Credential CredentialRepository
	BulkOp     BulkOperationRepository
}
