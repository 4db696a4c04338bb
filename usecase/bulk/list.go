package bulk

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// ListInput represents a query for a workspace's bulk operations.
type ListInput struct {
	// WorkspaceID filters operations; empty lists every workspace.
	WorkspaceID string `json:"workspaceID,omitempty"`
}

// ListOutput carries the operations, newest first.
type ListOutput struct {
	Operations []*model.BulkOperationSnapshot `json:"operations"`
}

// List returns live operations merged with the persisted history.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		in = &ListInput{}
	}
	ops, err := u.Engine.List(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Operations: ops}, nil
}
