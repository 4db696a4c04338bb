package workspace

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// DeleteInput identifies the workspace to delete.
type DeleteInput struct {
	// WorkspaceID is the workspace identifier.
	WorkspaceID string `json:"workspace_id"`
}

// DeleteOutput is empty; delete returns no entity.
type DeleteOutput struct{}

// Delete removes a workspace. Deleting an absent workspace succeeds.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return &DeleteOutput{}, nil
	}
	if err := u.Repos.Workspace.Delete(ctx, in.WorkspaceID); err != nil {
		if model.IsNotFound(err) {
			return &DeleteOutput{}, nil
		}
		return nil, err
	}
	return &DeleteOutput{}, nil
}
