package workspace

import (
	"context"
	"time"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// UpdateInput names the workspace and the fields to change. Nil fields are
// left untouched.
type UpdateInput struct {
	WorkspaceID string  `json:"workspace_id"`
	Name        *string `json:"name,omitempty"`
}

// UpdateOutput wraps the updated workspace.
type UpdateOutput struct {
	Workspace *model.Workspace `json:"workspace"`
}

// Update applies the requested changes. A rename goes through the same name
// validation as Create. When nothing changes the stored record is returned
// as is, without touching UpdatedAt.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	existing, err := u.Repos.Workspace.Get(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	changed := false
	if in.Name != nil && existing.Name != *in.Name {
		if err := naming.ValidateWorkspaceName(*in.Name); err != nil {
			return nil, model.NewValidationError("name", err.Error())
		}
		existing.Name = *in.Name
		changed = true
	}
	if changed {
		existing.UpdatedAt = time.Now().UTC()
		if err := u.Repos.Workspace.Update(ctx, existing); err != nil {
			return nil, err
		}
	}
	return &UpdateOutput{Workspace: existing}, nil
}
