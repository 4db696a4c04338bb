package credential

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// ListInput scopes the listing to a workspace.
type ListInput struct {
	// WorkspaceID is the workspace whose credentials are listed.
	WorkspaceID string `json:"workspace_id"`
}

// ListOutput wraps listed credentials, metadata only.
type ListOutput struct {
	// Credentials is the collection returned with sealed blobs cleared.
	Credentials []*model.Credential `json:"credentials"`
}

// List returns the workspace's credentials. It never decrypts.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	items, err := u.Repos.Credential.List(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Credential, 0, len(items))
	for _, c := range items {
		out = append(out, sanitize(c))
	}
	return &ListOutput{Credentials: out}, nil
}
