package credential

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// DeleteInput identifies the credential to delete.
type DeleteInput struct {
	// WorkspaceID is the workspace the caller acts in.
	WorkspaceID string `json:"workspace_id"`
	// CredentialID is the credential identifier.
	CredentialID string `json:"credential_id"`
}

// DeleteOutput is empty; delete returns no entity.
type DeleteOutput struct{}

// Delete removes a credential. Deleting an absent credential succeeds;
// deleting a foreign workspace's credential does not.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	if in.CredentialID == "" {
		return &DeleteOutput{}, nil
	}
	existing, err := u.Repos.Credential.Get(ctx, in.CredentialID)
	if err != nil {
		if model.IsNotFound(err) {
			return &DeleteOutput{}, nil
		}
		return nil, err
	}
	if existing.WorkspaceID != in.WorkspaceID {
		return nil, model.NewAuthorizationError(
			"credential " + in.CredentialID + " does not belong to workspace " + in.WorkspaceID)
	}
	if err := u.Repos.Credential.Delete(ctx, in.CredentialID); err != nil {
		if model.IsNotFound(err) {
			return &DeleteOutput{}, nil
		}
		return nil, err
	}
	return &DeleteOutput{}, nil
}
