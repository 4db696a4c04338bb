package credential

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// GetInput identifies the credential to fetch.
type GetInput struct {
	// WorkspaceID is the workspace the caller acts in.
	WorkspaceID string `json:"workspace_id"`
	// CredentialID is the credential identifier.
	CredentialID string `json:"credential_id"`
}

// GetOutput wraps the retrieved credential, metadata only.
type GetOutput struct {
	// Credential is the fetched entity with the sealed blob cleared.
	Credential *model.Credential `json:"credential"`
}

// Get retrieves credential metadata. It never decrypts.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	if in.CredentialID == "" {
		return nil, model.NewValidationError("credentialID", "is required")
	}
	c, err := u.Repos.Credential.Get(ctx, in.CredentialID)
	if err != nil {
		return nil, err
	}
	if c.WorkspaceID != in.WorkspaceID {
		return nil, model.NewAuthorizationError(
			"credential " + in.CredentialID + " does not belong to workspace " + in.WorkspaceID)
	}
	return &GetOutput{Credential: sanitize(c)}, nil
}
