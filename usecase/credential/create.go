package credential

import (
	"context"
	"time"

	"github.com/stratokube/strato/domain/model"
)

// CreateInput contains data to create a credential.
type CreateInput struct {
	// WorkspaceID is the owning workspace.
	WorkspaceID string `json:"workspace_id"`
	// Provider is the cloud vendor this credential authenticates against.
	Provider model.ProviderKind `json:"provider"`
	// Name is the display name.
	Name string `json:"name"`
	// Data is the plaintext auth material. It is sealed before it is stored
	// and never persisted in the clear.
	Data map[string]string `json:"data"`
}

// CreateOutput wraps the created credential. Encrypted is cleared.
type CreateOutput struct {
	// Credential is the newly created entity, metadata only.
	Credential *model.Credential `json:"credential"`
}

// Create validates the auth material for the provider, seals it and persists
// the credential under the owning workspace.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	if in.Name == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	if err := model.ValidateCredentialData(in.Provider, in.Data); err != nil {
		return nil, err
	}
	if _, err := u.Repos.Workspace.Get(ctx, in.WorkspaceID); err != nil {
		return nil, err
	}

	sealed, err := u.Sealer.Seal(in.Data)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &model.Credential{
		WorkspaceID: in.WorkspaceID,
		Provider:    in.Provider,
		Name:        in.Name,
		Encrypted:   sealed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.Repos.Credential.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CreateOutput{Credential: sanitize(c)}, nil
}

// sanitize returns a copy with the sealed blob cleared. Read paths never
// expose ciphertext.
func sanitize(c *model.Credential) *model.Credential {
	cp := *c
	cp.Encrypted = nil
	return &cp
}
