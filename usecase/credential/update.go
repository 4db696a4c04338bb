package credential

import (
	"context"
	"time"

	"github.com/stratokube/strato/domain/model"
)

// UpdateInput specifies credential fields that can be changed. Data, when
// set, replaces the sealed material entirely; the provider binding is
// immutable.
type UpdateInput struct {
	// WorkspaceID is the workspace the caller acts in.
	WorkspaceID string `json:"workspace_id"`
	// CredentialID identifies the credential.
	CredentialID string `json:"credential_id"`
	// Name optionally updates the display name.
	Name *string `json:"name,omitempty"`
	// Data optionally rotates the auth material.
	Data map[string]string `json:"data,omitempty"`
}

// UpdateOutput wraps the updated credential, metadata only.
type UpdateOutput struct {
	// Credential is the updated entity with the sealed blob cleared.
	Credential *model.Credential `json:"credential"`
}

// Update renames a credential or rotates its sealed material.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	if in.CredentialID == "" {
		return nil, model.NewValidationError("credentialID", "is required")
	}
	existing, err := u.Repos.Credential.Get(ctx, in.CredentialID)
	if err != nil {
		return nil, err
	}
	if existing.WorkspaceID != in.WorkspaceID {
		return nil, model.NewAuthorizationError(
			"credential " + in.CredentialID + " does not belong to workspace " + in.WorkspaceID)
	}

	changed := false
	if in.Name != nil && *in.Name != "" && existing.Name != *in.Name {
		existing.Name = *in.Name
		changed = true
	}
	if in.Data != nil {
		if err := model.ValidateCredentialData(existing.Provider, in.Data); err != nil {
			return nil, err
		}
		sealed, err := u.Sealer.Seal(in.Data)
		if err != nil {
			return nil, err
		}
		existing.Encrypted = sealed
		changed = true
	}
	if changed {
		existing.UpdatedAt = time.Now().UTC()
		if err := u.Repos.Credential.Update(ctx, existing); err != nil {
			return nil, err
		}
	}
	return &UpdateOutput{Credential: sanitize(existing)}, nil
}
