package credential

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// VerifyInput identifies the credential and the region to verify against.
type VerifyInput struct {
	// WorkspaceID is the workspace the caller acts in.
	WorkspaceID string `json:"workspace_id"`
	// CredentialID is the credential identifier.
	CredentialID string `json:"credential_id"`
	// Region is the provider region the probe call runs in.
	Region string `json:"region"`
}

// VerifyOutput reports whether the provider accepted the credential.
type VerifyOutput struct {
	// OK is true when the probe call succeeded.
	OK bool `json:"ok"`
	// Message carries the provider error when OK is false.
	Message string `json:"message,omitempty"`
}

// Verify proves the credential works by listing clusters with it. An
// authorization or decryption failure is returned as an error; a provider
// rejection is reported in the output so callers can distinguish a bad
// secret from a bad request.
func (u *UseCase) Verify(ctx context.Context, in *VerifyInput) (*VerifyOutput, error) {
	if in == nil || in.WorkspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	if in.CredentialID == "" {
		return nil, model.NewValidationError("credentialID", "is required")
	}
	if in.Region == "" {
		return nil, model.NewValidationError("region", "is required")
	}

	meta, err := u.Repos.Credential.Get(ctx, in.CredentialID)
	if err != nil {
		return nil, err
	}
	if meta.WorkspaceID != in.WorkspaceID {
		return nil, model.NewAuthorizationError(
			"credential " + in.CredentialID + " does not belong to workspace " + in.WorkspaceID)
	}

	scope := model.ProviderScope{
		WorkspaceID:  in.WorkspaceID,
		CredentialID: in.CredentialID,
		Provider:     meta.Provider,
		Region:       in.Region,
	}
	if _, err := u.Clusters.ClusterList(ctx, scope); err != nil {
		if model.IsValidation(err) || model.IsAuthorization(err) {
			return nil, err
		}
		return &VerifyOutput{OK: false, Message: err.Error()}, nil
	}
	return &VerifyOutput{OK: true}, nil
}
