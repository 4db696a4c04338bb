package credential

import (
	"context"
	"errors"

	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// Resolver turns a (workspace, credential) pair into decrypted auth material.
// The workspace ownership check runs strictly before decryption: a caller
// outside the owning workspace gets an AuthorizationError without the sealed
// blob ever being opened, so resolution cannot be used as a decryption
// oracle. Every call decrypts afresh and returns a new map; nothing is
// cached.
type Resolver struct {
	Credentials domain.CredentialRepository
	Sealer      Sealer
}

// NewResolver builds a Resolver over the credential repository.
func NewResolver(credentials domain.CredentialRepository, sealer Sealer) *Resolver {
	return &Resolver{Credentials: credentials, Sealer: sealer}
}

// Resolve fetches, authorizes and decrypts the credential.
func (r *Resolver) Resolve(ctx context.Context, workspaceID, credentialID string) (*model.ResolvedCredential, error) {
	if workspaceID == "" {
		return nil, model.NewValidationError("workspaceID", "is required")
	}
	if credentialID == "" {
		return nil, model.NewValidationError("credentialID", "is required")
	}

	cred, err := r.Credentials.Get(ctx, credentialID)
	if err != nil {
		if errors.Is(err, model.ErrCredentialNotFound) {
			return nil, model.NewNotFoundError("credential", credentialID)
		}
		return nil, err
	}

	// Ownership is checked before the blob is touched.
	if cred.WorkspaceID != workspaceID {
		logging.FromContext(ctx).Warn(ctx, "credential access denied",
			"credential_id", credentialID, "workspace_id", workspaceID)
		return nil, model.NewAuthorizationError(
			"credential " + credentialID + " does not belong to workspace " + workspaceID)
	}

	data, err := r.Sealer.Open(cred.Encrypted)
	if err != nil {
		return nil, &model.DecryptionError{Err: err}
	}

	return &model.ResolvedCredential{
		ID:       cred.ID,
		Provider: cred.Provider,
		Data:     data,
	}, nil
}
