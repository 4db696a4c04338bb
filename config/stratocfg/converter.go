package stratocfg

import (
	"fmt"
	"time"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// Sealer encrypts credential payloads for storage. Satisfied by
// internal/secrets.Sealer.
type Sealer interface {
	Seal(data map[string]string) ([]byte, error)
}

// ToModels converts the configuration to domain models with fresh IDs.
// Credential data is sealed through the given sealer; the returned records
// never carry plaintext auth material.
func (r *Root) ToModels(sealer Sealer) (*model.Workspace, []*model.Credential, error) {
	now := time.Now()

	workspace := &model.Workspace{
		ID:        naming.NewID("ws"),
		Name:      r.Workspace.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	credentials := make([]*model.Credential, 0, len(r.Credentials))
	for _, c := range r.Credentials {
		blob, err := sealer.Seal(c.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to seal credential %s: %w", c.Name, err)
		}
		credentials = append(credentials, &model.Credential{
			ID:          naming.NewID("cred"),
			WorkspaceID: workspace.ID,
			Provider:    model.ProviderKind(c.Provider),
			Name:        c.Name,
			Encrypted:   blob,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return workspace, credentials, nil
}
