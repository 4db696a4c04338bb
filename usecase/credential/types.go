// Package credential manages provider credentials sealed at rest and their
// resolution into usable auth material. Resolution checks workspace ownership
// before any decryption so a foreign tenant can never probe the cipher.
package credential

import (
	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/domain/model"
)

// Sealer encrypts and decrypts credential payloads. Satisfied by
// internal/secrets.Sealer.
type Sealer interface {
	Seal(data map[string]string) ([]byte, error)
	Open(blob []byte) (map[string]string, error)
}

// Repos holds repositories needed for credential use cases.
type Repos struct {
	Workspace  domain.WorkspaceRepository
	Credential domain.CredentialRepository
}

// UseCase wires repositories and the sealer for credential use cases.
// Clusters is only needed by Verify and may be nil otherwise.
type UseCase struct {
	Repos    *Repos
	Sealer   Sealer
	Clusters model.ClusterPort
}
