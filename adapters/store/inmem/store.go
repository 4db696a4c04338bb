package inmem

import (
	"context"

	"github.com/stratokube/strato/config/stratocfg"
	"github.com/stratokube/strato/domain"
)

// Store provides a unified interface for all in-memory repositories.
type Store struct {
	WorkspaceRepo  *WorkspaceRepository
	CredentialRepo *CredentialRepository
	BulkOpRepo     *BulkOperationRepository
}

// NewStore creates a new in-memory store with all repositories.
func NewStore() *Store {
	return &Store{
		WorkspaceRepo:  NewWorkspaceRepository(),
		CredentialRepo: NewCredentialRepository(),
		BulkOpRepo:     NewBulkOperationRepository(),
	}
}

// LoadFromConfig loads a strato.yml configuration into the memory store.
// Credential data is sealed through the given sealer before it is stored.
func (s *Store) LoadFromConfig(ctx context.Context, cfg *stratocfg.Root, sealer stratocfg.Sealer) error {
	workspace, credentials, err := cfg.ToModels(sealer)
	if err != nil {
		return err
	}

	// Store models in dependency order: workspace before its credentials.
	if err := s.WorkspaceRepo.Create(ctx, workspace); err != nil {
		return err
	}
	for _, cred := range credentials {
		if err := s.CredentialRepo.Create(ctx, cred); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFile loads a strato.yml file into the memory store.
func (s *Store) LoadFromFile(ctx context.Context, path string, sealer stratocfg.Sealer) error {
	cfg, err := stratocfg.Load(path)
	if err != nil {
		return err
	}
	return s.LoadFromConfig(ctx, cfg, sealer)
}

// Repositories returns the store's repositories bundled for builder wiring.
func (s *Store) Repositories() *domain.Repositories {
	return &domain.Repositories{
		Workspace:  s.WorkspaceRepo,
		Credential: s.CredentialRepo,
		BulkOp:     s.BulkOpRepo,
	}
}

// Compile-time assertions
var _ domain.WorkspaceRepository = (*WorkspaceRepository)(nil)
var _ domain.CredentialRepository = (*CredentialRepository)(nil)
var _ domain.BulkOperationRepository = (*BulkOperationRepository)(nil)
