package rdb

import (
	"context"

	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
	"gorm.io/gorm"
)

// CredentialRepository is a GORM-backed implementation of domain.CredentialRepository.
type CredentialRepository struct{ db *gorm.DB }

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func credentialToRecord(c *model.Credential) *CredentialRecord {
	return &CredentialRecord{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		Provider:    string(c.Provider),
		Name:        c.Name,
		Encrypted:   c.Encrypted,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func credentialToModel(r *CredentialRecord) *model.Credential {
	return &model.Credential{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		Provider:    model.ProviderKind(r.Provider),
		Name:        r.Name,
		Encrypted:   r.Encrypted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *CredentialRepository) Create(ctx context.Context, c *model.Credential) error {
	rec := credentialToRecord(c)
	if rec.ID == "" {
		rec.ID = naming.NewID("cred")
		c.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CredentialRepository) Get(ctx context.Context, id string) (*model.Credential, error) {
	var rec CredentialRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, model.ErrCredentialNotFound
		}
		return nil, err
	}
	return credentialToModel(&rec), nil
}

func (r *CredentialRepository) List(ctx context.Context, workspaceID string) ([]*model.Credential, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	}
	var recs []CredentialRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Credential, 0, len(recs))
	for i := range recs {
		out = append(out, credentialToModel(&recs[i]))
	}
	return out, nil
}

func (r *CredentialRepository) Update(ctx context.Context, c *model.Credential) error {
	rec := credentialToRecord(c)
	return r.db.WithContext(ctx).Model(&CredentialRecord{}).Where("id = ?", rec.ID).Updates(rec).Error
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&CredentialRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrCredentialNotFound
	}
	return nil
}

var _ domain.CredentialRepository = (*CredentialRepository)(nil)
