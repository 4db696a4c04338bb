package rdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/domain/model"
	"gorm.io/gorm"
)

// BulkOperationRepository is a GORM-backed implementation of
// domain.BulkOperationRepository. Save upserts so the engine can persist a
// snapshot more than once for the same operation.
type BulkOperationRepository struct{ db *gorm.DB }

func NewBulkOperationRepository(db *gorm.DB) *BulkOperationRepository {
	return &BulkOperationRepository{db: db}
}

func bulkOpToRecord(s *model.BulkOperationSnapshot) (*BulkOperationRecord, error) {
	failures, err := json.Marshal(s.Failures)
	if err != nil {
		return nil, fmt.Errorf("encode failures: %w", err)
	}
	return &BulkOperationRecord{
		ID:           s.ID,
		Kind:         string(s.Kind),
		ResourceKind: s.ResourceKind,
		WorkspaceID:  s.Scope.WorkspaceID,
		CredentialID: s.Scope.CredentialID,
		Provider:     string(s.Scope.Provider),
		Region:       s.Scope.Region,
		Status:       string(s.Status),
		Total:        s.Total,
		Completed:    s.Completed,
		Failed:       s.Failed,
		Cancelled:    s.Cancelled,
		Failures:     string(failures),
		StartedAt:    s.StartedAt,
		FinishedAt:   s.FinishedAt,
	}, nil
}

func bulkOpToModel(r *BulkOperationRecord) (*model.BulkOperationSnapshot, error) {
	var failures []model.TargetFailure
	if r.Failures != "" {
		if err := json.Unmarshal([]byte(r.Failures), &failures); err != nil {
			return nil, fmt.Errorf("decode failures: %w", err)
		}
	}
	return &model.BulkOperationSnapshot{
		ID:           r.ID,
		Kind:         model.BulkOperationKind(r.Kind),
		ResourceKind: r.ResourceKind,
		Scope: model.ProviderScope{
			WorkspaceID:  r.WorkspaceID,
			CredentialID: r.CredentialID,
			Provider:     model.ProviderKind(r.Provider),
			Region:       r.Region,
		},
		Status:     model.BulkOperationStatus(r.Status),
		Total:      r.Total,
		Completed:  r.Completed,
		Failed:     r.Failed,
		Cancelled:  r.Cancelled,
		Failures:   failures,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}, nil
}

func (r *BulkOperationRepository) Save(ctx context.Context, s *model.BulkOperationSnapshot) error {
	rec, err := bulkOpToRecord(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *BulkOperationRepository) Get(ctx context.Context, id string) (*model.BulkOperationSnapshot, error) {
	var rec BulkOperationRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, model.ErrBulkOperationNotFound
		}
		return nil, err
	}
	return bulkOpToModel(&rec)
}

func (r *BulkOperationRepository) List(ctx context.Context, workspaceID string) ([]*model.BulkOperationSnapshot, error) {
	q := r.db.WithContext(ctx).Order("started_at ASC")
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	}
	var recs []BulkOperationRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.BulkOperationSnapshot, 0, len(recs))
	for i := range recs {
		s, err := bulkOpToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *BulkOperationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&BulkOperationRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrBulkOperationNotFound
	}
	return nil
}

var _ domain.BulkOperationRepository = (*BulkOperationRepository)(nil)
