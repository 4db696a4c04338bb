package bulk

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// SubmitDeleteInput represents a command to delete many clusters at once.
type SubmitDeleteInput struct {
	Scope   model.ProviderScope `json:"scope"`
	Targets []string            `json:"targets"`
}

// SubmitTagInput represents a command to merge tags onto many clusters at
// once.
type SubmitTagInput struct {
	Scope   model.ProviderScope `json:"scope"`
	Targets []string            `json:"targets"`
	Tags    map[string]string   `json:"tags"`
}

// SubmitOutput carries the handle of the accepted operation. Operation is
// live; callers may Wait on it or poll Status with the snapshot's ID.
type SubmitOutput struct {
	Operation *model.BulkOperation        `json:"-"`
	Snapshot  model.BulkOperationSnapshot `json:"operation"`
}

// SubmitDelete starts a bulk cluster deletion and returns immediately.
// Per-target deletions are idempotent: a target that is already gone counts
// as completed.
func (u *UseCase) SubmitDelete(ctx context.Context, in *SubmitDeleteInput) (*SubmitOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	op, err := u.Engine.Submit(ctx, in.Scope, model.BulkOperationDelete, "cluster", in.Targets,
		func(ctx context.Context, target string) error {
			if err := u.Clusters.ClusterDelete(ctx, in.Scope, target); err != nil && !model.IsNotFound(err) {
				return err
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &SubmitOutput{Operation: op, Snapshot: op.Snapshot()}, nil
}

// SubmitTag starts a bulk cluster tagging and returns immediately.
func (u *UseCase) SubmitTag(ctx context.Context, in *SubmitTagInput) (*SubmitOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if len(in.Tags) == 0 {
		return nil, model.NewValidationError("tags", "at least one tag is required")
	}
	op, err := u.Engine.Submit(ctx, in.Scope, model.BulkOperationTag, "cluster", in.Targets,
		func(ctx context.Context, target string) error {
			return u.Clusters.ClusterSetTags(ctx, in.Scope, target, in.Tags)
		})
	if err != nil {
		return nil, err
	}
	return &SubmitOutput{Operation: op, Snapshot: op.Snapshot()}, nil
}
