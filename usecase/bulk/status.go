package bulk

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// StatusInput represents a query for one bulk operation.
type StatusInput struct {
	ID string `json:"id"`
}

// StatusOutput carries the operation's progress counters.
type StatusOutput struct {
	Operation *model.BulkOperationSnapshot `json:"operation"`
}

// Status returns the operation's current snapshot. Finished operations
// remain queryable from the persisted history after the live record is
// swept.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	snap, err := u.Engine.Status(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &StatusOutput{Operation: snap}, nil
}
