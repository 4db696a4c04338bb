package bulk

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// CancelInput represents a command to cancel a bulk operation.
type CancelInput struct {
	ID string `json:"id"`
}

// CancelOutput carries the snapshot taken right after the cancel request.
type CancelOutput struct {
	Operation *model.BulkOperationSnapshot `json:"operation"`
}

// Cancel requests cooperative cancellation. Targets not yet dispatched are
// marked cancelled; in-flight targets run to completion. Cancelling a
// terminal operation has no effect.
func (u *UseCase) Cancel(ctx context.Context, in *CancelInput) (*CancelOutput, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	snap, err := u.Engine.Cancel(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &CancelOutput{Operation: snap}, nil
}
