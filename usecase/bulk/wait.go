package bulk

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// WaitInput represents a command to block until a bulk operation finishes.
type WaitInput struct {
	ID string `json:"id"`
}

// WaitOutput carries the terminal snapshot.
type WaitOutput struct {
	Operation *model.BulkOperationSnapshot `json:"operation"`
}

// Wait blocks until the operation reaches a terminal state or ctx ends.
func (u *UseCase) Wait(ctx context.Context, in *WaitInput) (*WaitOutput, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	snap, err := u.Engine.Wait(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &WaitOutput{Operation: snap}, nil
}
