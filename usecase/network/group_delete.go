package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// GroupDeleteInput represents a command to delete a security group.
type GroupDeleteInput struct {
	Scope model.ProviderScope `json:"scope"`
	ID    string              `json:"id"`
}

// GroupDelete removes the security group. A group that is already gone
// deletes successfully and produces no event.
func (u *UseCase) GroupDelete(ctx context.Context, in *GroupDeleteInput) error {
	if in == nil || in.ID == "" {
		return model.NewValidationError("id", "is required")
	}
	if err := u.Networks.SecurityGroupDelete(ctx, in.Scope, in.ID); err != nil {
		if model.IsNotFound(err) {
			return nil
		}
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "security_group", model.EventActionDeleted, in.ID, ""))
	return nil
}
