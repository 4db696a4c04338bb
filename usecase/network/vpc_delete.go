package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// VPCDeleteInput represents a command to delete a VPC.
type VPCDeleteInput struct {
	Scope model.ProviderScope `json:"scope"`
	ID    string              `json:"id"`
}

// VPCDelete removes the VPC. A VPC that is already gone deletes successfully
// and produces no event.
func (u *UseCase) VPCDelete(ctx context.Context, in *VPCDeleteInput) error {
	if in == nil || in.ID == "" {
		return model.NewValidationError("id", "is required")
	}
	if err := u.Networks.VPCDelete(ctx, in.Scope, in.ID); err != nil {
		if model.IsNotFound(err) {
			return nil
		}
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "vpc", model.EventActionDeleted, in.ID, ""))
	return nil
}
