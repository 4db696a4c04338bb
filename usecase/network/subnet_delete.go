package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// SubnetDeleteInput represents a command to delete a subnet.
type SubnetDeleteInput struct {
	Scope model.ProviderScope `json:"scope"`
	VPCID string              `json:"vpcID"`
	ID    string              `json:"id"`
}

// SubnetDelete removes the subnet. A subnet that is already gone deletes
// successfully and produces no event.
func (u *UseCase) SubnetDelete(ctx context.Context, in *SubnetDeleteInput) error {
	if in == nil || in.ID == "" {
		return model.NewValidationError("id", "is required")
	}
	if in.VPCID == "" {
		return model.NewValidationError("vpcID", "is required")
	}
	if err := u.Networks.SubnetDelete(ctx, in.Scope, in.VPCID, in.ID); err != nil {
		if model.IsNotFound(err) {
			return nil
		}
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "subnet", model.EventActionDeleted, in.ID, ""))
	return nil
}
