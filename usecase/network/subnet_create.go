package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// SubnetCreateInput represents a command to create a subnet.
type SubnetCreateInput struct {
	Scope model.ProviderScope `json:"scope"`
	Spec  model.SubnetSpec    `json:"spec"`
}

// SubnetCreateOutput carries the created subnet.
type SubnetCreateOutput struct {
	Subnet *model.Subnet `json:"subnet"`
}

// SubnetCreate creates a subnet inside the spec's VPC.
func (u *UseCase) SubnetCreate(ctx context.Context, in *SubnetCreateInput) (*SubnetCreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if err := in.Spec.Validate(); err != nil {
		return nil, err
	}
	if err := naming.ValidateNetworkName(in.Spec.Name); err != nil {
		return nil, model.NewValidationError("name", err.Error())
	}
	s, err := u.Networks.SubnetCreate(ctx, in.Scope, &in.Spec)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "subnet", model.EventActionCreated, s.ID, ""))
	return &SubnetCreateOutput{Subnet: s}, nil
}
