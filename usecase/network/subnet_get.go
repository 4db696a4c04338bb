package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// SubnetGetInput represents a query for one subnet.
type SubnetGetInput struct {
	Scope model.ProviderScope `json:"scope"`
	VPCID string              `json:"vpcID"`
	ID    string              `json:"id"`
}

// SubnetGetOutput carries the subnet.
type SubnetGetOutput struct {
	Subnet *model.Subnet `json:"subnet"`
}

// SubnetGet returns the subnet by its identifier within the VPC.
func (u *UseCase) SubnetGet(ctx context.Context, in *SubnetGetInput) (*SubnetGetOutput, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	if in.VPCID == "" {
		return nil, model.NewValidationError("vpcID", "is required")
	}
	s, err := u.Networks.SubnetGet(ctx, in.Scope, in.VPCID, in.ID)
	if err != nil {
		return nil, err
	}
	return &SubnetGetOutput{Subnet: s}, nil
}
