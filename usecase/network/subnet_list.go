package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// SubnetListInput represents a query for a VPC's subnets.
type SubnetListInput struct {
	Scope model.ProviderScope `json:"scope"`
	VPCID string              `json:"vpcID"`
}

// SubnetListOutput carries the subnets.
type SubnetListOutput struct {
	Subnets []*model.Subnet `json:"subnets"`
}

// SubnetList returns the VPC's subnets.
func (u *UseCase) SubnetList(ctx context.Context, in *SubnetListInput) (*SubnetListOutput, error) {
	if in == nil || in.VPCID == "" {
		return nil, model.NewValidationError("vpcID", "is required")
	}
	subnets, err := u.Networks.SubnetList(ctx, in.Scope, in.VPCID)
	if err != nil {
		return nil, err
	}
	return &SubnetListOutput{Subnets: subnets}, nil
}
