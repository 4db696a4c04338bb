package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// GroupListInput represents a query for a VPC's security groups.
type GroupListInput struct {
	Scope model.ProviderScope `json:"scope"`
	VPCID string              `json:"vpcID"`
}

// GroupListOutput carries the groups.
type GroupListOutput struct {
	Groups []*model.SecurityGroup `json:"groups"`
}

// GroupList returns the security groups associated with the VPC.
func (u *UseCase) GroupList(ctx context.Context, in *GroupListInput) (*GroupListOutput, error) {
	if in == nil || in.VPCID == "" {
		return nil, model.NewValidationError("vpcID", "is required")
	}
	groups, err := u.Networks.SecurityGroupList(ctx, in.Scope, in.VPCID)
	if err != nil {
		return nil, err
	}
	return &GroupListOutput{Groups: groups}, nil
}
