package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// VPCListInput represents a query for the scope's VPCs.
type VPCListInput struct {
	Scope model.ProviderScope `json:"scope"`
}

// VPCListOutput carries the VPCs in the scope's region.
type VPCListOutput struct {
	VPCs []*model.VPC `json:"vpcs"`
}

// VPCList returns the VPCs visible in the scope's account and region.
func (u *UseCase) VPCList(ctx context.Context, in *VPCListInput) (*VPCListOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	vpcs, err := u.Networks.VPCList(ctx, in.Scope)
	if err != nil {
		return nil, err
	}
	return &VPCListOutput{VPCs: vpcs}, nil
}
