package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// VPCCreateInput represents a command to create a VPC.
type VPCCreateInput struct {
	Scope model.ProviderScope `json:"scope"`
	Spec  model.VPCSpec       `json:"spec"`
}

// VPCCreateOutput carries the created VPC.
type VPCCreateOutput struct {
	VPC *model.VPC `json:"vpc"`
}

// VPCCreate creates a VPC (VNet on Azure, network on GCP). Provider-specific
// CIDR requirements are enforced by the driver.
func (u *UseCase) VPCCreate(ctx context.Context, in *VPCCreateInput) (*VPCCreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if err := in.Spec.Validate(); err != nil {
		return nil, err
	}
	if err := naming.ValidateNetworkName(in.Spec.Name); err != nil {
		return nil, model.NewValidationError("name", err.Error())
	}
	v, err := u.Networks.VPCCreate(ctx, in.Scope, &in.Spec)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "vpc", model.EventActionCreated, v.ID, v.State))
	return &VPCCreateOutput{VPC: v}, nil
}
