package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// VPCGetInput represents a query for one VPC.
type VPCGetInput struct {
	Scope model.ProviderScope `json:"scope"`
	ID    string              `json:"id"`
}

// VPCGetOutput carries the VPC.
type VPCGetOutput struct {
	VPC *model.VPC `json:"vpc"`
}

// VPCGet returns the VPC by its provider identifier.
func (u *UseCase) VPCGet(ctx context.Context, in *VPCGetInput) (*VPCGetOutput, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	v, err := u.Networks.VPCGet(ctx, in.Scope, in.ID)
	if err != nil {
		return nil, err
	}
	return &VPCGetOutput{VPC: v}, nil
}
