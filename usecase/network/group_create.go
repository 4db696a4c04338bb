package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// GroupCreateInput represents a command to create a security group.
type GroupCreateInput struct {
	Scope model.ProviderScope     `json:"scope"`
	Spec  model.SecurityGroupSpec `json:"spec"`
}

// GroupCreateOutput carries the created group.
type GroupCreateOutput struct {
	Group *model.SecurityGroup `json:"group"`
}

// GroupCreate creates a security group with its initial rules. Every rule is
// validated before the provider is contacted.
func (u *UseCase) GroupCreate(ctx context.Context, in *GroupCreateInput) (*GroupCreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if err := in.Spec.Validate(); err != nil {
		return nil, err
	}
	if err := naming.ValidateNetworkName(in.Spec.Name); err != nil {
		return nil, model.NewValidationError("name", err.Error())
	}
	g, err := u.Networks.SecurityGroupCreate(ctx, in.Scope, &in.Spec)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "security_group", model.EventActionCreated, g.ID, ""))
	return &GroupCreateOutput{Group: g}, nil
}
