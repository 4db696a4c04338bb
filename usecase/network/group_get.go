package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// GroupGetInput represents a query for one security group.
type GroupGetInput struct {
	Scope model.ProviderScope `json:"scope"`
	ID    string              `json:"id"`
}

// GroupGetOutput carries the group with its current rules.
type GroupGetOutput struct {
	Group *model.SecurityGroup `json:"group"`
}

// GroupGet returns the security group by its provider identifier.
func (u *UseCase) GroupGet(ctx context.Context, in *GroupGetInput) (*GroupGetOutput, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	g, err := u.Networks.SecurityGroupGet(ctx, in.Scope, in.ID)
	if err != nil {
		return nil, err
	}
	return &GroupGetOutput{Group: g}, nil
}
