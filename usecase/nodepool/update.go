package nodepool

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// UpdateInput represents a command to update a node pool's mutable fields.
// Only the fields set on Pool are changed; nil fields keep their current
// value. Immutable fields (instance types, disk size, zones) are rejected by
// the provider driver.
type UpdateInput struct {
	Scope       model.ProviderScope `json:"scope"`
	ClusterName string              `json:"clusterName"`
	Pool        model.NodePool      `json:"pool"`
}

// UpdateOutput carries the pool after the update was accepted.
type UpdateOutput struct {
	Pool *model.NodePool `json:"pool"`
}

// Update changes scaling, version or labels of an existing pool. New scaling
// bounds are validated before the provider is contacted.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if in.ClusterName == "" {
		return nil, model.NewValidationError("clusterName", "is required")
	}
	if in.Pool.Name == nil || *in.Pool.Name == "" {
		return nil, model.NewValidationError("nodePool.name", "is required")
	}
	if in.Pool.Scaling != nil {
		if err := in.Pool.Scaling.Validate(); err != nil {
			return nil, err
		}
	}
	p, err := u.Pools.NodePoolUpdate(ctx, in.Scope, in.ClusterName, in.Pool)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "nodepool", model.EventActionUpdated, in.ClusterName+"/"+*in.Pool.Name, poolStatus(p)))
	return &UpdateOutput{Pool: p}, nil
}
