package nodepool

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// CreateInput represents a command to create a node pool.
type CreateInput struct {
	Scope       model.ProviderScope `json:"scope"`
	ClusterName string              `json:"clusterName"`
	Pool        model.NodePool      `json:"pool"`
}

// CreateOutput carries the accepted pool record.
type CreateOutput struct {
	Pool *model.NodePool `json:"pool"`
}

// Create adds a worker pool to the named cluster. The pool spec, including
// min <= desired <= max, is validated before the provider is contacted.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if in.ClusterName == "" {
		return nil, model.NewValidationError("clusterName", "is required")
	}
	if err := in.Pool.Validate(); err != nil {
		return nil, err
	}
	if err := naming.ValidateNodePoolName(*in.Pool.Name); err != nil {
		return nil, model.NewValidationError("nodePool.name", err.Error())
	}
	p, err := u.Pools.NodePoolCreate(ctx, in.Scope, in.ClusterName, in.Pool)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "nodepool", model.EventActionCreated, in.ClusterName+"/"+*in.Pool.Name, poolStatus(p)))
	return &CreateOutput{Pool: p}, nil
}

func poolStatus(p *model.NodePool) string {
	if p == nil || p.Status == nil {
		return ""
	}
	return string(p.Status.State)
}
