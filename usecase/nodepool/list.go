package nodepool

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// ListInput represents a query for a cluster's node pools.
type ListInput struct {
	Scope       model.ProviderScope `json:"scope"`
	ClusterName string              `json:"clusterName"`
	// Name filters to a single pool when non-empty.
	Name string `json:"name,omitempty"`
}

// ListOutput carries the pools with their runtime status.
type ListOutput struct {
	Pools []*model.NodePool `json:"pools"`
}

// List returns the cluster's node pools as the provider reports them.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil || in.ClusterName == "" {
		return nil, model.NewValidationError("clusterName", "is required")
	}
	var opts []model.NodePoolListOption
	if in.Name != "" {
		opts = append(opts, model.WithNodePoolListName(in.Name))
	}
	pools, err := u.Pools.NodePoolList(ctx, in.Scope, in.ClusterName, opts...)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Pools: pools}, nil
}
