package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// GetInput represents a query for one cluster.
type GetInput struct {
	Scope model.ProviderScope `json:"scope"`
	Name  string              `json:"name"`
}

// GetOutput carries the cluster with its current normalized status.
type GetOutput struct {
	Cluster *model.Cluster `json:"cluster"`
}

// Get returns the named cluster as the provider reports it right now.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	c, err := u.Clusters.ClusterGet(ctx, in.Scope, in.Name)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Cluster: c}, nil
}
