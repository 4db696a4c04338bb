package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// ListInput represents a query for all clusters in a scope.
type ListInput struct {
	Scope model.ProviderScope `json:"scope"`
}

// ListOutput carries the clusters visible in the scope's region.
type ListOutput struct {
	Clusters []*model.Cluster `json:"clusters"`
}

// List returns the clusters in the scope's account and region.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	clusters, err := u.Clusters.ClusterList(ctx, in.Scope)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Clusters: clusters}, nil
}
