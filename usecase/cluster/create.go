package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// CreateInput represents a command to create a cluster.
type CreateInput struct {
	Scope model.ProviderScope `json:"scope"`
	Spec  model.ClusterSpec   `json:"spec"`
}

// CreateOutput carries the accepted cluster record.
type CreateOutput struct {
	Cluster *model.Cluster `json:"cluster"`
}

// Create asks the provider to create a managed cluster. The spec is validated
// before the provider is contacted; on success the cluster is returned in
// CREATING state and callers poll Get for progress.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if err := in.Spec.Validate(); err != nil {
		return nil, err
	}
	if err := naming.ValidateClusterName(in.Spec.Name); err != nil {
		return nil, model.NewValidationError("name", err.Error())
	}
	c, err := u.Clusters.ClusterCreate(ctx, in.Scope, &in.Spec)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "cluster", model.EventActionCreated, c.Name, string(c.Status)))
	return &CreateOutput{Cluster: c}, nil
}
