package nodepool

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// DeleteInput represents a command to delete a node pool.
type DeleteInput struct {
	Scope       model.ProviderScope `json:"scope"`
	ClusterName string              `json:"clusterName"`
	Name        string              `json:"name"`
	// Force skips the provider's drain where the provider supports it.
	Force bool `json:"force,omitempty"`
}

// Delete removes the named pool. A pool that is already gone deletes
// successfully and produces no event.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) error {
	if in == nil || in.ClusterName == "" {
		return model.NewValidationError("clusterName", "is required")
	}
	if in.Name == "" {
		return model.NewValidationError("name", "is required")
	}
	var opts []model.NodePoolDeleteOption
	if in.Force {
		opts = append(opts, model.WithNodePoolDeleteForce())
	}
	if err := u.Pools.NodePoolDelete(ctx, in.Scope, in.ClusterName, in.Name, opts...); err != nil {
		if model.IsNotFound(err) {
			return nil
		}
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "nodepool", model.EventActionDeleted, in.ClusterName+"/"+in.Name, ""))
	return nil
}
