package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// DeleteInput represents a command to delete a cluster.
type DeleteInput struct {
	Scope model.ProviderScope `json:"scope"`
	Name  string              `json:"name"`
}

// Delete removes the named cluster. Deletion is idempotent: a cluster that
// is already gone deletes successfully and produces no event.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) error {
	if in == nil || in.Name == "" {
		return model.NewValidationError("name", "is required")
	}
	if err := u.Clusters.ClusterDelete(ctx, in.Scope, in.Name); err != nil {
		if model.IsNotFound(err) {
			return nil
		}
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "cluster", model.EventActionDeleted, in.Name, string(model.ClusterStatusDeleting)))
	return nil
}
