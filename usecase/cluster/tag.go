package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// TagInput represents a command to merge tags onto a cluster.
type TagInput struct {
	Scope model.ProviderScope `json:"scope"`
	Name  string              `json:"name"`
	Tags  map[string]string   `json:"tags"`
}

// Tag merges the given tags onto the named cluster. Existing tags with other
// keys are left in place.
func (u *UseCase) Tag(ctx context.Context, in *TagInput) error {
	if in == nil || in.Name == "" {
		return model.NewValidationError("name", "is required")
	}
	if len(in.Tags) == 0 {
		return model.NewValidationError("tags", "at least one tag is required")
	}
	if err := u.Clusters.ClusterSetTags(ctx, in.Scope, in.Name, in.Tags); err != nil {
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "cluster", model.EventActionTagged, in.Name, ""))
	return nil
}
