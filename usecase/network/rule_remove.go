package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// RuleRemoveInput represents a command to remove one rule from a security
// group.
type RuleRemoveInput struct {
	Scope   model.ProviderScope `json:"scope"`
	GroupID string              `json:"groupID"`
	Rule    model.Rule          `json:"rule"`
}

// RuleRemove revokes one rule from the group. Removing a rule that is not
// present succeeds.
func (u *UseCase) RuleRemove(ctx context.Context, in *RuleRemoveInput) error {
	if in == nil || in.GroupID == "" {
		return model.NewValidationError("groupID", "is required")
	}
	if err := in.Rule.Validate(); err != nil {
		return err
	}
	if err := u.Networks.RuleRemove(ctx, in.Scope, in.GroupID, in.Rule); err != nil {
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "security_group", model.EventActionUpdated, in.GroupID, ""))
	return nil
}
