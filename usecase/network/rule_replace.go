package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// RuleReplaceInput represents a command to replace a group's entire rule
// set.
type RuleReplaceInput struct {
	Scope   model.ProviderScope `json:"scope"`
	GroupID string              `json:"groupID"`
	Rules   []model.Rule        `json:"rules"`
}

// RuleReplaceOutput reports which of the requested rules made it onto the
// group.
type RuleReplaceOutput struct {
	Applied   []model.Rule `json:"applied"`
	Unapplied []model.Rule `json:"unapplied,omitempty"`
}

// ReplaceRules swaps the group's rule set for the given rules. The swap is
// not atomic: existing rules are removed first, then the new rules are added
// one at a time. A removal failure is logged and skipped. An addition
// failure leaves the group partially populated; the call still attempts the
// remaining rules and then returns the partial output together with a
// PartialFailureError naming each rule that was not applied.
func (u *UseCase) ReplaceRules(ctx context.Context, in *RuleReplaceInput) (*RuleReplaceOutput, error) {
	if in == nil || in.GroupID == "" {
		return nil, model.NewValidationError("groupID", "is required")
	}
	for _, r := range in.Rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	g, err := u.Networks.SecurityGroupGet(ctx, in.Scope, in.GroupID)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	for _, old := range g.Rules {
		if err := u.Networks.RuleRemove(ctx, in.Scope, in.GroupID, old); err != nil {
			log.Warn(ctx, "rule removal failed during replace",
				"group", in.GroupID, "rule", ruleLabel(old), "error", err)
		}
	}

	out := &RuleReplaceOutput{}
	var failures []model.TargetFailure
	for _, r := range in.Rules {
		if err := u.Networks.RuleAdd(ctx, in.Scope, in.GroupID, r); err != nil {
			out.Unapplied = append(out.Unapplied, r)
			failures = append(failures, model.TargetFailure{Target: ruleLabel(r), Reason: err.Error()})
			continue
		}
		out.Applied = append(out.Applied, r)
	}
	if len(failures) > 0 {
		return out, &model.PartialFailureError{
			Completed: len(out.Applied),
			Failed:    len(failures),
			Failures:  failures,
		}
	}
	u.publish(ctx, model.NewEvent(in.Scope, "security_group", model.EventActionUpdated, in.GroupID, ""))
	return out, nil
}
