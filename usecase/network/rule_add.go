package network

import (
	"context"
	"strings"

	"github.com/stratokube/strato/domain/model"
)

// RuleAddInput represents a command to add one rule to a security group.
type RuleAddInput struct {
	Scope   model.ProviderScope `json:"scope"`
	GroupID string              `json:"groupID"`
	Rule    model.Rule          `json:"rule"`
}

// RuleAdd authorizes one rule on the group.
func (u *UseCase) RuleAdd(ctx context.Context, in *RuleAddInput) error {
	if in == nil || in.GroupID == "" {
		return model.NewValidationError("groupID", "is required")
	}
	if err := in.Rule.Validate(); err != nil {
		return err
	}
	if err := u.Networks.RuleAdd(ctx, in.Scope, in.GroupID, in.Rule); err != nil {
		return err
	}
	u.publish(ctx, model.NewEvent(in.Scope, "security_group", model.EventActionUpdated, in.GroupID, ""))
	return nil
}

// ruleLabel renders a rule for logs and failure reports, e.g.
// "ingress tcp 443" or "egress all".
func ruleLabel(r model.Rule) string {
	n := r.Normalize()
	parts := []string{string(n.Direction), string(n.Protocol)}
	if pr := n.PortRange(); pr != "" {
		parts = append(parts, pr)
	}
	return strings.Join(parts, " ")
}
