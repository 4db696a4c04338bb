// Package network manages VPCs, subnets and security groups through the
// provider-neutral network port. Rule replacement is documented non-atomic;
// see ReplaceRules.
package network

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// UseCase wires the network port and the event notifier. Notifier may be
// nil.
type UseCase struct {
	Networks model.NetworkPort
	Notifier model.Notifier
}

// publish sends ev best-effort and logs failures.
func (u *UseCase) publish(ctx context.Context, ev *model.Event) {
	if u.Notifier == nil {
		return
	}
	if err := u.Notifier.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn(ctx, "event publish failed", "topic", ev.Topic(), "error", err)
	}
}
