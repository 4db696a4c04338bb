// Package nodepool manages worker node pools inside an existing cluster.
// Scaling bounds are validated here, before any provider is contacted.
package nodepool

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// UseCase wires the node pool port and the event notifier. Notifier may be
// nil.
type UseCase struct {
	Pools    model.NodePoolPort
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
