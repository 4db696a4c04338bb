// Package cluster orchestrates managed Kubernetes cluster lifecycles across
// providers. Every operation takes an explicit provider scope; creation is
// asynchronous and returns as soon as the provider accepts the request.
package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// UseCase wires the cluster port, the reachability prober and the event
// notifier for cluster use cases. Kube is only needed by Ping; Notifier may
// be nil.
type UseCase struct {
	Clusters model.ClusterPort
	Kube     model.ReachabilityPort
	Notifier model.Notifier
}

// publish sends ev and logs failures. Events are best-effort: a publish
// error never fails the operation that produced it.
func (u *UseCase) publish(ctx context.Context, ev *model.Event) {
	if u.Notifier == nil {
		return
	}
	if err := u.Notifier.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn(ctx, "event publish failed", "topic", ev.Topic(), "error", err)
	}
}
