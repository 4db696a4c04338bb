package cluster

import (
	"context"
	"fmt"

	"github.com/stratokube/strato/domain/model"
)

// PingInput represents a command to probe a cluster's API server.
type PingInput struct {
	Scope model.ProviderScope `json:"scope"`
	Name  string              `json:"name"`
}

// PingOutput carries the probe result.
type PingOutput struct {
	Cluster      string                     `json:"cluster"`
	Reachability *model.ClusterReachability `json:"reachability"`
}

// Ping fetches the cluster's kubeconfig and probes the API server through
// it. An unreachable cluster is reported in the output, not as an error;
// only kubeconfig retrieval and malformed documents fail the call.
func (u *UseCase) Ping(ctx context.Context, in *PingInput) (*PingOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	if u.Kube == nil {
		return nil, fmt.Errorf("reachability prober is not configured")
	}
	kc, err := u.Clusters.ClusterKubeconfig(ctx, in.Scope, in.Name)
	if err != nil {
		return nil, err
	}
	r, err := u.Kube.Probe(ctx, kc.Content)
	if err != nil {
		return nil, err
	}
	return &PingOutput{Cluster: in.Name, Reachability: r}, nil
}
