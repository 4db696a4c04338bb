package cluster

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// KubeconfigInput represents a query for a cluster's kubeconfig.
type KubeconfigInput struct {
	Scope model.ProviderScope `json:"scope"`
	Name  string              `json:"name"`
}

// KubeconfigOutput carries the provider's kubeconfig document.
type KubeconfigOutput struct {
	Kubeconfig *model.Kubeconfig `json:"kubeconfig"`
}

// Kubeconfig returns the provider's kubeconfig for the named cluster. The
// document is passed through opaque; the suggested filename comes from the
// provider adapter.
func (u *UseCase) Kubeconfig(ctx context.Context, in *KubeconfigInput) (*KubeconfigOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	kc, err := u.Clusters.ClusterKubeconfig(ctx, in.Scope, in.Name)
	if err != nil {
		return nil, err
	}
	return &KubeconfigOutput{Kubeconfig: kc}, nil
}
