package providerdrv

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// clusterPortAdapter implements model.ClusterPort backed by provider drivers.
type clusterPortAdapter struct {
	resolver CredentialResolver
}

func (a *clusterPortAdapter) ClusterCreate(ctx context.Context, scope model.ProviderScope, spec *model.ClusterSpec) (*model.Cluster, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.ClusterCreate(ctx, spec)
}

func (a *clusterPortAdapter) ClusterGet(ctx context.Context, scope model.ProviderScope, name string) (*model.Cluster, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.ClusterGet(ctx, name)
}

func (a *clusterPortAdapter) ClusterList(ctx context.Context, scope model.ProviderScope) ([]*model.Cluster, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.ClusterList(ctx)
}

func (a *clusterPortAdapter) ClusterDelete(ctx context.Context, scope model.ProviderScope, name string) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.ClusterDelete(ctx, name)
}

func (a *clusterPortAdapter) ClusterKubeconfig(ctx context.Context, scope model.ProviderScope, name string) (*model.Kubeconfig, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.ClusterKubeconfig(ctx, name)
}

func (a *clusterPortAdapter) ClusterSetTags(ctx context.Context, scope model.ProviderScope, name string, tags map[string]string) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.ClusterSetTags(ctx, name, tags)
}

var _ model.ClusterPort = (*clusterPortAdapter)(nil)
