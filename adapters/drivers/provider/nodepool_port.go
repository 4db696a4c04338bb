package providerdrv

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// nodePoolPortAdapter implements model.NodePoolPort backed by provider drivers.
type nodePoolPortAdapter struct {
	resolver CredentialResolver
}

func (a *nodePoolPortAdapter) NodePoolCreate(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.NodePoolCreate(ctx, clusterName, pool)
}

func (a *nodePoolPortAdapter) NodePoolList(ctx context.Context, scope model.ProviderScope, clusterName string, opts ...model.NodePoolListOption) ([]*model.NodePool, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.NodePoolList(ctx, clusterName, model.ApplyNodePoolListOptions(opts...))
}

func (a *nodePoolPortAdapter) NodePoolUpdate(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.NodePoolUpdate(ctx, clusterName, pool)
}

func (a *nodePoolPortAdapter) NodePoolDelete(ctx context.Context, scope model.ProviderScope, clusterName, poolName string, opts ...model.NodePoolDeleteOption) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.NodePoolDelete(ctx, clusterName, poolName, model.ApplyNodePoolDeleteOptions(opts...))
}

var _ model.NodePoolPort = (*nodePoolPortAdapter)(nil)
