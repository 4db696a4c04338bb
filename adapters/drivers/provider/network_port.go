package providerdrv

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// networkPortAdapter implements model.NetworkPort backed by provider drivers.
type networkPortAdapter struct {
	resolver CredentialResolver
}

func (a *networkPortAdapter) VPCCreate(ctx context.Context, scope model.ProviderScope, spec *model.VPCSpec) (*model.VPC, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.VPCCreate(ctx, spec)
}

func (a *networkPortAdapter) VPCGet(ctx context.Context, scope model.ProviderScope, id string) (*model.VPC, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.VPCGet(ctx, id)
}

func (a *networkPortAdapter) VPCList(ctx context.Context, scope model.ProviderScope) ([]*model.VPC, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.VPCList(ctx)
}

func (a *networkPortAdapter) VPCDelete(ctx context.Context, scope model.ProviderScope, id string) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.VPCDelete(ctx, id)
}

func (a *networkPortAdapter) SubnetCreate(ctx context.Context, scope model.ProviderScope, spec *model.SubnetSpec) (*model.Subnet, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.SubnetCreate(ctx, spec)
}

func (a *networkPortAdapter) SubnetGet(ctx context.Context, scope model.ProviderScope, vpcID, id string) (*model.Subnet, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.SubnetGet(ctx, vpcID, id)
}

func (a *networkPortAdapter) SubnetList(ctx context.Context, scope model.ProviderScope, vpcID string) ([]*model.Subnet, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.SubnetList(ctx, vpcID)
}

func (a *networkPortAdapter) SubnetDelete(ctx context.Context, scope model.ProviderScope, vpcID, id string) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.SubnetDelete(ctx, vpcID, id)
}

func (a *networkPortAdapter) SecurityGroupCreate(ctx context.Context, scope model.ProviderScope, spec *model.SecurityGroupSpec) (*model.SecurityGroup, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.SecurityGroupCreate(ctx, spec)
}

func (a *networkPortAdapter) SecurityGroupGet(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.SecurityGroupGet(ctx, id)
}

func (a *networkPortAdapter) SecurityGroupList(ctx context.Context, scope model.ProviderScope, vpcID string) ([]*model.SecurityGroup, error) {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return nil, err
	}
	return driver.SecurityGroupList(ctx, vpcID)
}

func (a *networkPortAdapter) SecurityGroupDelete(ctx context.Context, scope model.ProviderScope, id string) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.SecurityGroupDelete(ctx, id)
}

func (a *networkPortAdapter) RuleAdd(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.RuleAdd(ctx, groupID, rule)
}

func (a *networkPortAdapter) RuleRemove(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
	driver, err := newDriver(ctx, a.resolver, scope)
	if err != nil {
		return err
	}
	return driver.RuleRemove(ctx, groupID, rule)
}

var _ model.NetworkPort = (*networkPortAdapter)(nil)
