package providerdrv

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// Driver abstracts one cloud provider's managed-Kubernetes and network
// surface. A driver instance is bound to a single resolved credential and
// region at construction and is used for exactly one operation: the port
// adapters build a fresh driver per call and never cache or pool instances,
// so a rotated credential takes effect on the next call.
//
// Implementations live under adapters/drivers/provider/<name> and register
// themselves from init().
type Driver interface {
	// ID returns the provider identifier ("aws", "gcp", "azure").
	ID() string

	// ClusterCreate starts creation and returns the cluster in CREATING
	// state without waiting for the provider to finish.
	ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (*model.Cluster, error)
	ClusterGet(ctx context.Context, name string) (*model.Cluster, error)
	ClusterList(ctx context.Context) ([]*model.Cluster, error)
	// ClusterDelete is idempotent: deleting an absent cluster succeeds.
	ClusterDelete(ctx context.Context, name string) error
	ClusterSetTags(ctx context.Context, name string, tags map[string]string) error
	ClusterKubeconfig(ctx context.Context, name string) (*model.Kubeconfig, error)

	NodePoolCreate(ctx context.Context, clusterName string, pool model.NodePool) (*model.NodePool, error)
	NodePoolList(ctx context.Context, clusterName string, opts model.NodePoolListOptions) ([]*model.NodePool, error)
	NodePoolUpdate(ctx context.Context, clusterName string, pool model.NodePool) (*model.NodePool, error)
	NodePoolDelete(ctx context.Context, clusterName, poolName string, opts model.NodePoolDeleteOptions) error

	VPCCreate(ctx context.Context, spec *model.VPCSpec) (*model.VPC, error)
	VPCGet(ctx context.Context, id string) (*model.VPC, error)
	VPCList(ctx context.Context) ([]*model.VPC, error)
	VPCDelete(ctx context.Context, id string) error

	SubnetCreate(ctx context.Context, spec *model.SubnetSpec) (*model.Subnet, error)
	SubnetGet(ctx context.Context, vpcID, id string) (*model.Subnet, error)
	SubnetList(ctx context.Context, vpcID string) ([]*model.Subnet, error)
	SubnetDelete(ctx context.Context, vpcID, id string) error

	SecurityGroupCreate(ctx context.Context, spec *model.SecurityGroupSpec) (*model.SecurityGroup, error)
	SecurityGroupGet(ctx context.Context, id string) (*model.SecurityGroup, error)
	SecurityGroupList(ctx context.Context, vpcID string) ([]*model.SecurityGroup, error)
	SecurityGroupDelete(ctx context.Context, id string) error

	RuleAdd(ctx context.Context, groupID string, rule model.Rule) error
	RuleRemove(ctx context.Context, groupID string, rule model.Rule) error
}

// driverFactory is a constructor function for a provider driver. The
// credential is already decrypted and tenant-checked; the factory only binds
// SDK clients to it.
type driverFactory func(ctx context.Context, cred *model.ResolvedCredential, region string) (Driver, error)

// registry holds registered drivers by provider kind.
var registry = map[model.ProviderKind]driverFactory{}

// Register makes a driver available for the given provider. Drivers should
// call this from their init() function.
func Register(kind model.ProviderKind, factory driverFactory) {
	registry[kind] = factory
}

// GetDriverFactory returns the driver factory for the given provider.
func GetDriverFactory(kind model.ProviderKind) (driverFactory, bool) {
	factory, exists := registry[kind]
	return factory, exists
}

// NewKubeconfig wraps raw kubeconfig bytes with the download metadata the
// cluster port proxies through unchanged.
func NewKubeconfig(clusterName string, content []byte) *model.Kubeconfig {
	return &model.Kubeconfig{
		Filename:    "kubeconfig-" + clusterName + ".yaml",
		ContentType: "application/x-yaml",
		Content:     content,
	}
}
