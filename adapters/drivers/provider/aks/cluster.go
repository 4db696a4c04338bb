package aks

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice"

	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// Default system pool applied when a spec carries no initial pool. AKS
// rejects a managed cluster without at least one system pool.
const (
	defaultPoolName   = "nodepool1"
	defaultPoolVMSize = "Standard_DS2_v2"
)

func (d *driver) clusterID(resourceGroup, name string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.ContainerService/managedClusters/%s",
		d.subscriptionID, resourceGroup, name)
}

// findCluster scans the subscription for the named cluster in the bound
// location and returns it with its resource group.
func (d *driver) findCluster(ctx context.Context, name string) (*armcontainerservice.ManagedCluster, string, error) {
	pager := d.clusters.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, "", d.wrapErr("list_managed_clusters", err)
		}
		for _, mc := range page.Value {
			if mc == nil || mc.Name == nil || *mc.Name != name || !d.inLocation(mc.Location) {
				continue
			}
			rg := ""
			if mc.ID != nil {
				rg = resourceGroupFromID(*mc.ID)
			}
			return mc, rg, nil
		}
	}
	return nil, "", model.NewNotFoundError("cluster", name)
}

// ClusterCreate starts AKS cluster creation and returns without waiting.
// The resource group comes from the spec or falls back to a deterministic
// name and is created on demand.
func (d *driver) ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (cluster *model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
	defer func() { cleanup(err) }()

	logger := logging.FromContext(ctx)
	if spec.Autopilot {
		logger.Warn(ctx, "aks has no autopilot mode, dropping field", "cluster", spec.Name)
	}
	if spec.RoleARN != "" {
		logger.Warn(ctx, "aks uses a managed identity instead of an iam role, dropping field", "cluster", spec.Name)
	}
	if spec.NetworkID != "" && len(spec.SubnetIDs) == 0 {
		logger.Warn(ctx, "aks attaches node pools by subnet id, dropping bare network id", "cluster", spec.Name)
	}

	rgName := spec.ResourceGroup
	if rgName == "" {
		rgName = defaultResourceGroupName(spec.Name)
		logger.Info(ctx, "derived resource group from cluster name", "resource_group", rgName)
	}
	if err = d.ensureResourceGroup(ctx, rgName); err != nil {
		return nil, err
	}

	// CreateOrUpdate is an upsert, so an existing cluster must be refused
	// explicitly to keep create semantics.
	_, err = d.clusters.Get(ctx, rgName, spec.Name, nil)
	if err == nil {
		return nil, d.wrapErr("create_managed_cluster",
			fmt.Errorf("cluster %s already exists in resource group %s", spec.Name, rgName))
	}
	if !isNotFound(err) {
		return nil, d.wrapErr("get_managed_cluster", err)
	}

	var profile *armcontainerservice.ManagedClusterAgentPoolProfile
	if spec.NodePool != nil {
		if dropped := azDroppedPoolFields(*spec.NodePool); len(dropped) > 0 {
			logger.Warn(ctx, "dropping node pool fields aks cannot express", "fields", dropped)
		}
		profile = d.poolProfile(*spec.NodePool)
		if profile.VMSize == nil {
			profile.VMSize = to.Ptr(defaultPoolVMSize)
		}
	} else {
		profile = &armcontainerservice.ManagedClusterAgentPoolProfile{
			Name:    to.Ptr(defaultPoolName),
			Count:   to.Ptr[int32](1),
			VMSize:  to.Ptr(defaultPoolVMSize),
			OSType:  to.Ptr(armcontainerservice.OSTypeLinux),
			Type:    to.Ptr(armcontainerservice.AgentPoolTypeVirtualMachineScaleSets),
			Mode:    to.Ptr(armcontainerservice.AgentPoolModeSystem),
			MaxPods: to.Ptr[int32](30),
		}
	}
	if len(spec.SubnetIDs) > 0 {
		profile.VnetSubnetID = to.Ptr(spec.SubnetIDs[0])
		if len(spec.SubnetIDs) > 1 {
			logger.Warn(ctx, "aks node pools attach to a single subnet, dropping extra subnets", "cluster", spec.Name)
		}
	}

	tags := mapToTags(spec.Tags)
	if tags == nil {
		tags = map[string]*string{}
	}
	tags["managed-by"] = to.Ptr(managedByTag)

	params := armcontainerservice.ManagedCluster{
		Location: to.Ptr(d.location),
		Tags:     tags,
		Identity: &armcontainerservice.ManagedClusterIdentity{
			Type: to.Ptr(armcontainerservice.ResourceIdentityTypeSystemAssigned),
		},
		Properties: &armcontainerservice.ManagedClusterProperties{
			DNSPrefix:         to.Ptr(spec.Name),
			AgentPoolProfiles: []*armcontainerservice.ManagedClusterAgentPoolProfile{profile},
			ServicePrincipalProfile: &armcontainerservice.ManagedClusterServicePrincipalProfile{
				ClientID: to.Ptr("msi"),
			},
		},
	}
	if spec.Version != "" {
		params.Properties.KubernetesVersion = to.Ptr(spec.Version)
	}

	_, err = d.clusters.BeginCreateOrUpdate(ctx, rgName, spec.Name, params, nil)
	if err != nil {
		return nil, d.wrapErr("create_managed_cluster", err)
	}

	// The poller is dropped: the cluster object is synthesized in CREATING
	// state rather than waited for.
	return &model.Cluster{
		ID:       d.clusterID(rgName, spec.Name),
		Name:     spec.Name,
		Provider: model.ProviderAzure,
		Region:   d.location,
		Version:  spec.Version,
		Status:   model.ClusterStatusCreating,
		Tags:     spec.Tags,
	}, nil
}

// ClusterGet returns the named cluster or a NotFoundError.
func (d *driver) ClusterGet(ctx context.Context, name string) (cluster *model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterGet")
	defer func() { cleanup(err) }()

	mc, _, err := d.findCluster(ctx, name)
	if err != nil {
		return nil, err
	}
	return managedClusterToModel(mc), nil
}

// ClusterList returns all clusters in the bound location.
func (d *driver) ClusterList(ctx context.Context) (clusters []*model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterList")
	defer func() { cleanup(err) }()

	pager := d.clusters.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, d.wrapErr("list_managed_clusters", err)
		}
		for _, mc := range page.Value {
			if mc == nil || !d.inLocation(mc.Location) {
				continue
			}
			clusters = append(clusters, managedClusterToModel(mc))
		}
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Name < clusters[j].Name })
	return clusters, nil
}

// ClusterDelete deletes the named cluster. Deleting an absent cluster
// succeeds.
func (d *driver) ClusterDelete(ctx context.Context, name string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterDelete")
	defer func() { cleanup(err) }()

	_, rg, err := d.findCluster(ctx, name)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "cluster already absent", "cluster", name)
			return nil
		}
		return err
	}

	_, err = d.clusters.BeginDelete(ctx, rg, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrapErr("delete_managed_cluster", err)
	}
	return nil
}

// ClusterSetTags overwrites the cluster's resource tags.
func (d *driver) ClusterSetTags(ctx context.Context, name string, tags map[string]string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterSetTags")
	defer func() { cleanup(err) }()

	_, rg, err := d.findCluster(ctx, name)
	if err != nil {
		return err
	}

	_, err = d.clusters.BeginUpdateTags(ctx, rg, name, armcontainerservice.TagsObject{
		Tags: mapToTags(tags),
	}, nil)
	if err != nil {
		return d.wrapErr("update_tags", err)
	}
	return nil
}

// ClusterKubeconfig returns the cluster's admin kubeconfig as issued by
// AKS. Unlike the other providers the document embeds cluster-scoped
// credentials, so it is proxied through without rendering.
func (d *driver) ClusterKubeconfig(ctx context.Context, name string) (kubeconfig *model.Kubeconfig, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterKubeconfig")
	defer func() { cleanup(err) }()

	_, rg, err := d.findCluster(ctx, name)
	if err != nil {
		return nil, err
	}

	creds, err := d.clusters.ListClusterAdminCredentials(ctx, rg, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("cluster", name)
		}
		return nil, d.wrapErr("list_cluster_admin_credentials", err)
	}
	if len(creds.Kubeconfigs) == 0 || len(creds.Kubeconfigs[0].Value) == 0 {
		return nil, model.NewProviderError(model.ProviderAzure, "kubeconfig",
			errors.New("no kubeconfig returned for cluster"))
	}
	return providerdrv.NewKubeconfig(name, creds.Kubeconfigs[0].Value), nil
}
