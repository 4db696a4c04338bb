// Package aks implements the Azure provider driver on top of AKS and the
// Azure network resource providers.
//
// Azure scopes every resource to a resource group. Clusters that do not name
// one get a deterministic group derived from the cluster name, created on
// demand; lookups scan the subscription so resources in foreign groups are
// still found.
package aks

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
	"github.com/stratokube/strato/internal/naming"
)

// managedByTag marks resources this driver created.
const managedByTag = "strato"

// driver implements the Azure provider driver.
type driver struct {
	subscriptionID string
	location       string
	credential     azcore.TokenCredential

	clusters *armcontainerservice.ManagedClustersClient
	pools    *armcontainerservice.AgentPoolsClient
	groups   *armresources.ResourceGroupsClient
	vnets    *armnetwork.VirtualNetworksClient
	subnets  *armnetwork.SubnetsClient
	nsgs     *armnetwork.SecurityGroupsClient
	rules    *armnetwork.SecurityRulesClient
}

// ID returns the provider identifier.
func (d *driver) ID() string { return string(model.ProviderAzure) }

// init registers the Azure driver.
func init() {
	providerdrv.Register(model.ProviderAzure, func(ctx context.Context, cred *model.ResolvedCredential, region string) (providerdrv.Driver, error) {
		subscriptionID := cred.Get("subscription_id")
		tenantID := cred.Get("tenant_id")
		clientID := cred.Get("client_id")
		clientSecret := cred.Get("client_secret")
		if subscriptionID == "" || tenantID == "" || clientID == "" || clientSecret == "" {
			return nil, model.NewValidationError("credential",
				"azure credential requires subscription_id, tenant_id, client_id and client_secret")
		}

		tokenCred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("create azure credential: %w", err)
		}

		d := &driver{
			subscriptionID: subscriptionID,
			location:       region,
			credential:     tokenCred,
		}
		if d.clusters, err = armcontainerservice.NewManagedClustersClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create managed clusters client: %w", err)
		}
		if d.pools, err = armcontainerservice.NewAgentPoolsClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create agent pools client: %w", err)
		}
		if d.groups, err = armresources.NewResourceGroupsClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create resource groups client: %w", err)
		}
		if d.vnets, err = armnetwork.NewVirtualNetworksClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create virtual networks client: %w", err)
		}
		if d.subnets, err = armnetwork.NewSubnetsClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create subnets client: %w", err)
		}
		if d.nsgs, err = armnetwork.NewSecurityGroupsClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create network security groups client: %w", err)
		}
		if d.rules, err = armnetwork.NewSecurityRulesClient(subscriptionID, tokenCred, nil); err != nil {
			return nil, fmt.Errorf("create security rules client: %w", err)
		}
		return d, nil
	})
}

// inLocation reports whether an ARM resource location matches the driver's
// bound location. Azure reports locations lowercase without spaces but
// accepts display forms on input.
func (d *driver) inLocation(location *string) bool {
	if location == nil {
		return false
	}
	normalize := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, " ", ""))
	}
	return normalize(*location) == normalize(d.location)
}

// Azure resource group name cap; truncation preserves the hash suffix.
const maxResourceGroupName = 80

func safeTruncate(base, mid, hash string) string {
	name := fmt.Sprintf("%s-%s-%s", base, mid, hash)
	if len(name) <= maxResourceGroupName {
		return name
	}
	allowMid := maxResourceGroupName - (len(base) + 2 + len(hash))
	if allowMid < 1 {
		allowMid = 1
	}
	if len(mid) > allowMid {
		mid = mid[:allowMid]
	}
	return fmt.Sprintf("%s-%s-%s", base, mid, hash)
}

// defaultResourceGroupName derives the resource group for a cluster spec
// that does not name one.
func defaultResourceGroupName(clusterName string) string {
	return safeTruncate("strato", clusterName, naming.ResourceHash(clusterName))
}

// networkResourceGroupName is the shared group for driver-created network
// resources in the bound location.
func (d *driver) networkResourceGroupName() string {
	return safeTruncate("strato-net", d.location, naming.ResourceHash(d.location))
}

// ensureResourceGroup creates or updates the named resource group in the
// driver's location. CreateOrUpdate is idempotent on Azure.
func (d *driver) ensureResourceGroup(ctx context.Context, name string) error {
	logging.FromContext(ctx).Info(ctx, "ensuring resource group", "resource_group", name)
	_, err := d.groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(d.location),
		Tags: map[string]*string{
			"managed-by": to.Ptr(managedByTag),
		},
	}, nil)
	if err != nil {
		return d.wrapErr("ensure_resource_group", err)
	}
	return nil
}
