package aks

import (
	"context"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// NodePoolCreate creates an agent pool in the named cluster.
func (d *driver) NodePoolCreate(ctx context.Context, clusterName string, pool model.NodePool) (created *model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolCreate")
	defer func() { cleanup(err) }()

	name := deref(pool.Name)
	if name == "" {
		return nil, model.NewValidationError("nodePool.name", "name is required")
	}

	_, rg, err := d.findCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	if dropped := azDroppedPoolFields(pool); len(dropped) > 0 {
		logging.FromContext(ctx).Warn(ctx, "dropping node pool fields aks cannot express",
			"pool", name, "fields", dropped)
	}

	agentPool := armcontainerservice.AgentPool{Properties: d.buildPoolProperties(pool)}
	_, err = d.pools.BeginCreateOrUpdate(ctx, rg, clusterName, name, agentPool, nil)
	if err != nil {
		return nil, d.wrapErr("create_agent_pool", err)
	}

	// The poller is dropped: the pool is synthesized in CREATING state
	// rather than waited for.
	created = &model.NodePool{}
	*created = pool
	created.Status = &model.NodePoolStatus{State: model.ClusterStatusCreating}
	return created, nil
}

// NodePoolList returns the cluster's agent pools. With a name filter only
// that pool is returned.
func (d *driver) NodePoolList(ctx context.Context, clusterName string, opts model.NodePoolListOptions) (pools []*model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolList")
	defer func() { cleanup(err) }()

	_, rg, err := d.findCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	pager := d.pools.NewListPager(rg, clusterName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				logging.FromContext(ctx).Info(ctx, "cluster vanished while listing pools, returning empty list",
					"cluster", clusterName)
				return nil, nil
			}
			return nil, d.wrapErr("list_agent_pools", err)
		}
		for _, ap := range page.Value {
			if ap == nil || ap.Name == nil {
				continue
			}
			if opts.Name != "" && *ap.Name != opts.Name {
				continue
			}
			pools = append(pools, d.agentPoolToModel(ap))
		}
	}

	sort.Slice(pools, func(i, j int) bool { return deref(pools[i].Name) < deref(pools[j].Name) })
	return pools, nil
}

// NodePoolUpdate applies the pool's set fields to an existing agent pool.
// Immutable fields are rejected before the call; labels, scaling and
// version merge into the existing profile.
func (d *driver) NodePoolUpdate(ctx context.Context, clusterName string, pool model.NodePool) (updated *model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolUpdate")
	defer func() { cleanup(err) }()

	name := deref(pool.Name)
	if name == "" {
		return nil, model.NewValidationError("nodePool.name", "name is required")
	}

	_, rg, err := d.findCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	existing, err := d.pools.Get(ctx, rg, clusterName, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("node pool", name)
		}
		return nil, d.wrapErr("get_agent_pool", err)
	}

	if err = d.checkImmutablePoolFields(pool, &existing.AgentPool); err != nil {
		return nil, err
	}

	merged := d.mergeMutablePoolFields(pool, &existing.AgentPool)
	_, err = d.pools.BeginCreateOrUpdate(ctx, rg, clusterName, name, merged, nil)
	if err != nil {
		return nil, d.wrapErr("update_agent_pool", err)
	}

	after, err := d.pools.Get(ctx, rg, clusterName, name, nil)
	if err != nil {
		return nil, d.wrapErr("get_agent_pool", err)
	}
	return d.agentPoolToModel(&after.AgentPool), nil
}

// NodePoolDelete deletes the named agent pool. Deleting a pool from an
// absent cluster, or an absent pool, succeeds. AKS has no force variant;
// the option is accepted for interface parity and ignored.
func (d *driver) NodePoolDelete(ctx context.Context, clusterName, poolName string, opts model.NodePoolDeleteOptions) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolDelete")
	defer func() { cleanup(err) }()

	if opts.Force {
		logging.FromContext(ctx).Debug(ctx, "aks agent pool deletion has no force variant, ignoring option")
	}

	_, rg, err := d.findCluster(ctx, clusterName)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "cluster already absent", "cluster", clusterName)
			return nil
		}
		return err
	}

	_, err = d.pools.BeginDelete(ctx, rg, clusterName, poolName, nil)
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "agent pool already absent", "pool", poolName)
			return nil
		}
		return d.wrapErr("delete_agent_pool", err)
	}
	return nil
}

// checkImmutablePoolFields rejects updates that would change fields AKS
// fixes at pool creation.
func (d *driver) checkImmutablePoolFields(update model.NodePool, existing *armcontainerservice.AgentPool) error {
	if existing == nil || existing.Properties == nil {
		return nil
	}
	props := existing.Properties
	var fields []string

	if update.InstanceTypes != nil && len(*update.InstanceTypes) > 0 && props.VMSize != nil {
		if (*update.InstanceTypes)[0] != *props.VMSize {
			fields = append(fields, "instanceTypes")
		}
	}
	if update.DiskSizeGB != nil && props.OSDiskSizeGB != nil {
		if *update.DiskSizeGB != *props.OSDiskSizeGB {
			fields = append(fields, "diskSizeGB")
		}
	}
	if update.Mode != nil && props.Mode != nil {
		if !strings.EqualFold(*update.Mode, string(*props.Mode)) {
			fields = append(fields, "mode")
		}
	}
	if update.CapacityType != nil {
		existingCT := "on-demand"
		if props.ScaleSetPriority != nil && *props.ScaleSetPriority == armcontainerservice.ScaleSetPrioritySpot {
			existingCT = "spot"
		}
		if *update.CapacityType != existingCT {
			fields = append(fields, "capacityType")
		}
	}
	if update.Zones != nil && len(props.AvailabilityZones) > 0 {
		existingZones := make([]string, 0, len(props.AvailabilityZones))
		for _, z := range props.AvailabilityZones {
			if z != nil {
				existingZones = append(existingZones, d.zoneToUnified(*z))
			}
		}
		if !equalZoneSets(*update.Zones, existingZones) {
			fields = append(fields, "zones")
		}
	}

	if len(fields) > 0 {
		return model.NewValidationError("nodePool",
			"cannot modify immutable fields: "+strings.Join(fields, ", "))
	}
	return nil
}

// mergeMutablePoolFields folds the update's mutable fields into the
// existing agent pool profile.
func (d *driver) mergeMutablePoolFields(update model.NodePool, existing *armcontainerservice.AgentPool) armcontainerservice.AgentPool {
	merged := *existing
	if merged.Properties == nil {
		merged.Properties = &armcontainerservice.ManagedClusterAgentPoolProfileProperties{}
	}
	props := merged.Properties

	if update.Version != nil {
		props.OrchestratorVersion = to.Ptr(*update.Version)
	}
	if update.Labels != nil {
		labels := make(map[string]*string)
		for k, v := range props.NodeLabels {
			labels[k] = v
		}
		for k, v := range *update.Labels {
			labels[k] = to.Ptr(v)
		}
		props.NodeLabels = labels
	}
	if update.Scaling != nil {
		props.Count = to.Ptr(update.Scaling.Desired)
		if update.Scaling.Min != update.Scaling.Max {
			props.EnableAutoScaling = to.Ptr(true)
			props.MinCount = to.Ptr(update.Scaling.Min)
			props.MaxCount = to.Ptr(update.Scaling.Max)
		} else {
			props.EnableAutoScaling = to.Ptr(false)
			props.MinCount = nil
			props.MaxCount = nil
		}
	}

	return merged
}

func equalZoneSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
