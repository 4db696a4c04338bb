package gke

import (
	"context"
	"sort"

	"google.golang.org/api/container/v1"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// NodePoolCreate creates a node pool in the named cluster. Autopilot
// clusters manage their own pools and reject the call before it reaches the
// provider.
func (d *driver) NodePoolCreate(ctx context.Context, clusterName string, pool model.NodePool) (created *model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolCreate")
	defer func() { cleanup(err) }()

	name := deref(pool.Name)
	if name == "" {
		return nil, model.NewValidationError("nodePool.name", "name is required")
	}

	cluster, location, err := d.findCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	if cluster.Autopilot != nil && cluster.Autopilot.Enabled {
		return nil, model.NewValidationError("nodePool", "autopilot clusters manage their own node pools")
	}

	if dropped := gkeDroppedPoolFields(pool); len(dropped) > 0 {
		logging.FromContext(ctx).Warn(ctx, "dropping node pool fields gke cannot express",
			"pool", name, "fields", dropped)
	}

	_, err = d.container.Projects.Locations.Clusters.NodePools.Create(d.clusterPath(location, clusterName), &container.CreateNodePoolRequest{
		NodePool: buildNodePool(pool),
	}).Context(ctx).Do()
	if err != nil {
		return nil, d.wrapErr("create_node_pool", err)
	}

	// The create call returns a long-running operation; the pool is
	// synthesized in CREATING state rather than read back.
	created = &model.NodePool{}
	*created = pool
	created.Status = &model.NodePoolStatus{State: model.ClusterStatusCreating}
	return created, nil
}

// NodePoolList returns the cluster's node pools. With a name filter only
// that pool is fetched.
func (d *driver) NodePoolList(ctx context.Context, clusterName string, opts model.NodePoolListOptions) (pools []*model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolList")
	defer func() { cleanup(err) }()

	_, location, err := d.findCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	if opts.Name != "" {
		np, err := d.container.Projects.Locations.Clusters.NodePools.Get(d.nodePoolPath(location, clusterName, opts.Name)).Context(ctx).Do()
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, d.wrapErr("get_node_pool", err)
		}
		return []*model.NodePool{nodePoolToModel(np)}, nil
	}

	out, err := d.container.Projects.Locations.Clusters.NodePools.List(d.clusterPath(location, clusterName)).Context(ctx).Do()
	if err != nil {
		return nil, d.wrapErr("list_node_pools", err)
	}

	pools = make([]*model.NodePool, 0, len(out.NodePools))
	for _, np := range out.NodePools {
		pools = append(pools, nodePoolToModel(np))
	}
	sort.Slice(pools, func(i, j int) bool { return deref(pools[i].Name) < deref(pools[j].Name) })
	return pools, nil
}

// NodePoolUpdate applies the pool's set fields to an existing node pool.
// Version, labels and zones go through the pool update call; scaling goes
// through the autoscaling and size calls. The updated pool is fetched and
// returned.
func (d *driver) NodePoolUpdate(ctx context.Context, clusterName string, pool model.NodePool) (updated *model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolUpdate")
	defer func() { cleanup(err) }()

	name := deref(pool.Name)
	if name == "" {
		return nil, model.NewValidationError("nodePool.name", "name is required")
	}

	_, location, err := d.findCluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	path := d.nodePoolPath(location, clusterName, name)

	logger := logging.FromContext(ctx)
	if pool.InstanceTypes != nil {
		logger.Warn(ctx, "gke node pools cannot change machine type in place, dropping field", "pool", name)
	}
	if pool.DiskSizeGB != nil {
		logger.Warn(ctx, "gke node pools cannot change disk size in place, dropping field", "pool", name)
	}
	if pool.CapacityType != nil {
		logger.Warn(ctx, "gke node pools cannot change capacity type in place, dropping field", "pool", name)
	}

	if pool.Version != nil || pool.Labels != nil || pool.Zones != nil {
		req := &container.UpdateNodePoolRequest{}
		if pool.Version != nil {
			req.NodeVersion = *pool.Version
		}
		if pool.Labels != nil {
			req.Labels = &container.NodeLabels{Labels: *pool.Labels}
		}
		if pool.Zones != nil {
			req.Locations = *pool.Zones
		}
		_, err = d.container.Projects.Locations.Clusters.NodePools.Update(path, req).Context(ctx).Do()
		if err != nil {
			if isNotFound(err) {
				return nil, model.NewNotFoundError("node pool", name)
			}
			return nil, d.wrapErr("update_node_pool", err)
		}
	}

	if pool.Scaling != nil {
		autoscaling := &container.NodePoolAutoscaling{}
		if pool.Scaling.Min != pool.Scaling.Max {
			autoscaling.Enabled = true
			autoscaling.MinNodeCount = int64(pool.Scaling.Min)
			autoscaling.MaxNodeCount = int64(pool.Scaling.Max)
		}
		_, err = d.container.Projects.Locations.Clusters.NodePools.SetAutoscaling(path, &container.SetNodePoolAutoscalingRequest{
			Autoscaling: autoscaling,
		}).Context(ctx).Do()
		if err != nil {
			if isNotFound(err) {
				return nil, model.NewNotFoundError("node pool", name)
			}
			return nil, d.wrapErr("set_node_pool_autoscaling", err)
		}

		_, err = d.container.Projects.Locations.Clusters.NodePools.SetSize(path, &container.SetNodePoolSizeRequest{
			NodeCount: int64(pool.Scaling.Desired),
		}).Context(ctx).Do()
		if err != nil {
			return nil, d.wrapErr("set_node_pool_size", err)
		}
	}

	np, err := d.container.Projects.Locations.Clusters.NodePools.Get(path).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("node pool", name)
		}
		return nil, d.wrapErr("get_node_pool", err)
	}
	return nodePoolToModel(np), nil
}

// NodePoolDelete deletes the named node pool. Deleting a pool from an
// absent cluster, or an absent pool, succeeds. GKE has no force variant;
// the option is accepted for interface parity and ignored.
func (d *driver) NodePoolDelete(ctx context.Context, clusterName, poolName string, opts model.NodePoolDeleteOptions) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolDelete")
	defer func() { cleanup(err) }()

	if opts.Force {
		logging.FromContext(ctx).Debug(ctx, "gke node pool deletion has no force variant, ignoring option")
	}

	_, location, err := d.findCluster(ctx, clusterName)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "cluster already absent", "cluster", clusterName)
			return nil
		}
		return err
	}

	_, err = d.container.Projects.Locations.Clusters.NodePools.Delete(d.nodePoolPath(location, clusterName, poolName)).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "node pool already absent", "pool", poolName)
			return nil
		}
		return d.wrapErr("delete_node_pool", err)
	}
	return nil
}
