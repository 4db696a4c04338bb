package eks

import (
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
	"github.com/stratokube/strato/internal/parallel"
)

// NodePoolCreate creates a managed node group in the named cluster. Pool
// subnets default to the cluster's control-plane subnets; the node role is
// derived from the account identity when the pool does not carry one.
func (d *driver) NodePoolCreate(ctx context.Context, clusterName string, pool model.NodePool) (created *model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolCreate")
	defer func() { cleanup(err) }()

	clusterOut, err := d.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(clusterName)})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("cluster", clusterName)
		}
		return nil, d.wrapErr("describe_cluster", err)
	}

	logger := logging.FromContext(ctx)
	if pool.Zones != nil && len(*pool.Zones) > 0 {
		logger.Warn(ctx, "eks places nodes by subnet, dropping zones field", "pool", aws.ToString(pool.Name))
	}
	if pool.Mode != nil {
		logger.Warn(ctx, "eks has no agent pool mode, dropping field", "pool", aws.ToString(pool.Name))
	}

	roleARN := aws.ToString(pool.RoleARN)
	if roleARN == "" {
		roleARN, err = d.defaultRoleARN(ctx, defaultNodeRoleName)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "derived node role from account identity", "role_arn", roleARN)
	}

	var subnets []string
	if vc := clusterOut.Cluster.ResourcesVpcConfig; vc != nil {
		subnets = vc.SubnetIds
	}
	if len(subnets) == 0 {
		return nil, model.NewProviderError(model.ProviderAWS, "create_nodegroup",
			errors.New("cluster reports no subnets to place nodes in"))
	}

	input := &eks.CreateNodegroupInput{
		ClusterName:   aws.String(clusterName),
		NodegroupName: pool.Name,
		NodeRole:      aws.String(roleARN),
		Subnets:       subnets,
	}
	if pool.InstanceTypes != nil {
		input.InstanceTypes = *pool.InstanceTypes
	}
	if pool.Scaling != nil {
		input.ScalingConfig = &ekstypes.NodegroupScalingConfig{
			MinSize:     aws.Int32(pool.Scaling.Min),
			MaxSize:     aws.Int32(pool.Scaling.Max),
			DesiredSize: aws.Int32(pool.Scaling.Desired),
		}
	}
	if pool.Version != nil {
		input.Version = pool.Version
	}
	if pool.DiskSizeGB != nil {
		input.DiskSize = pool.DiskSizeGB
	}
	if pool.Labels != nil {
		input.Labels = *pool.Labels
	}
	if pool.AMIType != nil {
		input.AmiType = ekstypes.AMITypes(*pool.AMIType)
	}
	if pool.CapacityType != nil {
		ct, ok := capacityTypeToAWS(*pool.CapacityType)
		if !ok {
			logger.Warn(ctx, "eks cannot express capacity type, dropping field",
				"pool", aws.ToString(pool.Name), "capacity_type", *pool.CapacityType)
		} else {
			input.CapacityType = ct
		}
	}

	out, err := d.eks.CreateNodegroup(ctx, input)
	if err != nil {
		return nil, d.wrapErr("create_nodegroup", err)
	}
	return nodegroupToModel(out.Nodegroup), nil
}

// NodePoolList returns the cluster's node groups. With a name filter only
// that group is described.
func (d *driver) NodePoolList(ctx context.Context, clusterName string, opts model.NodePoolListOptions) (pools []*model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolList")
	defer func() { cleanup(err) }()

	if opts.Name != "" {
		pool, err := d.describeNodegroup(ctx, clusterName, opts.Name)
		if err != nil {
			if model.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return []*model.NodePool{pool}, nil
	}

	var names []string
	var token *string
	for {
		out, err := d.eks.ListNodegroups(ctx, &eks.ListNodegroupsInput{
			ClusterName: aws.String(clusterName),
			NextToken:   token,
		})
		if err != nil {
			if isNotFound(err) {
				return nil, model.NewNotFoundError("cluster", clusterName)
			}
			return nil, d.wrapErr("list_nodegroups", err)
		}
		names = append(names, out.Nodegroups...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}

	logger := logging.FromContext(ctx)
	results := parallel.NewResults[*model.NodePool]()
	tasks := make([]parallel.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, func(ctx context.Context) error {
			pool, err := d.describeNodegroup(ctx, clusterName, name)
			if err != nil {
				logger.Warn(ctx, "skipping node group that failed to describe", "pool", name, "err", err.Error())
				return nil
			}
			results.Add(pool)
			return nil
		})
	}
	if err := parallel.NewExecutor(0).Execute(ctx, tasks...); err != nil {
		return nil, d.wrapErr("describe_nodegroups", err)
	}

	pools = results.Values()
	sort.Slice(pools, func(i, j int) bool { return aws.ToString(pools[i].Name) < aws.ToString(pools[j].Name) })
	return pools, nil
}

// NodePoolUpdate applies the pool's set fields to an existing node group.
// Scaling and labels go through UpdateNodegroupConfig; a version change goes
// through UpdateNodegroupVersion. The updated group is described and
// returned.
func (d *driver) NodePoolUpdate(ctx context.Context, clusterName string, pool model.NodePool) (updated *model.NodePool, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolUpdate")
	defer func() { cleanup(err) }()

	name := aws.ToString(pool.Name)

	if pool.Scaling != nil || pool.Labels != nil {
		input := &eks.UpdateNodegroupConfigInput{
			ClusterName:   aws.String(clusterName),
			NodegroupName: aws.String(name),
		}
		if pool.Scaling != nil {
			input.ScalingConfig = &ekstypes.NodegroupScalingConfig{
				MinSize:     aws.Int32(pool.Scaling.Min),
				MaxSize:     aws.Int32(pool.Scaling.Max),
				DesiredSize: aws.Int32(pool.Scaling.Desired),
			}
		}
		if pool.Labels != nil {
			input.Labels = &ekstypes.UpdateLabelsPayload{AddOrUpdateLabels: *pool.Labels}
		}
		if _, err = d.eks.UpdateNodegroupConfig(ctx, input); err != nil {
			if isNotFound(err) {
				return nil, model.NewNotFoundError("node pool", name)
			}
			return nil, d.wrapErr("update_nodegroup_config", err)
		}
	}

	if pool.Version != nil {
		_, err = d.eks.UpdateNodegroupVersion(ctx, &eks.UpdateNodegroupVersionInput{
			ClusterName:   aws.String(clusterName),
			NodegroupName: aws.String(name),
			Version:       pool.Version,
		})
		if err != nil {
			if isNotFound(err) {
				return nil, model.NewNotFoundError("node pool", name)
			}
			return nil, d.wrapErr("update_nodegroup_version", err)
		}
	}

	return d.describeNodegroup(ctx, clusterName, name)
}

// NodePoolDelete deletes the named node group. Deleting an absent group
// succeeds. EKS has no force variant; the option is accepted for interface
// parity and ignored.
func (d *driver) NodePoolDelete(ctx context.Context, clusterName, poolName string, opts model.NodePoolDeleteOptions) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolDelete")
	defer func() { cleanup(err) }()

	if opts.Force {
		logging.FromContext(ctx).Debug(ctx, "eks node group deletion has no force variant, ignoring option")
	}

	_, err = d.eks.DeleteNodegroup(ctx, &eks.DeleteNodegroupInput{
		ClusterName:   aws.String(clusterName),
		NodegroupName: aws.String(poolName),
	})
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "node group already absent", "pool", poolName)
			return nil
		}
		return d.wrapErr("delete_nodegroup", err)
	}
	return nil
}

func (d *driver) describeNodegroup(ctx context.Context, clusterName, name string) (*model.NodePool, error) {
	out, err := d.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
		ClusterName:   aws.String(clusterName),
		NodegroupName: aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("node pool", name)
		}
		return nil, d.wrapErr("describe_nodegroup", err)
	}
	return nodegroupToModel(out.Nodegroup), nil
}
