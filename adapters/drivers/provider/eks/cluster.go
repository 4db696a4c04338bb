package eks

import (
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"

	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
	"github.com/stratokube/strato/internal/parallel"
)

// Default IAM role names assumed when a spec omits the ARN. The role must
// exist in the credential's account; only the ARN is derived here.
const (
	defaultClusterRoleName = "eksClusterRole"
	defaultNodeRoleName    = "AmazonEKSNodeRole"
)

// ClusterCreate starts EKS control-plane creation and returns without
// waiting. The returned cluster reports CREATING until the provider finishes.
func (d *driver) ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (cluster *model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
	defer func() { cleanup(err) }()

	if len(spec.SubnetIDs) < 2 {
		return nil, model.NewValidationError("subnetIDs", "eks requires at least two control-plane subnets")
	}

	logger := logging.FromContext(ctx)
	if spec.Autopilot {
		logger.Warn(ctx, "eks has no autopilot mode, dropping field", "cluster", spec.Name)
	}
	if spec.NodePool != nil {
		// Node groups attach to an ACTIVE control plane; an initial pool
		// cannot ride along on the create call.
		logger.Warn(ctx, "eks node groups are created separately once the control plane is active, dropping initial pool", "cluster", spec.Name)
	}

	roleARN := spec.RoleARN
	if roleARN == "" {
		roleARN, err = d.defaultRoleARN(ctx, defaultClusterRoleName)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "derived control-plane role from account identity", "role_arn", roleARN)
	}

	input := &eks.CreateClusterInput{
		Name:    aws.String(spec.Name),
		RoleArn: aws.String(roleARN),
		ResourcesVpcConfig: &ekstypes.VpcConfigRequest{
			SubnetIds: spec.SubnetIDs,
		},
		AccessConfig: &ekstypes.CreateAccessConfigRequest{
			AuthenticationMode:                      ekstypes.AuthenticationModeApi,
			BootstrapClusterCreatorAdminPermissions: aws.Bool(true),
		},
	}
	if spec.Version != "" {
		input.Version = aws.String(spec.Version)
	}
	if len(spec.Tags) > 0 {
		input.Tags = spec.Tags
	}

	out, err := d.eks.CreateCluster(ctx, input)
	if err != nil {
		return nil, d.wrapErr("create_cluster", err)
	}
	return d.clusterToModel(out.Cluster), nil
}

// ClusterGet returns the named cluster or a NotFoundError.
func (d *driver) ClusterGet(ctx context.Context, name string) (cluster *model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterGet")
	defer func() { cleanup(err) }()

	out, err := d.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("cluster", name)
		}
		return nil, d.wrapErr("describe_cluster", err)
	}
	return d.clusterToModel(out.Cluster), nil
}

// ClusterList returns all clusters in the region. EKS only lists names, so
// each cluster is described in a bounded fan-out; clusters that vanish
// between the two calls are skipped.
func (d *driver) ClusterList(ctx context.Context) (clusters []*model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterList")
	defer func() { cleanup(err) }()

	var names []string
	var token *string
	for {
		out, err := d.eks.ListClusters(ctx, &eks.ListClustersInput{NextToken: token})
		if err != nil {
			return nil, d.wrapErr("list_clusters", err)
		}
		names = append(names, out.Clusters...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}

	logger := logging.FromContext(ctx)
	results := parallel.NewResults[*model.Cluster]()
	tasks := make([]parallel.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, func(ctx context.Context) error {
			out, err := d.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
			if err != nil {
				logger.Warn(ctx, "skipping cluster that failed to describe", "cluster", name, "err", err.Error())
				return nil
			}
			results.Add(d.clusterToModel(out.Cluster))
			return nil
		})
	}
	if err := parallel.NewExecutor(0).Execute(ctx, tasks...); err != nil {
		return nil, d.wrapErr("describe_clusters", err)
	}

	clusters = results.Values()
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Name < clusters[j].Name })
	return clusters, nil
}

// ClusterDelete deletes the named cluster. Deleting an absent cluster
// succeeds.
func (d *driver) ClusterDelete(ctx context.Context, name string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterDelete")
	defer func() { cleanup(err) }()

	_, err = d.eks.DeleteCluster(ctx, &eks.DeleteClusterInput{Name: aws.String(name)})
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "cluster already absent", "cluster", name)
			return nil
		}
		return d.wrapErr("delete_cluster", err)
	}
	return nil
}

// ClusterSetTags overwrites the given tag keys on the cluster resource.
func (d *driver) ClusterSetTags(ctx context.Context, name string, tags map[string]string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterSetTags")
	defer func() { cleanup(err) }()

	out, err := d.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
	if err != nil {
		if isNotFound(err) {
			return model.NewNotFoundError("cluster", name)
		}
		return d.wrapErr("describe_cluster", err)
	}

	_, err = d.eks.TagResource(ctx, &eks.TagResourceInput{
		ResourceArn: out.Cluster.Arn,
		Tags:        tags,
	})
	if err != nil {
		return d.wrapErr("tag_resource", err)
	}
	return nil
}

// ClusterKubeconfig renders an exec-auth kubeconfig for the named cluster.
// Authentication shells out to "aws eks get-token" so the document carries
// no long-lived secret.
func (d *driver) ClusterKubeconfig(ctx context.Context, name string) (kubeconfig *model.Kubeconfig, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterKubeconfig")
	defer func() { cleanup(err) }()

	out, err := d.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("cluster", name)
		}
		return nil, d.wrapErr("describe_cluster", err)
	}

	cluster := out.Cluster
	if cluster.Endpoint == nil || cluster.CertificateAuthority == nil || cluster.CertificateAuthority.Data == nil {
		return nil, model.NewProviderError(model.ProviderAWS, "kubeconfig",
			errors.New("cluster endpoint or certificate authority not yet available"))
	}

	content := renderKubeconfig(name, aws.ToString(cluster.Endpoint),
		aws.ToString(cluster.CertificateAuthority.Data), d.region)
	return providerdrv.NewKubeconfig(name, content), nil
}
