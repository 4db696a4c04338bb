package gke

import (
	"context"
	"errors"
	"sort"
	"sync"

	"google.golang.org/api/container/v1"

	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
	"github.com/stratokube/strato/internal/parallel"
)

// ClusterCreate starts GKE cluster creation and returns without waiting.
// Standard clusters require an initial node pool; autopilot clusters manage
// nodes themselves and must not carry one.
func (d *driver) ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (cluster *model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
	defer func() { cleanup(err) }()

	if spec.Autopilot && spec.NodePool != nil {
		return nil, model.NewValidationError("nodePool", "autopilot clusters manage their own nodes and cannot carry a node pool")
	}
	if !spec.Autopilot && spec.NodePool == nil {
		return nil, model.NewValidationError("nodePool", "standard gke clusters require an initial node pool")
	}

	logger := logging.FromContext(ctx)
	if spec.RoleARN != "" {
		logger.Warn(ctx, "gke does not take an iam role arn, dropping field", "cluster", spec.Name)
	}
	if spec.ResourceGroup != "" {
		logger.Warn(ctx, "gke has no resource groups, dropping field", "cluster", spec.Name)
	}
	if len(spec.SubnetIDs) > 1 {
		logger.Warn(ctx, "gke clusters attach to a single subnetwork, dropping extra subnets", "cluster", spec.Name)
	}

	c := &container.Cluster{
		Name:           spec.Name,
		ResourceLabels: gcpLabels(spec.Tags),
	}
	if spec.Version != "" {
		c.InitialClusterVersion = spec.Version
	}
	if spec.NetworkID != "" {
		c.Network = spec.NetworkID
	}
	if len(spec.SubnetIDs) > 0 {
		c.Subnetwork = spec.SubnetIDs[0]
	}
	if spec.Autopilot {
		c.Autopilot = &container.Autopilot{Enabled: true}
	} else {
		if dropped := gkeDroppedPoolFields(*spec.NodePool); len(dropped) > 0 {
			logger.Warn(ctx, "dropping node pool fields gke cannot express", "fields", dropped)
		}
		c.NodePools = []*container.NodePool{buildNodePool(*spec.NodePool)}
	}

	_, err = d.container.Projects.Locations.Clusters.Create(d.parentPath(d.region), &container.CreateClusterRequest{
		Cluster: c,
	}).Context(ctx).Do()
	if err != nil {
		return nil, d.wrapErr("create_cluster", err)
	}

	// The create call returns a long-running operation; the cluster object
	// is synthesized in CREATING state rather than read back.
	return &model.Cluster{
		ID:        spec.Name,
		Name:      spec.Name,
		Provider:  model.ProviderGCP,
		Region:    d.region,
		Version:   spec.Version,
		Status:    model.ClusterStatusCreating,
		Tags:      spec.Tags,
		Autopilot: spec.Autopilot,
	}, nil
}

// findCluster searches the candidate locations for the named cluster and
// returns it along with the location it was found at.
func (d *driver) findCluster(ctx context.Context, name string) (*container.Cluster, string, error) {
	for _, location := range d.locations() {
		c, err := d.container.Projects.Locations.Clusters.Get(d.clusterPath(location, name)).Context(ctx).Do()
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, "", d.wrapErr("get_cluster", err)
		}
		return c, location, nil
	}
	return nil, "", model.NewNotFoundError("cluster", name)
}

// ClusterGet returns the named cluster or a NotFoundError.
func (d *driver) ClusterGet(ctx context.Context, name string) (cluster *model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterGet")
	defer func() { cleanup(err) }()

	c, _, err := d.findCluster(ctx, name)
	if err != nil {
		return nil, err
	}
	return d.clusterToModel(c), nil
}

// ClusterList returns all clusters in the bound region and its zones.
// Locations that fail to list are skipped so one missing zone does not hide
// the rest.
func (d *driver) ClusterList(ctx context.Context) (clusters []*model.Cluster, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterList")
	defer func() { cleanup(err) }()

	logger := logging.FromContext(ctx)
	var mu sync.Mutex
	var found []*container.Cluster

	locations := d.locations()
	tasks := make([]parallel.Task, 0, len(locations))
	for _, location := range locations {
		tasks = append(tasks, func(ctx context.Context) error {
			out, err := d.container.Projects.Locations.Clusters.List(d.parentPath(location)).Context(ctx).Do()
			if err != nil {
				if !isNotFound(err) {
					logger.Warn(ctx, "skipping location that failed to list", "location", location, "err", err.Error())
				}
				return nil
			}
			mu.Lock()
			found = append(found, out.Clusters...)
			mu.Unlock()
			return nil
		})
	}
	if err := parallel.NewExecutor(0).Execute(ctx, tasks...); err != nil {
		return nil, d.wrapErr("list_clusters", err)
	}

	clusters = make([]*model.Cluster, 0, len(found))
	for _, c := range found {
		clusters = append(clusters, d.clusterToModel(c))
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Name < clusters[j].Name })
	return clusters, nil
}

// ClusterDelete deletes the named cluster. Deleting an absent cluster
// succeeds.
func (d *driver) ClusterDelete(ctx context.Context, name string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterDelete")
	defer func() { cleanup(err) }()

	_, location, err := d.findCluster(ctx, name)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "cluster already absent", "cluster", name)
			return nil
		}
		return err
	}

	_, err = d.container.Projects.Locations.Clusters.Delete(d.clusterPath(location, name)).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrapErr("delete_cluster", err)
	}
	return nil
}

// ClusterSetTags overwrites the cluster's resource labels. Keys are
// sanitized into valid label keys; the label fingerprint from the current
// cluster guards against concurrent label edits.
func (d *driver) ClusterSetTags(ctx context.Context, name string, tags map[string]string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterSetTags")
	defer func() { cleanup(err) }()

	c, location, err := d.findCluster(ctx, name)
	if err != nil {
		return err
	}

	_, err = d.container.Projects.Locations.Clusters.SetResourceLabels(d.clusterPath(location, name), &container.SetLabelsRequest{
		ResourceLabels:   gcpLabels(tags),
		LabelFingerprint: c.LabelFingerprint,
	}).Context(ctx).Do()
	if err != nil {
		return d.wrapErr("set_resource_labels", err)
	}
	return nil
}

// ClusterKubeconfig renders an exec-auth kubeconfig for the named cluster.
// Authentication shells out to gke-gcloud-auth-plugin so the document
// carries no long-lived secret.
func (d *driver) ClusterKubeconfig(ctx context.Context, name string) (kubeconfig *model.Kubeconfig, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterKubeconfig")
	defer func() { cleanup(err) }()

	c, location, err := d.findCluster(ctx, name)
	if err != nil {
		return nil, err
	}
	if c.Endpoint == "" || c.MasterAuth == nil || c.MasterAuth.ClusterCaCertificate == "" {
		return nil, model.NewProviderError(model.ProviderGCP, "kubeconfig",
			errors.New("cluster endpoint or certificate authority not yet available"))
	}

	content := renderKubeconfig(name, c.Endpoint, c.MasterAuth.ClusterCaCertificate, d.projectID, location)
	return providerdrv.NewKubeconfig(name, content), nil
}
