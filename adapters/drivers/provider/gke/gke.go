// Package gke implements the GCP provider driver on top of GKE and Compute
// Engine.
//
// A driver instance is bound to one resolved credential and one location. The
// location may be a region (us-central1) or a zone (us-central1-a); lookups
// search the region's zones the way gcloud does, so clusters created at
// either level are found.
package gke

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/container/v1"
	"google.golang.org/api/option"

	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/domain/model"
)

// driver implements the GCP provider driver.
type driver struct {
	projectID string
	region    string
	container *container.Service
	compute   *compute.Service
}

// ID returns the provider identifier.
func (d *driver) ID() string { return string(model.ProviderGCP) }

// init registers the GCP driver.
func init() {
	providerdrv.Register(model.ProviderGCP, func(ctx context.Context, cred *model.ResolvedCredential, region string) (providerdrv.Driver, error) {
		projectID := cred.Get("project_id")
		if projectID == "" {
			return nil, model.NewValidationError("credential", "gcp credential requires project_id")
		}

		// The service-account document is rebuilt from the decrypted map and
		// handed to the SDK as credentials JSON.
		jsonData, err := json.Marshal(cred.Data)
		if err != nil {
			return nil, fmt.Errorf("marshal gcp credential: %w", err)
		}

		containerSvc, err := container.NewService(ctx, option.WithCredentialsJSON(jsonData))
		if err != nil {
			return nil, fmt.Errorf("create gcp container service: %w", err)
		}
		computeSvc, err := compute.NewService(ctx, option.WithCredentialsJSON(jsonData))
		if err != nil {
			return nil, fmt.Errorf("create gcp compute service: %w", err)
		}

		return &driver{
			projectID: projectID,
			region:    region,
			container: containerSvc,
			compute:   computeSvc,
		}, nil
	})
}

// zoneSuffix matches a zonal location like us-central1-a.
var zoneSuffix = regexp.MustCompile(`-[a-z]$`)

// locations returns the candidate locations to search for a cluster: the
// bound location itself, plus the region's conventional zones when the bound
// location is a region.
func (d *driver) locations() []string {
	if zoneSuffix.MatchString(d.region) {
		return []string{d.region}
	}
	return []string{
		d.region,
		d.region + "-a",
		d.region + "-b",
		d.region + "-c",
	}
}

func (d *driver) parentPath(location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", d.projectID, location)
}

func (d *driver) clusterPath(location, clusterName string) string {
	return fmt.Sprintf("projects/%s/locations/%s/clusters/%s", d.projectID, location, clusterName)
}

func (d *driver) nodePoolPath(location, clusterName, poolName string) string {
	return fmt.Sprintf("projects/%s/locations/%s/clusters/%s/nodePools/%s", d.projectID, location, clusterName, poolName)
}
