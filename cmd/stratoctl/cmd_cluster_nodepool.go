package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/domain/model"
	nuc "github.com/stratokube/strato/usecase/nodepool"
	"gopkg.in/yaml.v3"
)

// newCmdClusterNodePool returns the root nodepool command.
func newCmdClusterNodePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "nodepool",
		Short:              "Manage cluster node pools",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().String("cluster", "", "Cluster name (required)")
	cmd.AddCommand(
		newCmdClusterNodePoolList(),
		newCmdClusterNodePoolCreate(),
		newCmdClusterNodePoolUpdate(),
		newCmdClusterNodePoolDelete(),
	)
	return cmd
}

// clusterNameFromFlag reads the --cluster flag declared on the nodepool
// command group.
func clusterNameFromFlag(cmd *cobra.Command) (string, error) {
	if f := findFlag(cmd, "cluster"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	return "", fmt.Errorf("--cluster is required")
}

// nodePoolSpec represents the YAML/JSON input schema for create/update operations.
type nodePoolSpec struct {
	Name          string             `yaml:"name" json:"name"`
	Version       string             `yaml:"version,omitempty" json:"version,omitempty"`
	InstanceTypes []string           `yaml:"instanceTypes,omitempty" json:"instanceTypes,omitempty"`
	Scaling       *struct {
		Min     int32 `yaml:"min" json:"min"`
		Max     int32 `yaml:"max" json:"max"`
		Desired int32 `yaml:"desired" json:"desired"`
	} `yaml:"scaling,omitempty" json:"scaling,omitempty"`
	DiskSizeGB   *int32             `yaml:"diskSizeGB,omitempty" json:"diskSizeGB,omitempty"`
	CapacityType string             `yaml:"capacityType,omitempty" json:"capacityType,omitempty"`
	Labels       *map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Zones        *[]string          `yaml:"zones,omitempty" json:"zones,omitempty"`
	RoleARN      string             `yaml:"roleARN,omitempty" json:"roleARN,omitempty"`
	AMIType      string             `yaml:"amiType,omitempty" json:"amiType,omitempty"`
	Mode         string             `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// toModelNodePool converts a nodePoolSpec to a model.NodePool.
func (s *nodePoolSpec) toModelNodePool() model.NodePool {
	var pool model.NodePool
	if s.Name != "" {
		pool.Name = &s.Name
	}
	if s.Version != "" {
		pool.Version = &s.Version
	}
	if len(s.InstanceTypes) > 0 {
		pool.InstanceTypes = &s.InstanceTypes
	}
	if s.Scaling != nil {
		pool.Scaling = &model.NodePoolScaling{
			Min:     s.Scaling.Min,
			Max:     s.Scaling.Max,
			Desired: s.Scaling.Desired,
		}
	}
	if s.DiskSizeGB != nil {
		pool.DiskSizeGB = s.DiskSizeGB
	}
	if s.CapacityType != "" {
		pool.CapacityType = &s.CapacityType
	}
	if s.Labels != nil {
		pool.Labels = s.Labels
	}
	if s.Zones != nil {
		pool.Zones = s.Zones
	}
	if s.RoleARN != "" {
		pool.RoleARN = &s.RoleARN
	}
	if s.AMIType != "" {
		pool.AMIType = &s.AMIType
	}
	if s.Mode != "" {
		pool.Mode = &s.Mode
	}
	return pool
}

// loadNodePoolSpec loads a node pool spec from a YAML or JSON file.
func loadNodePoolSpec(path string) (*nodePoolSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var spec nodePoolSpec
	// Try YAML first (YAML parser can handle JSON as well)
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML/JSON: %w", err)
	}

	return &spec, nil
}

// newCmdClusterNodePoolList lists node pools in a cluster.
func newCmdClusterNodePoolList() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:                "list",
		Short:              "List node pools",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildNodePoolUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			clusterName, err := clusterNameFromFlag(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			out, err := u.List(ctx, &nuc.ListInput{
				Scope:       scope,
				ClusterName: clusterName,
				Name:        name,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Pools)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Filter by node pool name (optional)")
	return cmd
}

// newCmdClusterNodePoolCreate creates a new node pool.
func newCmdClusterNodePoolCreate() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "create",
		Short:              "Create a node pool",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildNodePoolUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			clusterName, err := clusterNameFromFlag(cmd)
			if err != nil {
				return err
			}

			if file == "" {
				return fmt.Errorf("--file is required")
			}

			spec, err := loadNodePoolSpec(file)
			if err != nil {
				return err
			}

			if spec.Name == "" {
				return fmt.Errorf("name is required in the specification file")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			resourceID := clusterName + "/nodepool:" + spec.Name
			ctx, cleanup := withCmdRunLogger(ctx, "nodepool.create", resourceID)
			defer func() { cleanup(err) }()

			out, err := u.Create(ctx, &nuc.CreateInput{
				Scope:       scope,
				ClusterName: clusterName,
				Pool:        spec.toModelNodePool(),
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Pool)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing node pool specification (required)")
	return cmd
}

// newCmdClusterNodePoolUpdate updates an existing node pool.
func newCmdClusterNodePoolUpdate() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "update",
		Short:              "Update a node pool",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildNodePoolUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			clusterName, err := clusterNameFromFlag(cmd)
			if err != nil {
				return err
			}

			if file == "" {
				return fmt.Errorf("--file is required")
			}

			spec, err := loadNodePoolSpec(file)
			if err != nil {
				return err
			}

			if spec.Name == "" {
				return fmt.Errorf("name is required in the specification file")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			resourceID := clusterName + "/nodepool:" + spec.Name
			ctx, cleanup := withCmdRunLogger(ctx, "nodepool.update", resourceID)
			defer func() { cleanup(err) }()

			out, err := u.Update(ctx, &nuc.UpdateInput{
				Scope:       scope,
				ClusterName: clusterName,
				Pool:        spec.toModelNodePool(),
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Pool)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing node pool specification (required)")
	return cmd
}

// newCmdClusterNodePoolDelete deletes a node pool.
func newCmdClusterNodePoolDelete() *cobra.Command {
	var name string
	var force bool
	cmd := &cobra.Command{
		Use:                "delete",
		Short:              "Delete a node pool",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildNodePoolUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			clusterName, err := clusterNameFromFlag(cmd)
			if err != nil {
				return err
			}

			if name == "" {
				return fmt.Errorf("--name is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			resourceID := clusterName + "/nodepool:" + name
			ctx, cleanup := withCmdRunLogger(ctx, "nodepool.delete", resourceID)
			defer func() { cleanup(err) }()

			if err := u.Delete(ctx, &nuc.DeleteInput{
				Scope:       scope,
				ClusterName: clusterName,
				Name:        name,
				Force:       force,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Node pool name (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the provider's drain if supported")
	return cmd
}
