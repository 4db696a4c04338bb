package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/kubeconfig"
	cuc "github.com/stratokube/strato/usecase/cluster"
	"gopkg.in/yaml.v3"
	"k8s.io/client-go/tools/clientcmd"
)

// newCmdCluster returns the parent command for cluster operations.
func newCmdCluster() *cobra.Command {
	c := &cobra.Command{
		Use:                "cluster",
		Short:              "Manage managed Kubernetes clusters",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addScopeFlags(c)
	c.AddCommand(newCmdClusterCreate())
	c.AddCommand(newCmdClusterGet())
	c.AddCommand(newCmdClusterList())
	c.AddCommand(newCmdClusterDelete())
	c.AddCommand(newCmdClusterKubeconfig())
	c.AddCommand(newCmdClusterTag())
	c.AddCommand(newCmdClusterPing())
	c.AddCommand(newCmdClusterNodePool())
	return c
}

// clusterSpec is the YAML/JSON input schema for `cluster create`.
type clusterSpec struct {
	Name          string            `yaml:"name" json:"name"`
	Version       string            `yaml:"version,omitempty" json:"version,omitempty"`
	Autopilot     bool              `yaml:"autopilot,omitempty" json:"autopilot,omitempty"`
	Tags          map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`
	NodePool      *nodePoolSpec     `yaml:"nodePool,omitempty" json:"nodePool,omitempty"`
	NetworkID     string            `yaml:"networkID,omitempty" json:"networkID,omitempty"`
	SubnetIDs     []string          `yaml:"subnetIDs,omitempty" json:"subnetIDs,omitempty"`
	RoleARN       string            `yaml:"roleARN,omitempty" json:"roleARN,omitempty"`
	ResourceGroup string            `yaml:"resourceGroup,omitempty" json:"resourceGroup,omitempty"`
}

// toModelClusterSpec converts a clusterSpec to a model.ClusterSpec.
func (s *clusterSpec) toModelClusterSpec() model.ClusterSpec {
	spec := model.ClusterSpec{
		Name:          s.Name,
		Version:       s.Version,
		Autopilot:     s.Autopilot,
		Tags:          s.Tags,
		NetworkID:     s.NetworkID,
		SubnetIDs:     s.SubnetIDs,
		RoleARN:       s.RoleARN,
		ResourceGroup: s.ResourceGroup,
	}
	if s.NodePool != nil {
		pool := s.NodePool.toModelNodePool()
		spec.NodePool = &pool
	}
	return spec
}

// loadClusterSpec loads a cluster spec from a YAML or JSON file.
func loadClusterSpec(path string) (*clusterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var spec clusterSpec
	// YAML parser handles JSON as well
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML/JSON: %w", err)
	}
	return &spec, nil
}

func newCmdClusterCreate() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:                "create",
		Short:              "Create a cluster",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			spec, err := loadClusterSpec(file)
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

			ctx, cleanup := withCmdRunLogger(ctx, "cluster.create", spec.Name)
			defer func() { cleanup(err) }()

			out, err := u.Create(ctx, &cuc.CreateInput{
				Scope: scope,
				Spec:  spec.toModelClusterSpec(),
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Cluster)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to YAML or JSON file containing the cluster specification (required)")
	return cmd
}

func newCmdClusterGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <name>",
		Short:              "Get a cluster",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.Get(ctx, &cuc.GetInput{Scope: scope, Name: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Cluster)
		},
	}
}

func newCmdClusterList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List clusters",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.List(ctx, &cuc.ListInput{Scope: scope})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Clusters)
		},
	}
}

func newCmdClusterDelete() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "delete <name>",
		Short:              "Delete a cluster",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "cluster.delete", args[0])
			defer func() { cleanup(err) }()

			if err := u.Delete(ctx, &cuc.DeleteInput{Scope: scope, Name: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func newCmdClusterKubeconfig() *cobra.Command {
	var (
		output     string
		ctxName    string
		merge      bool
		force      bool
		setCurrent bool
	)
	cmd := &cobra.Command{
		Use:                "kubeconfig <name>",
		Short:              "Download a cluster's kubeconfig",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.Kubeconfig(ctx, &cuc.KubeconfigInput{Scope: scope, Name: args[0]})
			if err != nil {
				return err
			}

			if merge {
				name := ctxName
				if name == "" {
					// Merged entries default to the cluster name so repeated
					// downloads land on the same context.
					name = args[0]
				}
				cfg, err := kubeconfig.Normalize(out.Kubeconfig.Content, name)
				if err != nil {
					return err
				}
				path := output
				if path == "" || path == "-" {
					path = clientcmd.NewDefaultClientConfigLoadingRules().GetDefaultFilename()
				}
				merged, finalCtx, change, err := kubeconfig.Merge(cfg, path, force, setCurrent)
				if err != nil {
					return err
				}
				if err := clientcmd.WriteToFile(*merged, path); err != nil {
					return fmt.Errorf("failed to write kubeconfig: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "merged context %s into %s\n", finalCtx, path)
				if change.Current {
					fmt.Fprintf(cmd.OutOrStdout(), "current context set to %s\n", finalCtx)
				}
				return nil
			}

			if ctxName != "" {
				cfg, err := kubeconfig.Normalize(out.Kubeconfig.Content, ctxName)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return kubeconfig.Print(cmd.OutOrStdout(), cfg, "yaml")
				}
				if err := clientcmd.WriteToFile(*cfg, output); err != nil {
					return fmt.Errorf("failed to write kubeconfig: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
				return nil
			}

			// Without --context the provider bytes pass through untouched.
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out.Kubeconfig.Content)
				return err
			}
			if err := os.WriteFile(output, out.Kubeconfig.Content, 0o600); err != nil {
				return fmt.Errorf("failed to write kubeconfig: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write kubeconfig to this path instead of stdout")
	cmd.Flags().StringVar(&ctxName, "context", "", "Rename the context, cluster and user entries")
	cmd.Flags().BoolVar(&merge, "merge", false, "Merge into an existing kubeconfig file instead of writing a standalone one")
	cmd.Flags().BoolVar(&force, "force", false, "On merge, replace same-named entries instead of suffixing")
	cmd.Flags().BoolVar(&setCurrent, "set-current", false, "On merge, select the merged context as current")
	return cmd
}

func newCmdClusterTag() *cobra.Command {
	var tags map[string]string
	cmd := &cobra.Command{
		Use:                "tag <name>",
		Short:              "Merge tags onto a cluster",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "cluster.tag", args[0])
			defer func() { cleanup(err) }()

			if err := u.Tag(ctx, &cuc.TagInput{Scope: scope, Name: args[0], Tags: tags}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tagged %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&tags, "tag", nil, "Tags to merge as key=value (repeatable)")
	return cmd
}

func newCmdClusterPing() *cobra.Command {
	return &cobra.Command{
		Use:                "ping <name>",
		Short:              "Probe a cluster's API server reachability",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildClusterUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "cluster.ping", args[0])
			defer func() { cleanup(err) }()

			out, err := u.Ping(ctx, &cuc.PingInput{Scope: scope, Name: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
