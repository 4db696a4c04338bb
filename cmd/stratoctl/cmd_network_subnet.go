package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/domain/model"
	netuc "github.com/stratokube/strato/usecase/network"
)

// newCmdNetworkSubnet returns the subnet command group.
func newCmdNetworkSubnet() *cobra.Command {
	c := &cobra.Command{
		Use:                "subnet",
		Short:              "Manage subnets",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.PersistentFlags().String("vpc", "", "VPC ID (required)")
	c.AddCommand(newCmdNetworkSubnetCreate())
	c.AddCommand(newCmdNetworkSubnetGet())
	c.AddCommand(newCmdNetworkSubnetList())
	c.AddCommand(newCmdNetworkSubnetDelete())
	return c
}

// vpcIDFromFlag reads the --vpc flag declared on the subnet and sg command
// groups.
func vpcIDFromFlag(cmd *cobra.Command) (string, error) {
	if f := findFlag(cmd, "vpc"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	return "", fmt.Errorf("--vpc is required")
}

func newCmdNetworkSubnetCreate() *cobra.Command {
	var cidr string
	var zone string
	var tags map[string]string
	cmd := &cobra.Command{
		Use:                "create <name>",
		Short:              "Create a subnet",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			vpcID, err := vpcIDFromFlag(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.subnet.create", args[0])
			defer func() { cleanup(err) }()

			out, err := u.SubnetCreate(ctx, &netuc.SubnetCreateInput{
				Scope: scope,
				Spec: model.SubnetSpec{
					Name:  args[0],
					VPCID: vpcID,
					CIDR:  cidr,
					Zone:  zone,
					Tags:  tags,
				},
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Subnet)
		},
	}
	cmd.Flags().StringVar(&cidr, "cidr", "", "Subnet CIDR block (required)")
	cmd.Flags().StringVar(&zone, "zone", "", "Availability zone (optional)")
	cmd.Flags().StringToStringVar(&tags, "tag", nil, "Tags as key=value (repeatable)")
	return cmd
}

func newCmdNetworkSubnetGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <id>",
		Short:              "Get a subnet",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			vpcID, err := vpcIDFromFlag(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.SubnetGet(ctx, &netuc.SubnetGetInput{
				Scope: scope,
				VPCID: vpcID,
				ID:    args[0],
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Subnet)
		},
	}
}

func newCmdNetworkSubnetList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List a VPC's subnets",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			vpcID, err := vpcIDFromFlag(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.SubnetList(ctx, &netuc.SubnetListInput{Scope: scope, VPCID: vpcID})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Subnets)
		},
	}
}

func newCmdNetworkSubnetDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <id>",
		Short:              "Delete a subnet",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildNetworkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			vpcID, err := vpcIDFromFlag(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.subnet.delete", args[0])
			defer func() { cleanup(err) }()

			if err := u.SubnetDelete(ctx, &netuc.SubnetDeleteInput{
				Scope: scope,
				VPCID: vpcID,
				ID:    args[0],
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
