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

// newCmdNetworkVPC returns the vpc command group.
func newCmdNetworkVPC() *cobra.Command {
	c := &cobra.Command{
		Use:                "vpc",
		Short:              "Manage VPCs (AWS VPC, GCP network, Azure VNet)",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdNetworkVPCCreate())
	c.AddCommand(newCmdNetworkVPCGet())
	c.AddCommand(newCmdNetworkVPCList())
	c.AddCommand(newCmdNetworkVPCDelete())
	return c
}

func newCmdNetworkVPCCreate() *cobra.Command {
	var cidr string
	var tags map[string]string
	cmd := &cobra.Command{
		Use:                "create <name>",
		Short:              "Create a VPC",
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
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.vpc.create", args[0])
			defer func() { cleanup(err) }()

			out, err := u.VPCCreate(ctx, &netuc.VPCCreateInput{
				Scope: scope,
				Spec: model.VPCSpec{
					Name: args[0],
					CIDR: cidr,
					Tags: tags,
				},
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.VPC)
		},
	}
	cmd.Flags().StringVar(&cidr, "cidr", "", "VPC CIDR block (e.g. 10.0.0.0/16)")
	cmd.Flags().StringToStringVar(&tags, "tag", nil, "Tags as key=value (repeatable)")
	return cmd
}

func newCmdNetworkVPCGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <id>",
		Short:              "Get a VPC",
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
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.VPCGet(ctx, &netuc.VPCGetInput{Scope: scope, ID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.VPC)
		},
	}
}

func newCmdNetworkVPCList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List VPCs",
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
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := u.VPCList(ctx, &netuc.VPCListInput{Scope: scope})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.VPCs)
		},
	}
}

func newCmdNetworkVPCDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <id>",
		Short:              "Delete a VPC",
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
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "network.vpc.delete", args[0])
			defer func() { cleanup(err) }()

			if err := u.VPCDelete(ctx, &netuc.VPCDeleteInput{Scope: scope, ID: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
