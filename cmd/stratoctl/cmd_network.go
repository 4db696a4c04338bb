package main

import (
	"github.com/spf13/cobra"
)

// newCmdNetwork returns the parent command for VPC, subnet and security
// group operations.
func newCmdNetwork() *cobra.Command {
	c := &cobra.Command{
		Use:                "network",
		Short:              "Manage VPCs, subnets and security groups",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addScopeFlags(c)
	c.AddCommand(newCmdNetworkVPC())
	c.AddCommand(newCmdNetworkSubnet())
	c.AddCommand(newCmdNetworkSG())
	return c
}
