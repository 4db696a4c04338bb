package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/usecase/workspace"
)

func newCmdWorkspace() *cobra.Command {
	c := &cobra.Command{
		Use:                "workspace",
		Aliases:            []string{"ws"},
		Short:              "Manage workspaces",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdWorkspaceCreate())
	c.AddCommand(newCmdWorkspaceList())
	c.AddCommand(newCmdWorkspaceDelete())
	return c
}

func newCmdWorkspaceCreate() *cobra.Command {
	return &cobra.Command{
		Use:                "create <name>",
		Short:              "Create a workspace",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			out, err := uc.Create(ctx, &workspace.CreateInput{Name: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Workspace)
		},
	}
}

func newCmdWorkspaceList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List workspaces",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			out, err := uc.List(ctx, &workspace.ListInput{})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Workspaces)
		},
	}
}

func newCmdWorkspaceDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <name-or-id>",
		Short:              "Delete a workspace",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildWorkspaceUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			ws, err := findWorkspaceRef(ctx, state.Repos.Workspace, args[0])
			if err != nil {
				return err
			}
			if _, err := uc.Delete(ctx, &workspace.DeleteInput{WorkspaceID: ws.ID}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", ws.ID)
			return nil
		},
	}
}
