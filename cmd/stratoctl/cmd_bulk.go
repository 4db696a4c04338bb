package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	buc "github.com/stratokube/strato/usecase/bulk"
)

// newCmdBulk returns the parent command for bulk cluster operations.
func newCmdBulk() *cobra.Command {
	c := &cobra.Command{
		Use:                "bulk",
		Short:              "Run and track bulk cluster operations",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addScopeFlags(c)
	c.AddCommand(newCmdBulkDelete())
	c.AddCommand(newCmdBulkTag())
	c.AddCommand(newCmdBulkStatus())
	c.AddCommand(newCmdBulkCancel())
	c.AddCommand(newCmdBulkList())
	return c
}

func newCmdBulkDelete() *cobra.Command {
	var targets []string
	var wait bool
	cmd := &cobra.Command{
		Use:                "delete",
		Short:              "Delete many clusters at once",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildBulkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return fmt.Errorf("--targets is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Hour)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "bulk.delete", "")
			defer func() { cleanup(err) }()

			out, err := u.SubmitDelete(ctx, &buc.SubmitDeleteInput{
				Scope:   scope,
				Targets: targets,
			})
			if err != nil {
				return err
			}
			if wait {
				done, err := u.Wait(ctx, &buc.WaitInput{ID: out.Snapshot.ID})
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(done.Operation)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Snapshot)
		},
	}
	cmd.Flags().StringSliceVar(&targets, "targets", nil, "Cluster names to delete (comma-separated or repeated)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the operation finishes")
	return cmd
}

func newCmdBulkTag() *cobra.Command {
	var targets []string
	var tags map[string]string
	var wait bool
	cmd := &cobra.Command{
		Use:                "tag",
		Short:              "Merge tags onto many clusters at once",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			u, err := buildBulkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return fmt.Errorf("--targets is required")
			}
			if len(tags) == 0 {
				return fmt.Errorf("--tag is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Hour)
			defer cancel()
			scope, err := resolveScopeFunc(ctx, cmd, state)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(ctx, "bulk.tag", "")
			defer func() { cleanup(err) }()

			out, err := u.SubmitTag(ctx, &buc.SubmitTagInput{
				Scope:   scope,
				Targets: targets,
				Tags:    tags,
			})
			if err != nil {
				return err
			}
			if wait {
				done, err := u.Wait(ctx, &buc.WaitInput{ID: out.Snapshot.ID})
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(done.Operation)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Snapshot)
		},
	}
	cmd.Flags().StringSliceVar(&targets, "targets", nil, "Cluster names to tag (comma-separated or repeated)")
	cmd.Flags().StringToStringVar(&tags, "tag", nil, "Tags to merge as key=value (repeatable)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the operation finishes")
	return cmd
}

func newCmdBulkStatus() *cobra.Command {
	return &cobra.Command{
		Use:                "status <id>",
		Short:              "Show a bulk operation's progress",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildBulkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			out, err := u.Status(ctx, &buc.StatusInput{ID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Operation)
		},
	}
}

func newCmdBulkCancel() *cobra.Command {
	return &cobra.Command{
		Use:                "cancel <id>",
		Short:              "Cancel a bulk operation",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildBulkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			ctx, cleanup := withCmdRunLogger(ctx, "bulk.cancel", args[0])
			defer func() { cleanup(err) }()

			out, err := u.Cancel(ctx, &buc.CancelInput{ID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Operation)
		},
	}
}

func newCmdBulkList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List bulk operations",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildBulkUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			// Filter by the scoped workspace when one is set; otherwise list
			// every workspace's operations.
			var workspaceID string
			ref := ""
			if f := findFlag(cmd, "workspace"); f != nil && f.Value.String() != "" {
				ref = f.Value.String()
			} else if state.Config != nil && state.Config.Workspace.Name != "" {
				ref = state.Config.Workspace.Name
			}
			if ref != "" {
				ws, err := findWorkspaceRef(ctx, state.Repos.Workspace, ref)
				if err != nil {
					return err
				}
				workspaceID = ws.ID
			}

			out, err := u.List(ctx, &buc.ListInput{WorkspaceID: workspaceID})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Operations)
		},
	}
}
