package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/domain/model"
)

// addScopeFlags registers the provider-scope flags shared by provider-facing
// command groups. Values fall back to the config defaults in file: mode.
func addScopeFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("workspace", "", "Workspace name or ID (defaults to the config workspace)")
	cmd.PersistentFlags().String("credential", "", "Credential name or ID (defaults to config defaults.credential)")
	cmd.PersistentFlags().String("region", "", "Provider region (defaults to config defaults.region)")
	cmd.PersistentFlags().String("provider", "", "Expected provider (aws|gcp|azure); cross-checked against the credential")
}

// resolveScopeFunc is an indirection for tests.
var resolveScopeFunc = resolveScope

// resolveScope assembles the ProviderScope for a command from flags, config
// defaults and the stores. The provider is always read from the credential
// record; a --provider value only cross-checks it.
func resolveScope(ctx context.Context, cmd *cobra.Command, state *buildState) (model.ProviderScope, error) {
	var scope model.ProviderScope

	flagStr := func(name string) string {
		if f := findFlag(cmd, name); f != nil {
			return f.Value.String()
		}
		return ""
	}

	wsRef := flagStr("workspace")
	credRef := flagStr("credential")
	region := flagStr("region")
	wantProvider := flagStr("provider")
	if state.Config != nil {
		if wsRef == "" {
			wsRef = state.Config.Workspace.Name
		}
		if credRef == "" {
			credRef = state.Config.Defaults.Credential
		}
		if region == "" {
			region = state.Config.Defaults.Region
		}
	}
	if wsRef == "" {
		return scope, fmt.Errorf("--workspace is required")
	}
	if credRef == "" {
		return scope, fmt.Errorf("--credential is required")
	}
	if region == "" {
		return scope, fmt.Errorf("--region is required")
	}

	ws, err := findWorkspaceRef(ctx, state.Repos.Workspace, wsRef)
	if err != nil {
		return scope, err
	}
	cred, err := findCredentialRef(ctx, state.Repos.Credential, ws.ID, credRef)
	if err != nil {
		return scope, err
	}
	if wantProvider != "" && string(cred.Provider) != wantProvider {
		return scope, fmt.Errorf("credential %s is bound to provider %s, not %s", cred.Name, cred.Provider, wantProvider)
	}

	return model.ProviderScope{
		WorkspaceID:  ws.ID,
		CredentialID: cred.ID,
		Provider:     cred.Provider,
		Region:       region,
	}, nil
}

// resolveWorkspace resolves the --workspace flag (or the config workspace)
// to a stored workspace.
func resolveWorkspace(ctx context.Context, cmd *cobra.Command, state *buildState) (*model.Workspace, error) {
	ref := ""
	if f := findFlag(cmd, "workspace"); f != nil {
		ref = f.Value.String()
	}
	if ref == "" && state.Config != nil {
		ref = state.Config.Workspace.Name
	}
	if ref == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	return findWorkspaceRef(ctx, state.Repos.Workspace, ref)
}

// findWorkspaceRef resolves ref as a workspace ID first, then as a name.
func findWorkspaceRef(ctx context.Context, repo domain.WorkspaceRepository, ref string) (*model.Workspace, error) {
	if ws, err := repo.Get(ctx, ref); err == nil {
		return ws, nil
	}
	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, ws := range list {
		if ws.Name == ref {
			return ws, nil
		}
	}
	return nil, fmt.Errorf("workspace %q not found", ref)
}

// findCredentialRef resolves ref as a credential ID first, then as a name
// within the workspace. An ID that belongs to another workspace is treated
// as not found rather than leaking its existence.
func findCredentialRef(ctx context.Context, repo domain.CredentialRepository, workspaceID, ref string) (*model.Credential, error) {
	if cred, err := repo.Get(ctx, ref); err == nil && cred.WorkspaceID == workspaceID {
		return cred, nil
	}
	list, err := repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	for _, cred := range list {
		if cred.Name == ref {
			return cred, nil
		}
	}
	return nil, fmt.Errorf("credential %q not found in workspace", ref)
}
