package main

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/adapters/store/inmem"
	"github.com/stratokube/strato/config/stratocfg"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/secrets"
)

// newScopeTestState seeds an in-memory store from a config with one
// workspace and two credentials, the way the file: db-url does.
func newScopeTestState(t *testing.T) *buildState {
	t.Helper()
	cfg := &stratocfg.Root{
		Version:   "v1",
		Workspace: stratocfg.Workspace{Name: "platform"},
		Credentials: []stratocfg.Credential{
			{
				Name:     "aws-prod",
				Provider: "aws",
				Data:     map[string]string{"access_key": "AKIA", "secret_key": "sk"},
			},
			{
				Name:     "gcp-dev",
				Provider: "gcp",
				Data: map[string]string{
					"type":         "service_account",
					"project_id":   "dev-1",
					"private_key":  "pk",
					"client_email": "sa@dev-1.iam.gserviceaccount.com",
					"client_id":    "123",
				},
			},
		},
		Defaults: stratocfg.Defaults{Region: "us-west-2", Credential: "aws-prod"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config validate: %v", err)
	}

	key, err := secrets.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	sealer, err := secrets.New(key)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}

	store := inmem.NewStore()
	if err := store.LoadFromConfig(context.Background(), cfg, sealer); err != nil {
		t.Fatalf("load config: %v", err)
	}
	return &buildState{Repos: store.Repositories(), Sealer: sealer, Config: cfg}
}

// newScopeTestCmd returns a command carrying the scope flags, the way
// provider-facing command groups do.
func newScopeTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addScopeFlags(cmd)
	return cmd
}

func TestResolveScope(t *testing.T) {
	state := newScopeTestState(t)
	ctx := context.Background()

	t.Run("config_defaults", func(t *testing.T) {
		cmd := newScopeTestCmd()
		scope, err := resolveScope(ctx, cmd, state)
		if err != nil {
			t.Fatalf("resolve scope: %v", err)
		}
		if scope.Provider != model.ProviderAWS {
			t.Fatalf("provider = %s, want aws", scope.Provider)
		}
		if scope.Region != "us-west-2" {
			t.Fatalf("region = %s, want us-west-2", scope.Region)
		}
		if scope.WorkspaceID == "" || scope.CredentialID == "" {
			t.Fatalf("scope IDs not resolved: %+v", scope)
		}
		if err := scope.Validate(); err != nil {
			t.Fatalf("scope invalid: %v", err)
		}
	})

	t.Run("flag_overrides_config", func(t *testing.T) {
		cmd := newScopeTestCmd()
		if err := cmd.PersistentFlags().Set("credential", "gcp-dev"); err != nil {
			t.Fatalf("set credential flag: %v", err)
		}
		if err := cmd.PersistentFlags().Set("region", "us-central1"); err != nil {
			t.Fatalf("set region flag: %v", err)
		}
		scope, err := resolveScope(ctx, cmd, state)
		if err != nil {
			t.Fatalf("resolve scope: %v", err)
		}
		if scope.Provider != model.ProviderGCP {
			t.Fatalf("provider = %s, want gcp", scope.Provider)
		}
		if scope.Region != "us-central1" {
			t.Fatalf("region = %s, want us-central1", scope.Region)
		}
	})

	t.Run("credential_resolves_by_id", func(t *testing.T) {
		creds, err := state.Repos.Credential.List(ctx, mustWorkspaceID(t, state))
		if err != nil {
			t.Fatalf("list credentials: %v", err)
		}
		var awsID string
		for _, c := range creds {
			if c.Name == "aws-prod" {
				awsID = c.ID
			}
		}
		cmd := newScopeTestCmd()
		if err := cmd.PersistentFlags().Set("credential", awsID); err != nil {
			t.Fatalf("set credential flag: %v", err)
		}
		scope, err := resolveScope(ctx, cmd, state)
		if err != nil {
			t.Fatalf("resolve scope: %v", err)
		}
		if scope.CredentialID != awsID {
			t.Fatalf("credential ID = %s, want %s", scope.CredentialID, awsID)
		}
	})

	t.Run("provider_cross_check", func(t *testing.T) {
		cmd := newScopeTestCmd()
		if err := cmd.PersistentFlags().Set("provider", "azure"); err != nil {
			t.Fatalf("set provider flag: %v", err)
		}
		_, err := resolveScope(ctx, cmd, state)
		if err == nil || !strings.Contains(err.Error(), "bound to provider aws") {
			t.Fatalf("expected provider mismatch error, got: %v", err)
		}
	})

	t.Run("workspace_not_found", func(t *testing.T) {
		cmd := newScopeTestCmd()
		if err := cmd.PersistentFlags().Set("workspace", "nope"); err != nil {
			t.Fatalf("set workspace flag: %v", err)
		}
		_, err := resolveScope(ctx, cmd, state)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("expected not found error, got: %v", err)
		}
	})

	t.Run("credential_not_found", func(t *testing.T) {
		cmd := newScopeTestCmd()
		if err := cmd.PersistentFlags().Set("credential", "nope"); err != nil {
			t.Fatalf("set credential flag: %v", err)
		}
		_, err := resolveScope(ctx, cmd, state)
		if err == nil || !strings.Contains(err.Error(), "not found in workspace") {
			t.Fatalf("expected not found error, got: %v", err)
		}
	})

	t.Run("region_required_without_default", func(t *testing.T) {
		bare := &buildState{Repos: state.Repos, Sealer: state.Sealer}
		cmd := newScopeTestCmd()
		if err := cmd.PersistentFlags().Set("workspace", "platform"); err != nil {
			t.Fatalf("set workspace flag: %v", err)
		}
		if err := cmd.PersistentFlags().Set("credential", "aws-prod"); err != nil {
			t.Fatalf("set credential flag: %v", err)
		}
		_, err := resolveScope(ctx, cmd, bare)
		if err == nil || !strings.Contains(err.Error(), "--region is required") {
			t.Fatalf("expected region error, got: %v", err)
		}
	})
}

func mustWorkspaceID(t *testing.T, state *buildState) string {
	t.Helper()
	list, err := state.Repos.Workspace.List(context.Background())
	if err != nil || len(list) == 0 {
		t.Fatalf("list workspaces: %v", err)
	}
	return list[0].ID
}

func TestResolveWorkspaceFallsBackToConfig(t *testing.T) {
	state := newScopeTestState(t)
	cmd := newScopeTestCmd()
	ws, err := resolveWorkspace(context.Background(), cmd, state)
	if err != nil {
		t.Fatalf("resolve workspace: %v", err)
	}
	if ws.Name != "platform" {
		t.Fatalf("workspace = %q, want platform", ws.Name)
	}
}
