package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/usecase/credential"
	"gopkg.in/yaml.v3"
)

// credentialSpec is the YAML/JSON on-disk representation for `credential add`.
type credentialSpec struct {
	Name     string            `yaml:"name" json:"name"`
	Provider string            `yaml:"provider" json:"provider"`
	Data     map[string]string `yaml:"data" json:"data"`
}

func newCmdCredential() *cobra.Command {
	c := &cobra.Command{
		Use:                "credential",
		Aliases:            []string{"cred"},
		Short:              "Manage provider credentials",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.PersistentFlags().String("workspace", "", "Workspace name or ID (defaults to the config workspace)")
	c.AddCommand(newCmdCredentialAdd())
	c.AddCommand(newCmdCredentialList())
	c.AddCommand(newCmdCredentialDelete())
	c.AddCommand(newCmdCredentialVerify())
	return c
}

func readCredentialSpec(cmd *cobra.Command, path string) (*credentialSpec, error) {
	if path == "" {
		return nil, errors.New("spec file required (-f)")
	}
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var spec credentialSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func newCmdCredentialAdd() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:                "add",
		Short:              "Add a credential (from spec file)",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildCredentialUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			spec, err := readCredentialSpec(cmd, file)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			ws, err := resolveWorkspace(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := uc.Create(ctx, &credential.CreateInput{
				WorkspaceID: ws.ID,
				Provider:    model.ProviderKind(spec.Provider),
				Name:        spec.Name,
				Data:        spec.Data,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Credential)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Path to credential spec (YAML), or '-' for stdin")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCmdCredentialList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List credentials",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildCredentialUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			ws, err := resolveWorkspace(ctx, cmd, state)
			if err != nil {
				return err
			}
			out, err := uc.List(ctx, &credential.ListInput{WorkspaceID: ws.ID})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Credentials)
		},
	}
}

func newCmdCredentialDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <name-or-id>",
		Short:              "Delete a credential",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildCredentialUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			ws, err := resolveWorkspace(ctx, cmd, state)
			if err != nil {
				return err
			}
			cred, err := findCredentialRef(ctx, state.Repos.Credential, ws.ID, args[0])
			if err != nil {
				return err
			}
			if _, err := uc.Delete(ctx, &credential.DeleteInput{
				WorkspaceID:  ws.ID,
				CredentialID: cred.ID,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", cred.ID)
			return nil
		},
	}
}

func newCmdCredentialVerify() *cobra.Command {
	var region string
	c := &cobra.Command{
		Use:                "verify <name-or-id>",
		Short:              "Verify a credential against its provider",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, err := buildCredentialUseCaseFunc(cmd)
			if err != nil {
				return err
			}
			state, err := buildStateFromDBFunc(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			ws, err := resolveWorkspace(ctx, cmd, state)
			if err != nil {
				return err
			}
			cred, err := findCredentialRef(ctx, state.Repos.Credential, ws.ID, args[0])
			if err != nil {
				return err
			}
			if region == "" && state.Config != nil {
				region = state.Config.Defaults.Region
			}

			ctx, cleanup := withCmdRunLogger(ctx, "credential.verify", cred.ID)
			defer func() { cleanup(err) }()

			out, err := uc.Verify(ctx, &credential.VerifyInput{
				WorkspaceID:  ws.ID,
				CredentialID: cred.ID,
				Region:       region,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	c.Flags().StringVar(&region, "region", "", "Provider region to verify in (defaults to config defaults.region)")
	return c
}
