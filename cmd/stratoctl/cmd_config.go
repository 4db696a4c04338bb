package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/config/stratocfg"
	"gopkg.in/yaml.v3"
)

// newCmdConfig returns a command that reads and validates strato.yml.
func newCmdConfig() *cobra.Command {
	c := &cobra.Command{
		Use:                "config",
		Short:              "Read and validate configuration",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.PersistentFlags().StringP("file", "f", "", "Path to strato.yml (defaults to the file: db-url)")
	c.AddCommand(newCmdConfigShow())
	c.AddCommand(newCmdConfigValidate())
	return c
}

// configPath resolves the config file path: the --file flag wins, then a
// file: db-url, then the conventional default.
func configPath(cmd *cobra.Command) string {
	if f := findFlag(cmd, "file"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	if dbURL := getDBURL(cmd); strings.HasPrefix(dbURL, "file:") {
		return strings.TrimPrefix(dbURL, "file:")
	}
	return stratocfg.DefaultConfigPath
}

func newCmdConfigShow() *cobra.Command {
	return &cobra.Command{
		Use:                "show",
		Short:              "Show the configuration with credential values masked",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := stratocfg.Load(configPath(cmd))
			if err != nil {
				return err
			}
			// Keep credential keys visible so a user can see what is
			// configured, but never echo the values.
			masked := *cfg
			masked.Credentials = make([]stratocfg.Credential, len(cfg.Credentials))
			for i, cr := range cfg.Credentials {
				mc := cr
				mc.Data = make(map[string]string, len(cr.Data))
				for k := range cr.Data {
					mc.Data[k] = "****"
				}
				masked.Credentials[i] = mc
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(&masked)
		},
	}
}

func newCmdConfigValidate() *cobra.Command {
	return &cobra.Command{
		Use:                "validate",
		Short:              "Validate the configuration file",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath(cmd)
			if _, err := stratocfg.Load(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
			return nil
		},
	}
}
