package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stratokube/strato/config/stratocfg"
	"github.com/stratokube/strato/config/stratoenv"
)

func newCmdInit() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a strato project environment",
		Long: `Initialize a strato project environment by creating the .strato/ directory
structure and a starter configuration.

The init command creates:
  - .strato/ directory
  - .strato/config.yml pointing db.url at the project strato.yml
  - strato.yml starter configuration (only when absent)

If dir is given and does not exist, it is created recursively. An existing
strato.yml is never overwritten, even with -f.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, forceFlag)
		},
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing .strato/config.yml")
	return cmd
}

func runInit(cmd *cobra.Command, args []string, forceFlag bool) error {
	if len(args) > 0 && args[0] != "" {
		// Create the target directory if it doesn't exist (init-specific
		// behavior; other commands expect the project to exist).
		dir := args[0]
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
		if err := os.Chdir(dir); err != nil {
			return fmt.Errorf("changing directory to %q: %w", dir, err)
		}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	stratoDir := filepath.Join(workDir, stratoenv.DirName)
	configPath := filepath.Join(stratoDir, stratoenv.ConfigFileName)
	dataPath := filepath.Join(workDir, stratocfg.DefaultConfigPath)

	if !forceFlag {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use -f to overwrite)", configPath)
		}
	}

	if err := os.MkdirAll(stratoDir, 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", stratoDir, err)
	}

	data, err := stratoenv.InitialConfigYAML()
	if err != nil {
		return fmt.Errorf("generating default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized strato project environment in %s\n", stratoDir)
	fmt.Fprintf(out, "Created:\n")
	fmt.Fprintf(out, "  - %s\n", configPath)

	// The data config holds user credentials, so it is left alone once it
	// exists.
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		starter, err := stratocfg.InitialConfigYAML()
		if err != nil {
			return fmt.Errorf("generating starter config: %w", err)
		}
		if err := os.WriteFile(dataPath, starter, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", dataPath, err)
		}
		fmt.Fprintf(out, "  - %s\n", dataPath)
	}

	return nil
}
