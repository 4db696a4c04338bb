package main

import (
	"context"
	"errors"
	"os"

	"log/slog"

	"github.com/spf13/cobra"
	_ "github.com/stratokube/strato/adapters/drivers/provider/aks"
	_ "github.com/stratokube/strato/adapters/drivers/provider/eks"
	_ "github.com/stratokube/strato/adapters/drivers/provider/gke"
	"github.com/stratokube/strato/config/stratocfg"
	"github.com/stratokube/strato/config/stratoenv"
	"github.com/stratokube/strato/internal/logging"
)

// activeLogFile is the project log file sink opened in PersistentPreRunE and
// closed by main after the run.
var activeLogFile *logging.LogFile

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stratoctl",
		Short:   "Strato multi-cloud Kubernetes CLI",
		Long:    "Strato multi-cloud Kubernetes CLI",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Resolve the optional project environment before flag registration so
	// .strato/config.yml can supply flag defaults.
	env, envErr := resolveProjectEnv()

	// Add global db-url flag
	defaultDB := os.Getenv("STRATO_DB_URL")
	if defaultDB == "" && env != nil {
		defaultDB = env.DBURL()
	}
	if defaultDB == "" {
		defaultDB = "file:" + stratocfg.DefaultConfigPath
	}
	cmd.PersistentFlags().String("db-url", defaultDB, "Database URL (env STRATO_DB_URL) (file:/path/to/strato.yml | sqlite:/path/to.db)")

	// global flags (db-url already exists)
	cmd.PersistentFlags().String("log-format", "human", "Log format (human|text|json) (env STRATO_LOG_FORMAT)")
	cmd.PersistentFlags().String("events-url", "", "Event bus URL (env STRATO_EVENTS_URL) (empty = in-process bus | nats://host:port)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		if c.Name() == "init" {
			// init runs before a project environment exists.
			return nil
		}
		if envErr != nil {
			return envErr
		}

		format, _ := c.Flags().GetString("log-format")
		if e := os.Getenv("STRATO_LOG_FORMAT"); e != "" { // env overrides flag
			format = e
		}

		levelName := ""
		if env != nil {
			levelName = env.Logging.Level
		}
		if e := os.Getenv("STRATO_LOG_LEVEL"); e != "" { // env overrides config
			levelName = e
		}
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}

		l, err := logging.New(format, level)
		if err != nil {
			return err
		}

		if env != nil {
			fileLogger, lf, err := newProjectFileLogger(env, level)
			if err != nil {
				return err
			}
			if fileLogger != nil {
				activeLogFile = lf
				l = logging.Tee(l, fileLogger)
			}
		}

		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdInit())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdWorkspace())
	cmd.AddCommand(newCmdCredential())
	cmd.AddCommand(newCmdCluster())
	cmd.AddCommand(newCmdNetwork())
	cmd.AddCommand(newCmdBulk())
	return cmd
}

// resolveProjectEnv locates the .strato project environment for this
// invocation. Absence of one is not an error; a present but unreadable one is.
func resolveProjectEnv() (*stratoenv.Env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil
	}
	env, err := stratoenv.Resolve(os.Getenv(stratoenv.RootEnvKey), os.Getenv(stratoenv.DirEnvKey), wd)
	if err != nil {
		if errors.Is(err, stratoenv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return env, nil
}

// newProjectFileLogger opens the project log file sink and returns a logger
// writing to it. Returns nil when the project disables file logging.
func newProjectFileLogger(env *stratoenv.Env, level slog.Leveler) (logging.Logger, *logging.LogFile, error) {
	output := env.Logging.Output
	if output == "none" || output == "-" {
		return nil, nil, nil
	}

	dir := env.LogDir()
	lf, err := logging.NewLogFile(&logging.LogConfig{
		Format: env.Logging.Format,
		Output: output,
		Dir:    dir,
	})
	if err != nil {
		return nil, nil, err
	}

	retention := env.Logging.RetentionDays
	if retention == 0 {
		retention = 7
	}
	_ = logging.CleanupOldLogFiles(dir, retention)

	format := env.Logging.Format
	if format == "" {
		format = "json"
	}
	l, err := logging.NewWithWriter(format, level, lf.Writer())
	if err != nil {
		lf.Close()
		return nil, nil, err
	}
	return l, lf, nil
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
	}
	if activeLogFile != nil {
		activeLogFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
