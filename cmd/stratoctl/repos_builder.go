package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stratokube/strato/adapters/store/inmem"
	"github.com/stratokube/strato/adapters/store/rdb"
	"github.com/stratokube/strato/config/stratocfg"
	"github.com/stratokube/strato/domain"
	"github.com/stratokube/strato/internal/secrets"
)

// buildState bundles everything a db-url yields: storage repositories, the
// sealer guarding credential payloads and, for the file: scheme, the loaded
// configuration with its defaults.
type buildState struct {
	Repos  *domain.Repositories
	Sealer *secrets.Sealer
	Config *stratocfg.Root // nil unless the db-url uses the file: scheme
}

// stateCache caches built state per db-url so every builder in the same
// process sees the same in-memory store and the same sealer. With the file:
// scheme the store is not persisted; caching keeps IDs stable across use case
// builders within one command execution.
var (
	stateCache   = map[string]*buildState{}
	stateCacheMu sync.Mutex
)

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

// getDBURL extracts the db-url flag value from the command hierarchy.
func getDBURL(cmd *cobra.Command) string {
	f := findFlag(cmd, "db-url")
	if f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "file:" + stratocfg.DefaultConfigPath
}

// buildSealer constructs the credential sealer. The key comes from
// STRATO_ENCRYPTION_KEY. With the file: scheme a missing key falls back to a
// fresh random key: the store lives only for this process, so sealed blobs
// never need to outlive the key. Persistent stores require an explicit key,
// otherwise credentials written today would be unreadable tomorrow.
func buildSealer(ephemeralOK bool) (*secrets.Sealer, error) {
	key := os.Getenv("STRATO_ENCRYPTION_KEY")
	if key == "" {
		if !ephemeralOK {
			return nil, fmt.Errorf("STRATO_ENCRYPTION_KEY is required for persistent stores")
		}
		generated, err := secrets.GenerateKey()
		if err != nil {
			return nil, err
		}
		key = generated
	}
	return secrets.New(key)
}

// Indirection for tests.
var buildStateFromDBFunc = buildStateFromDB

// buildStateFromDB creates repositories, sealer and config from db-url.
func buildStateFromDB(cmd *cobra.Command) (*buildState, error) {
	dbURL := getDBURL(cmd)

	stateCacheMu.Lock()
	if cached, ok := stateCache[dbURL]; ok && cached != nil {
		stateCacheMu.Unlock()
		return cached, nil
	}
	stateCacheMu.Unlock()

	var state *buildState
	switch {
	case strings.HasPrefix(dbURL, "file:"):
		filePath := strings.TrimPrefix(dbURL, "file:")
		if filePath == "" {
			return nil, fmt.Errorf("file path is required for file: URL")
		}

		cfg, err := stratocfg.Load(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", filePath, err)
		}

		sealer, err := buildSealer(true)
		if err != nil {
			return nil, err
		}

		store := inmem.NewStore()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := store.LoadFromConfig(ctx, cfg, sealer); err != nil {
			return nil, fmt.Errorf("failed to load config into store: %w", err)
		}

		state = &buildState{Repos: store.Repositories(), Sealer: sealer, Config: cfg}

	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		sealer, err := buildSealer(false)
		if err != nil {
			return nil, err
		}
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		state = &buildState{
			Repos: &domain.Repositories{
				Workspace:  rdb.NewWorkspaceRepository(db),
				Credential: rdb.NewCredentialRepository(db),
				BulkOp:     rdb.NewBulkOperationRepository(db),
			},
			Sealer: sealer,
		}

	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}

	stateCacheMu.Lock()
	stateCache[dbURL] = state
	stateCacheMu.Unlock()
	return state, nil
}
