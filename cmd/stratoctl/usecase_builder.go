package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/adapters/events"
	"github.com/stratokube/strato/adapters/kube"
	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/usecase/bulk"
	"github.com/stratokube/strato/usecase/cluster"
	"github.com/stratokube/strato/usecase/credential"
	"github.com/stratokube/strato/usecase/network"
	"github.com/stratokube/strato/usecase/nodepool"
	"github.com/stratokube/strato/usecase/workspace"
)

// localBusKeep bounds the in-process bus history so `bulk list` style
// debugging has something to look at without growing unbounded.
const localBusKeep = 128

// notifierCache and engineCache are per db-url singletons: the bulk engine's
// live registry and the local bus history only make sense when every builder
// in the process shares one instance.
var (
	notifierCache = map[string]model.Notifier{}
	engineCache   = map[string]*bulk.Engine{}
	singletonsMu  sync.Mutex
)

// getEventsURL extracts the events-url from flag, env and config, in
// ascending precedence: config < flag < env.
func getEventsURL(cmd *cobra.Command, state *buildState) string {
	url := ""
	if state.Config != nil {
		url = state.Config.Events.URL
	}
	if f := findFlag(cmd, "events-url"); f != nil && f.Value.String() != "" {
		url = f.Value.String()
	}
	if env := os.Getenv("STRATO_EVENTS_URL"); env != "" { // env overrides flag
		url = env
	}
	return url
}

// buildNotifier returns the event notifier for the command's db-url. An empty
// events URL selects the in-process bus; nats:// connects to NATS.
func buildNotifier(cmd *cobra.Command, state *buildState) (model.Notifier, error) {
	dbURL := getDBURL(cmd)

	singletonsMu.Lock()
	defer singletonsMu.Unlock()
	if n, ok := notifierCache[dbURL]; ok {
		return n, nil
	}

	url := getEventsURL(cmd, state)
	var notifier model.Notifier
	switch {
	case url == "":
		notifier = events.NewLocalBus(localBusKeep)
	case strings.HasPrefix(url, "nats://"):
		conn, err := events.ConnectNATS(url)
		if err != nil {
			return nil, err
		}
		notifier = conn
	default:
		return nil, fmt.Errorf("unsupported events scheme: %s", url)
	}
	notifierCache[dbURL] = notifier
	return notifier, nil
}

// buildEngine returns the process-wide bulk engine for the command's db-url.
func buildEngine(cmd *cobra.Command, state *buildState) (*bulk.Engine, error) {
	notifier, err := buildNotifier(cmd, state)
	if err != nil {
		return nil, err
	}
	dbURL := getDBURL(cmd)

	singletonsMu.Lock()
	defer singletonsMu.Unlock()
	if e, ok := engineCache[dbURL]; ok {
		return e, nil
	}

	workers := 0
	if state.Config != nil {
		workers = state.Config.Bulk.Workers
	}
	engine := bulk.NewEngine(state.Repos.BulkOp, notifier, workers)
	engineCache[dbURL] = engine
	return engine, nil
}

// buildPorts wires the provider port adapters over the credential resolver.
func buildPorts(state *buildState) *providerdrv.Ports {
	resolver := credential.NewResolver(state.Repos.Credential, state.Sealer)
	return providerdrv.NewPorts(resolver)
}

// Indirections for tests.
var (
	buildWorkspaceUseCaseFunc  = buildWorkspaceUseCase
	buildCredentialUseCaseFunc = buildCredentialUseCase
	buildClusterUseCaseFunc    = buildClusterUseCase
	buildNodePoolUseCaseFunc   = buildNodePoolUseCase
	buildNetworkUseCaseFunc    = buildNetworkUseCase
	buildBulkUseCaseFunc       = buildBulkUseCase
)

// buildWorkspaceUseCase creates the workspace use case with required repositories.
func buildWorkspaceUseCase(cmd *cobra.Command) (*workspace.UseCase, error) {
	state, err := buildStateFromDBFunc(cmd)
	if err != nil {
		return nil, err
	}
	return &workspace.UseCase{
		Repos: &workspace.Repos{Workspace: state.Repos.Workspace},
	}, nil
}

// buildCredentialUseCase creates the credential use case. The cluster port is
// wired so `credential verify` can probe the provider.
func buildCredentialUseCase(cmd *cobra.Command) (*credential.UseCase, error) {
	state, err := buildStateFromDBFunc(cmd)
	if err != nil {
		return nil, err
	}
	return &credential.UseCase{
		Repos: &credential.Repos{
			Workspace:  state.Repos.Workspace,
			Credential: state.Repos.Credential,
		},
		Sealer:   state.Sealer,
		Clusters: buildPorts(state).Cluster,
	}, nil
}

// buildClusterUseCase creates the cluster use case with ports and notifier.
func buildClusterUseCase(cmd *cobra.Command) (*cluster.UseCase, error) {
	state, err := buildStateFromDBFunc(cmd)
	if err != nil {
		return nil, err
	}
	notifier, err := buildNotifier(cmd, state)
	if err != nil {
		return nil, err
	}
	return &cluster.UseCase{
		Clusters: buildPorts(state).Cluster,
		Kube:     kube.NewProber(),
		Notifier: notifier,
	}, nil
}

// buildNodePoolUseCase creates the node pool use case.
func buildNodePoolUseCase(cmd *cobra.Command) (*nodepool.UseCase, error) {
	state, err := buildStateFromDBFunc(cmd)
	if err != nil {
		return nil, err
	}
	notifier, err := buildNotifier(cmd, state)
	if err != nil {
		return nil, err
	}
	return &nodepool.UseCase{
		Pools:    buildPorts(state).NodePool,
		Notifier: notifier,
	}, nil
}

// buildNetworkUseCase creates the network use case.
func buildNetworkUseCase(cmd *cobra.Command) (*network.UseCase, error) {
	state, err := buildStateFromDBFunc(cmd)
	if err != nil {
		return nil, err
	}
	notifier, err := buildNotifier(cmd, state)
	if err != nil {
		return nil, err
	}
	return &network.UseCase{
		Networks: buildPorts(state).Network,
		Notifier: notifier,
	}, nil
}

// buildBulkUseCase creates the bulk use case over the process-wide engine.
func buildBulkUseCase(cmd *cobra.Command) (*bulk.UseCase, error) {
	state, err := buildStateFromDBFunc(cmd)
	if err != nil {
		return nil, err
	}
	engine, err := buildEngine(cmd, state)
	if err != nil {
		return nil, err
	}
	return &bulk.UseCase{
		Engine:   engine,
		Clusters: buildPorts(state).Cluster,
	}, nil
}
