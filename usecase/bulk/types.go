package bulk

import (
	"github.com/stratokube/strato/domain/model"
)

// UseCase exposes bulk operations in the command style used by the CLI.
// Cluster fan-out units are built from the cluster port.
type UseCase struct {
	Engine   *Engine
	Clusters model.ClusterPort
}
