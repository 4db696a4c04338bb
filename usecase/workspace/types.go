// Package workspace implements tenant administration. Workspaces own
// credentials; every scoped operation in the system starts from one.
package workspace

import "github.com/stratokube/strato/domain"

// Repos holds the repositories workspace use cases read and write.
type Repos struct {
	Workspace domain.WorkspaceRepository
}

// UseCase exposes workspace CRUD over the repository port.
type UseCase struct {
	Repos *Repos
}
