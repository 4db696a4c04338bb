package workspace

import (
	"context"
	"sort"

	"github.com/stratokube/strato/domain/model"
)

// ListInput is reserved for future filters.
type ListInput struct{}

// ListOutput wraps listed workspaces.
type ListOutput struct {
	Workspaces []*model.Workspace `json:"workspaces"`
}

// List returns all workspaces ordered by name. Repositories do not
// guarantee an order.
func (u *UseCase) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	items, err := u.Repos.Workspace.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return &ListOutput{Workspaces: items}, nil
}
