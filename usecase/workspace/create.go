package workspace

import (
	"context"
	"time"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// CreateInput carries the name for a new workspace.
type CreateInput struct {
	Name string `json:"name"`
}

// CreateOutput wraps the created workspace.
type CreateOutput struct {
	Workspace *model.Workspace `json:"workspace"`
}

// Create validates the name and persists a new workspace. Names must be
// DNS labels; they appear unescaped in event subjects and provider tags.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, model.NewValidationError("input", "is required")
	}
	if err := naming.ValidateWorkspaceName(in.Name); err != nil {
		return nil, model.NewValidationError("name", err.Error())
	}
	now := time.Now().UTC()
	w := &model.Workspace{Name: in.Name, CreatedAt: now, UpdatedAt: now}
	if err := u.Repos.Workspace.Create(ctx, w); err != nil {
		return nil, err
	}
	return &CreateOutput{Workspace: w}, nil
}
