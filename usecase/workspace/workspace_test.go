package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stratokube/strato/domain/model"
)

// mockWorkspaceRepo is a mock implementation for testing.
type mockWorkspaceRepo struct {
	createFunc func(ctx context.Context, w *model.Workspace) error
	getFunc    func(ctx context.Context, id string) (*model.Workspace, error)
	listFunc   func(ctx context.Context) ([]*model.Workspace, error)
	updateFunc func(ctx context.Context, w *model.Workspace) error
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, w *model.Workspace) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, w)
	}
	return errors.New("not implemented")
}

func (m *mockWorkspaceRepo) Get(ctx context.Context, id string) (*model.Workspace, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockWorkspaceRepo) List(ctx context.Context) ([]*model.Workspace, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockWorkspaceRepo) Update(ctx context.Context, w *model.Workspace) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, w)
	}
	return errors.New("not implemented")
}

func (m *mockWorkspaceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func newUseCase(repo *mockWorkspaceRepo) *UseCase {
	return &UseCase{Repos: &Repos{Workspace: repo}}
}

func ptr[T any](v T) *T { return &v }

func TestWorkspaceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists with timestamps", func(t *testing.T) {
		var saved *model.Workspace
		u := newUseCase(&mockWorkspaceRepo{
			createFunc: func(_ context.Context, w *model.Workspace) error {
				saved = w
				return nil
			},
		})
		out, err := u.Create(ctx, &CreateInput{Name: "prod"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if saved == nil || saved.Name != "prod" {
			t.Fatalf("unexpected persisted workspace: %+v", saved)
		}
		if saved.CreatedAt.IsZero() || !saved.CreatedAt.Equal(saved.UpdatedAt) {
			t.Errorf("timestamps not initialized: created=%v updated=%v", saved.CreatedAt, saved.UpdatedAt)
		}
		if out.Workspace != saved {
			t.Error("output does not wrap the persisted workspace")
		}
	})

	t.Run("rejects names that are not DNS labels", func(t *testing.T) {
		u := newUseCase(&mockWorkspaceRepo{})
		for _, name := range []string{"", "Prod", "has space", "under_score"} {
			if _, err := u.Create(ctx, &CreateInput{Name: name}); !model.IsValidation(err) {
				t.Errorf("Create(%q): expected validation error, got %v", name, err)
			}
		}
	})
}

func TestWorkspaceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		u := newUseCase(&mockWorkspaceRepo{})
		if _, err := u.Get(ctx, &GetInput{}); !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("returns the stored workspace", func(t *testing.T) {
		u := newUseCase(&mockWorkspaceRepo{
			getFunc: func(_ context.Context, id string) (*model.Workspace, error) {
				if id != "ws-1" {
					return nil, model.ErrWorkspaceNotFound
				}
				return &model.Workspace{ID: "ws-1", Name: "prod"}, nil
			},
		})
		out, err := u.Get(ctx, &GetInput{WorkspaceID: "ws-1"})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if out.Workspace.Name != "prod" {
			t.Errorf("unexpected workspace %+v", out.Workspace)
		}
	})
}

func TestWorkspaceList(t *testing.T) {
	u := newUseCase(&mockWorkspaceRepo{
		listFunc: func(_ context.Context) ([]*model.Workspace, error) {
			return []*model.Workspace{
				{ID: "ws-2", Name: "staging"},
				{ID: "ws-3", Name: "dev"},
				{ID: "ws-1", Name: "prod"},
			}, nil
		},
	})
	out, err := u.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for _, w := range out.Workspaces {
		names = append(names, w.Name)
	}
	want := []string{"dev", "prod", "staging"}
	if len(names) != len(want) {
		t.Fatalf("unexpected workspaces %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("unexpected order %v, want %v", names, want)
		}
	}
}

func TestWorkspaceUpdate(t *testing.T) {
	ctx := context.Background()
	stored := func() *model.Workspace {
		return &model.Workspace{
			ID:        "ws-1",
			Name:      "prod",
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}

	t.Run("renames and touches UpdatedAt", func(t *testing.T) {
		existing := stored()
		var updated *model.Workspace
		u := newUseCase(&mockWorkspaceRepo{
			getFunc: func(_ context.Context, _ string) (*model.Workspace, error) { return existing, nil },
			updateFunc: func(_ context.Context, w *model.Workspace) error {
				updated = w
				return nil
			},
		})
		out, err := u.Update(ctx, &UpdateInput{WorkspaceID: "ws-1", Name: ptr("prod-eu")})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated == nil || updated.Name != "prod-eu" {
			t.Fatalf("rename not persisted: %+v", updated)
		}
		if !out.Workspace.UpdatedAt.After(out.Workspace.CreatedAt) {
			t.Error("UpdatedAt not advanced on rename")
		}
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		existing := stored()
		u := newUseCase(&mockWorkspaceRepo{
			getFunc: func(_ context.Context, _ string) (*model.Workspace, error) { return existing, nil },
		})
		out, err := u.Update(ctx, &UpdateInput{WorkspaceID: "ws-1", Name: ptr("prod")})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !out.Workspace.UpdatedAt.Equal(existing.CreatedAt) {
			t.Error("UpdatedAt advanced without a change")
		}
	})

	t.Run("rejects invalid new name", func(t *testing.T) {
		u := newUseCase(&mockWorkspaceRepo{
			getFunc: func(_ context.Context, _ string) (*model.Workspace, error) { return stored(), nil },
		})
		if _, err := u.Update(ctx, &UpdateInput{WorkspaceID: "ws-1", Name: ptr("Bad Name")}); !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestWorkspaceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("absent workspace deletes successfully", func(t *testing.T) {
		u := newUseCase(&mockWorkspaceRepo{
			deleteFunc: func(_ context.Context, _ string) error { return model.ErrWorkspaceNotFound },
		})
		if _, err := u.Delete(ctx, &DeleteInput{WorkspaceID: "ws-ghost"}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		boom := errors.New("db locked")
		u := newUseCase(&mockWorkspaceRepo{
			deleteFunc: func(_ context.Context, _ string) error { return boom },
		})
		if _, err := u.Delete(ctx, &DeleteInput{WorkspaceID: "ws-1"}); !errors.Is(err, boom) {
			t.Fatalf("expected %v, got %v", boom, err)
		}
	})
}
