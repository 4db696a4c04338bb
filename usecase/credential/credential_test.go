package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/secrets"
)

// mockCredentialRepo is a mock implementation for testing.
type mockCredentialRepo struct {
	getFunc    func(ctx context.Context, id string) (*model.Credential, error)
	createFunc func(ctx context.Context, c *model.Credential) error
	listFunc   func(ctx context.Context, workspaceID string) ([]*model.Credential, error)
	updateFunc func(ctx context.Context, c *model.Credential) error
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockCredentialRepo) Create(ctx context.Context, c *model.Credential) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return errors.New("not implemented")
}

func (m *mockCredentialRepo) Get(ctx context.Context, id string) (*model.Credential, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCredentialRepo) List(ctx context.Context, workspaceID string) ([]*model.Credential, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, workspaceID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCredentialRepo) Update(ctx context.Context, c *model.Credential) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return errors.New("not implemented")
}

func (m *mockCredentialRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

// mockWorkspaceRepo is a mock implementation for testing.
type mockWorkspaceRepo struct {
	getFunc func(ctx context.Context, id string) (*model.Workspace, error)
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, w *model.Workspace) error {
	return errors.New("not implemented")
}

func (m *mockWorkspaceRepo) Get(ctx context.Context, id string) (*model.Workspace, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockWorkspaceRepo) List(ctx context.Context) ([]*model.Workspace, error) {
	return nil, errors.New("not implemented")
}

func (m *mockWorkspaceRepo) Update(ctx context.Context, w *model.Workspace) error {
	return errors.New("not implemented")
}

func (m *mockWorkspaceRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

// spySealer counts Open calls so tests can prove decryption never ran.
type spySealer struct {
	inner     Sealer
	openCalls int
}

func (s *spySealer) Seal(data map[string]string) ([]byte, error) { return s.inner.Seal(data) }

func (s *spySealer) Open(blob []byte) (map[string]string, error) {
	s.openCalls++
	return s.inner.Open(blob)
}

func newTestSealer(t *testing.T) *secrets.Sealer {
	t.Helper()
	key, err := secrets.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	s, err := secrets.New(key)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	return s
}

func awsData() map[string]string {
	return map[string]string{"access_key": "AKIA123", "secret_key": "shh"}
}

func sealedCredential(t *testing.T, s Sealer, workspaceID string) *model.Credential {
	t.Helper()
	blob, err := s.Seal(awsData())
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	return &model.Credential{
		ID:          "cred-1",
		WorkspaceID: workspaceID,
		Provider:    model.ProviderAWS,
		Name:        "main",
		Encrypted:   blob,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestResolverResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns fresh data", func(t *testing.T) {
		spy := &spySealer{inner: newTestSealer(t)}
		stored := sealedCredential(t, spy, "ws-1")
		r := NewResolver(&mockCredentialRepo{
			getFunc: func(ctx context.Context, id string) (*model.Credential, error) { return stored, nil },
		}, spy)

		resolved, err := r.Resolve(ctx, "ws-1", "cred-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Provider != model.ProviderAWS {
			t.Errorf("Provider = %q, want aws", resolved.Provider)
		}
		if resolved.Get("access_key") != "AKIA123" {
			t.Errorf("access_key = %q", resolved.Get("access_key"))
		}

		// Mutating one resolution must not leak into the next.
		resolved.Data["access_key"] = "tampered"
		again, err := r.Resolve(ctx, "ws-1", "cred-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Get("access_key") != "AKIA123" {
			t.Error("resolutions share a data map")
		}
	})

	t.Run("workspace mismatch never decrypts", func(t *testing.T) {
		spy := &spySealer{inner: newTestSealer(t)}
		stored := sealedCredential(t, spy, "ws-1")
		r := NewResolver(&mockCredentialRepo{
			getFunc: func(ctx context.Context, id string) (*model.Credential, error) { return stored, nil },
		}, spy)

		_, err := r.Resolve(ctx, "ws-2", "cred-1")
		if !model.IsAuthorization(err) {
			t.Fatalf("got %v, want authorization error", err)
		}
		if spy.openCalls != 0 {
			t.Errorf("decryption ran %d times for a foreign workspace", spy.openCalls)
		}
	})

	t.Run("unknown credential", func(t *testing.T) {
		r := NewResolver(&mockCredentialRepo{
			getFunc: func(ctx context.Context, id string) (*model.Credential, error) {
				return nil, model.ErrCredentialNotFound
			},
		}, &spySealer{inner: newTestSealer(t)})

		_, err := r.Resolve(ctx, "ws-1", "missing")
		if !model.IsNotFound(err) {
			t.Errorf("got %v, want not found", err)
		}
	})

	t.Run("tampered blob is a decryption error", func(t *testing.T) {
		sealer := newTestSealer(t)
		stored := sealedCredential(t, &spySealer{inner: sealer}, "ws-1")
		stored.Encrypted[len(stored.Encrypted)-1] ^= 0xff

		r := NewResolver(&mockCredentialRepo{
			getFunc: func(ctx context.Context, id string) (*model.Credential, error) { return stored, nil },
		}, sealer)

		_, err := r.Resolve(ctx, "ws-1", "cred-1")
		var de *model.DecryptionError
		if !errors.As(err, &de) {
			t.Errorf("got %v, want decryption error", err)
		}
	})

	t.Run("empty scope fields", func(t *testing.T) {
		r := NewResolver(&mockCredentialRepo{}, &spySealer{inner: newTestSealer(t)})
		if _, err := r.Resolve(ctx, "", "cred-1"); !model.IsValidation(err) {
			t.Errorf("empty workspace: got %v, want validation error", err)
		}
		if _, err := r.Resolve(ctx, "ws-1", ""); !model.IsValidation(err) {
			t.Errorf("empty credential: got %v, want validation error", err)
		}
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success seals data", func(t *testing.T) {
		var saved *model.Credential
		uc := &UseCase{
			Repos: &Repos{
				Workspace: &mockWorkspaceRepo{
					getFunc: func(ctx context.Context, id string) (*model.Workspace, error) {
						return &model.Workspace{ID: id}, nil
					},
				},
				Credential: &mockCredentialRepo{
					createFunc: func(ctx context.Context, c *model.Credential) error {
						saved = c
						return nil
					},
				},
			},
			Sealer: newTestSealer(t),
		}

		out, err := uc.Create(ctx, &CreateInput{
			WorkspaceID: "ws-1",
			Provider:    model.ProviderAWS,
			Name:        "main",
			Data:        awsData(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved == nil || len(saved.Encrypted) == 0 {
			t.Fatal("credential stored without sealed blob")
		}
		if out.Credential.Encrypted != nil {
			t.Error("output leaks ciphertext")
		}
	})

	t.Run("missing required key", func(t *testing.T) {
		uc := &UseCase{Sealer: newTestSealer(t)}
		_, err := uc.Create(ctx, &CreateInput{
			WorkspaceID: "ws-1",
			Provider:    model.ProviderAWS,
			Name:        "main",
			Data:        map[string]string{"access_key": "AKIA123"},
		})
		if !model.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("gcp requires service_account type", func(t *testing.T) {
		uc := &UseCase{Sealer: newTestSealer(t)}
		_, err := uc.Create(ctx, &CreateInput{
			WorkspaceID: "ws-1",
			Provider:    model.ProviderGCP,
			Name:        "main",
			Data: map[string]string{
				"type": "authorized_user", "project_id": "p", "private_key": "k",
				"client_email": "e", "client_id": "i",
			},
		})
		if !model.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("nil input", func(t *testing.T) {
		uc := &UseCase{}
		if _, err := uc.Create(ctx, nil); err == nil {
			t.Error("expected error for nil input")
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign workspace is denied", func(t *testing.T) {
		sealer := newTestSealer(t)
		stored := sealedCredential(t, &spySealer{inner: sealer}, "ws-1")
		uc := &UseCase{
			Repos: &Repos{
				Credential: &mockCredentialRepo{
					getFunc: func(ctx context.Context, id string) (*model.Credential, error) { return stored, nil },
				},
			},
			Sealer: sealer,
		}

		_, err := uc.Get(ctx, &GetInput{WorkspaceID: "ws-2", CredentialID: "cred-1"})
		if !model.IsAuthorization(err) {
			t.Errorf("got %v, want authorization error", err)
		}
	})

	t.Run("metadata has no ciphertext", func(t *testing.T) {
		sealer := newTestSealer(t)
		stored := sealedCredential(t, &spySealer{inner: sealer}, "ws-1")
		uc := &UseCase{
			Repos: &Repos{
				Credential: &mockCredentialRepo{
					getFunc: func(ctx context.Context, id string) (*model.Credential, error) { return stored, nil },
				},
			},
			Sealer: sealer,
		}

		out, err := uc.Get(ctx, &GetInput{WorkspaceID: "ws-1", CredentialID: "cred-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Credential.Encrypted != nil {
			t.Error("metadata read leaks ciphertext")
		}
		if len(stored.Encrypted) == 0 {
			t.Error("sanitize cleared the stored record")
		}
	})
}
