package rdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stratokube/strato/domain/model"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenFromURL("sqlite::memory:")
	if err != nil {
		t.Fatalf("OpenFromURL: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func TestOpenFromURLRejectsUnknownScheme(t *testing.T) {
	if _, err := OpenFromURL("postgres://localhost/strato"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestWorkspaceRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkspaceRepository(openTestDB(t))

	w := &model.Workspace{Name: "acme", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, w); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID == "" {
		t.Fatalf("Create did not assign an ID")
	}

	got, err := repo.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "acme" {
		t.Fatalf("Get name = %q", got.Name)
	}

	got.Name = "acme-renamed"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := repo.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if again.Name != "acme-renamed" {
		t.Fatalf("update not persisted: %q", again.Name)
	}

	if err := repo.Delete(ctx, w.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, w.ID); !errors.Is(err, model.ErrWorkspaceNotFound) {
		t.Fatalf("second Delete = %v, want ErrWorkspaceNotFound", err)
	}
	if _, err := repo.Get(ctx, w.ID); !errors.Is(err, model.ErrWorkspaceNotFound) {
		t.Fatalf("Get after delete = %v, want ErrWorkspaceNotFound", err)
	}
}

func TestCredentialRepositoryScopedList(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(openTestDB(t))

	mk := func(ws, name string) *model.Credential {
		c := &model.Credential{
			WorkspaceID: ws,
			Provider:    model.ProviderAWS,
			Name:        name,
			Encrypted:   []byte{0x01, 0x02, 0x03},
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
		return c
	}
	mk("ws-a", "aws-prod")
	mk("ws-a", "aws-dev")
	mk("ws-b", "aws-other")

	listed, err := repo.List(ctx, "ws-a")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List(ws-a) = %d credentials, want 2", len(listed))
	}
	for _, c := range listed {
		if c.WorkspaceID != "ws-a" {
			t.Fatalf("List leaked credential from %q", c.WorkspaceID)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(\"\") = %d credentials, want 3", len(all))
	}
}

func TestCredentialRepositoryRoundTripsBlob(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(openTestDB(t))

	blob := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x11}
	c := &model.Credential{
		WorkspaceID: "ws-a",
		Provider:    model.ProviderAzure,
		Name:        "azure-sp",
		Encrypted:   blob,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Encrypted) != string(blob) {
		t.Fatalf("blob mismatch: %x != %x", got.Encrypted, blob)
	}
	if got.Provider != model.ProviderAzure {
		t.Fatalf("provider = %q", got.Provider)
	}
}

func TestBulkOperationRepositorySaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewBulkOperationRepository(openTestDB(t))

	snap := &model.BulkOperationSnapshot{
		ID:           "bulk-1",
		Kind:         model.BulkOperationDelete,
		ResourceKind: "cluster",
		Scope: model.ProviderScope{
			WorkspaceID:  "ws-a",
			CredentialID: "cred-1",
			Provider:     model.ProviderGCP,
			Region:       "us-central1",
		},
		Status:     model.BulkStatusCompleted,
		Total:      5,
		Completed:  4,
		Failed:     1,
		Failures:   []model.TargetFailure{{Target: "c3", Reason: "boom"}},
		StartedAt:  time.Now().UTC().Add(-time.Minute),
		FinishedAt: time.Now().UTC(),
	}
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Saving the same ID again must upsert, not duplicate.
	snap.Completed = 5
	snap.Failed = 0
	snap.Failures = nil
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := repo.Get(ctx, "bulk-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Completed != 5 || got.Failed != 0 {
		t.Fatalf("upsert not applied: %+v", got)
	}
	if got.Scope.Provider != model.ProviderGCP || got.Scope.Region != "us-central1" {
		t.Fatalf("scope not round-tripped: %+v", got.Scope)
	}

	listed, err := repo.List(ctx, "ws-a")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("List = %d records, want 1", len(listed))
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, model.ErrBulkOperationNotFound) {
		t.Fatalf("Get missing = %v, want ErrBulkOperationNotFound", err)
	}
}

func TestBulkOperationRepositoryFailuresRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewBulkOperationRepository(openTestDB(t))

	snap := &model.BulkOperationSnapshot{
		ID:   "bulk-2",
		Kind: model.BulkOperationTag,
		Scope: model.ProviderScope{
			WorkspaceID: "ws-a",
			Provider:    model.ProviderAWS,
			Region:      "us-west-2",
		},
		ResourceKind: "cluster",
		Status:       model.BulkStatusCancelled,
		Total:        3,
		Completed:    1,
		Failed:       1,
		Cancelled:    1,
		Failures: []model.TargetFailure{
			{Target: "a", Reason: "provider aws: throttled"},
		},
		StartedAt: time.Now().UTC(),
	}
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(ctx, "bulk-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Failures) != 1 || got.Failures[0].Target != "a" {
		t.Fatalf("failures not round-tripped: %+v", got.Failures)
	}
	if got.Status != model.BulkStatusCancelled {
		t.Fatalf("status = %q", got.Status)
	}
}
