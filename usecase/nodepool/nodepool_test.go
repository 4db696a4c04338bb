package nodepool

import (
	"context"
	"testing"

	"github.com/stratokube/strato/domain/model"
)

type mockNodePoolPort struct {
	createFunc func(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error)
	listFunc   func(ctx context.Context, scope model.ProviderScope, clusterName string, opts ...model.NodePoolListOption) ([]*model.NodePool, error)
	updateFunc func(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error)
	deleteFunc func(ctx context.Context, scope model.ProviderScope, clusterName, poolName string, opts ...model.NodePoolDeleteOption) error
}

func (m *mockNodePoolPort) NodePoolCreate(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, scope, clusterName, pool)
	}
	return nil, nil
}

func (m *mockNodePoolPort) NodePoolList(ctx context.Context, scope model.ProviderScope, clusterName string, opts ...model.NodePoolListOption) ([]*model.NodePool, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, scope, clusterName, opts...)
	}
	return nil, nil
}

func (m *mockNodePoolPort) NodePoolUpdate(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, scope, clusterName, pool)
	}
	return nil, nil
}

func (m *mockNodePoolPort) NodePoolDelete(ctx context.Context, scope model.ProviderScope, clusterName, poolName string, opts ...model.NodePoolDeleteOption) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, scope, clusterName, poolName, opts...)
	}
	return nil
}

func testScope() model.ProviderScope {
	return model.ProviderScope{
		WorkspaceID:  "ws-1",
		CredentialID: "cred-gcp",
		Provider:     model.ProviderGCP,
		Region:       "us-central1",
	}
}

func ptr[T any](v T) *T { return &v }

func validPool() model.NodePool {
	return model.NodePool{
		Name:          ptr("workers"),
		InstanceTypes: &[]string{"e2-standard-4"},
		Scaling:       &model.NodePoolScaling{Min: 1, Max: 5, Desired: 3},
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		port := &mockNodePoolPort{
			createFunc: func(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
				p := pool
				p.Status = &model.NodePoolStatus{State: model.ClusterStatusCreating}
				return &p, nil
			},
		}
		u := &UseCase{Pools: port}
		out, err := u.Create(ctx, &CreateInput{Scope: testScope(), ClusterName: "prod", Pool: validPool()})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if out.Pool.Status.State != model.ClusterStatusCreating {
			t.Errorf("expected CREATING, got %s", out.Pool.Status.State)
		}
	})

	t.Run("min greater than max fails before any provider call", func(t *testing.T) {
		calls := 0
		port := &mockNodePoolPort{
			createFunc: func(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
				calls++
				return nil, nil
			},
		}
		u := &UseCase{Pools: port}
		pool := validPool()
		pool.Scaling = &model.NodePoolScaling{Min: 3, Max: 2, Desired: 3}
		_, err := u.Create(ctx, &CreateInput{Scope: testScope(), ClusterName: "prod", Pool: pool})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if calls != 0 {
			t.Errorf("provider was called %d times despite min > max", calls)
		}
	})

	t.Run("desired outside bounds fails", func(t *testing.T) {
		u := &UseCase{Pools: &mockNodePoolPort{}}
		pool := validPool()
		pool.Scaling = &model.NodePoolScaling{Min: 1, Max: 5, Desired: 9}
		_, err := u.Create(ctx, &CreateInput{Scope: testScope(), ClusterName: "prod", Pool: pool})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing instance types", func(t *testing.T) {
		u := &UseCase{Pools: &mockNodePoolPort{}}
		pool := validPool()
		pool.InstanceTypes = nil
		_, err := u.Create(ctx, &CreateInput{Scope: testScope(), ClusterName: "prod", Pool: pool})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing cluster name", func(t *testing.T) {
		u := &UseCase{Pools: &mockNodePoolPort{}}
		_, err := u.Create(ctx, &CreateInput{Scope: testScope(), Pool: validPool()})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("pool name must be a DNS label", func(t *testing.T) {
		u := &UseCase{Pools: &mockNodePoolPort{}}
		pool := validPool()
		pool.Name = ptr("Workers_A")
		_, err := u.Create(ctx, &CreateInput{Scope: testScope(), ClusterName: "prod", Pool: pool})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("name filter becomes a list option", func(t *testing.T) {
		var gotOpts model.NodePoolListOptions
		port := &mockNodePoolPort{
			listFunc: func(ctx context.Context, scope model.ProviderScope, clusterName string, opts ...model.NodePoolListOption) ([]*model.NodePool, error) {
				gotOpts = model.ApplyNodePoolListOptions(opts...)
				return []*model.NodePool{{Name: ptr("workers")}}, nil
			},
		}
		u := &UseCase{Pools: port}
		out, err := u.List(ctx, &ListInput{Scope: testScope(), ClusterName: "prod", Name: "workers"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if gotOpts.Name != "workers" {
			t.Errorf("expected name filter to be forwarded, got %q", gotOpts.Name)
		}
		if len(out.Pools) != 1 {
			t.Errorf("expected 1 pool, got %d", len(out.Pools))
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("new scaling bounds validated before the provider", func(t *testing.T) {
		calls := 0
		port := &mockNodePoolPort{
			updateFunc: func(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
				calls++
				return &pool, nil
			},
		}
		u := &UseCase{Pools: port}
		pool := model.NodePool{Name: ptr("workers"), Scaling: &model.NodePoolScaling{Min: 5, Max: 2, Desired: 5}}
		_, err := u.Update(ctx, &UpdateInput{Scope: testScope(), ClusterName: "prod", Pool: pool})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if calls != 0 {
			t.Errorf("provider was called %d times despite invalid scaling", calls)
		}
	})

	t.Run("partial update carries only set fields", func(t *testing.T) {
		var got model.NodePool
		port := &mockNodePoolPort{
			updateFunc: func(ctx context.Context, scope model.ProviderScope, clusterName string, pool model.NodePool) (*model.NodePool, error) {
				got = pool
				return &pool, nil
			},
		}
		spy := &spyNotifier{}
		u := &UseCase{Pools: port, Notifier: spy}
		pool := model.NodePool{Name: ptr("workers"), Version: ptr("1.29.3")}
		if _, err := u.Update(ctx, &UpdateInput{Scope: testScope(), ClusterName: "prod", Pool: pool}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Version == nil || *got.Version != "1.29.3" {
			t.Error("version not forwarded")
		}
		if got.InstanceTypes != nil || got.Scaling != nil {
			t.Error("unset fields must stay nil")
		}
		if len(spy.events) != 1 || spy.events[0].Type() != "nodepool.updated" {
			t.Fatalf("expected one nodepool.updated event, got %v", spy.events)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("force flag becomes a delete option", func(t *testing.T) {
		var gotOpts model.NodePoolDeleteOptions
		port := &mockNodePoolPort{
			deleteFunc: func(ctx context.Context, scope model.ProviderScope, clusterName, poolName string, opts ...model.NodePoolDeleteOption) error {
				gotOpts = model.ApplyNodePoolDeleteOptions(opts...)
				return nil
			},
		}
		u := &UseCase{Pools: port}
		if err := u.Delete(ctx, &DeleteInput{Scope: testScope(), ClusterName: "prod", Name: "workers", Force: true}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if !gotOpts.Force {
			t.Error("force option not forwarded")
		}
	})

	t.Run("absent pool deletes successfully", func(t *testing.T) {
		port := &mockNodePoolPort{
			deleteFunc: func(ctx context.Context, scope model.ProviderScope, clusterName, poolName string, opts ...model.NodePoolDeleteOption) error {
				return model.NewNotFoundError("node pool", poolName)
			},
		}
		u := &UseCase{Pools: port}
		if err := u.Delete(ctx, &DeleteInput{Scope: testScope(), ClusterName: "prod", Name: "ghost"}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})
}

type spyNotifier struct {
	events []*model.Event
	err    error
}

func (s *spyNotifier) Publish(ctx context.Context, ev *model.Event) error {
	s.events = append(s.events, ev)
	return s.err
}
