package network

import (
	"context"
	"errors"
	"testing"

	"github.com/stratokube/strato/domain/model"
)

type mockNetworkPort struct {
	vpcCreateFunc    func(ctx context.Context, scope model.ProviderScope, spec *model.VPCSpec) (*model.VPC, error)
	vpcGetFunc       func(ctx context.Context, scope model.ProviderScope, id string) (*model.VPC, error)
	vpcListFunc      func(ctx context.Context, scope model.ProviderScope) ([]*model.VPC, error)
	vpcDeleteFunc    func(ctx context.Context, scope model.ProviderScope, id string) error
	subnetCreateFunc func(ctx context.Context, scope model.ProviderScope, spec *model.SubnetSpec) (*model.Subnet, error)
	subnetGetFunc    func(ctx context.Context, scope model.ProviderScope, vpcID, id string) (*model.Subnet, error)
	subnetListFunc   func(ctx context.Context, scope model.ProviderScope, vpcID string) ([]*model.Subnet, error)
	subnetDeleteFunc func(ctx context.Context, scope model.ProviderScope, vpcID, id string) error
	groupCreateFunc  func(ctx context.Context, scope model.ProviderScope, spec *model.SecurityGroupSpec) (*model.SecurityGroup, error)
	groupGetFunc     func(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error)
	groupListFunc    func(ctx context.Context, scope model.ProviderScope, vpcID string) ([]*model.SecurityGroup, error)
	groupDeleteFunc  func(ctx context.Context, scope model.ProviderScope, id string) error
	ruleAddFunc      func(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error
	ruleRemoveFunc   func(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error
}

func (m *mockNetworkPort) VPCCreate(ctx context.Context, scope model.ProviderScope, spec *model.VPCSpec) (*model.VPC, error) {
	if m.vpcCreateFunc != nil {
		return m.vpcCreateFunc(ctx, scope, spec)
	}
	return nil, nil
}

func (m *mockNetworkPort) VPCGet(ctx context.Context, scope model.ProviderScope, id string) (*model.VPC, error) {
	if m.vpcGetFunc != nil {
		return m.vpcGetFunc(ctx, scope, id)
	}
	return nil, nil
}

func (m *mockNetworkPort) VPCList(ctx context.Context, scope model.ProviderScope) ([]*model.VPC, error) {
	if m.vpcListFunc != nil {
		return m.vpcListFunc(ctx, scope)
	}
	return nil, nil
}

func (m *mockNetworkPort) VPCDelete(ctx context.Context, scope model.ProviderScope, id string) error {
	if m.vpcDeleteFunc != nil {
		return m.vpcDeleteFunc(ctx, scope, id)
	}
	return nil
}

func (m *mockNetworkPort) SubnetCreate(ctx context.Context, scope model.ProviderScope, spec *model.SubnetSpec) (*model.Subnet, error) {
	if m.subnetCreateFunc != nil {
		return m.subnetCreateFunc(ctx, scope, spec)
	}
	return nil, nil
}

func (m *mockNetworkPort) SubnetGet(ctx context.Context, scope model.ProviderScope, vpcID, id string) (*model.Subnet, error) {
	if m.subnetGetFunc != nil {
		return m.subnetGetFunc(ctx, scope, vpcID, id)
	}
	return nil, nil
}

func (m *mockNetworkPort) SubnetList(ctx context.Context, scope model.ProviderScope, vpcID string) ([]*model.Subnet, error) {
	if m.subnetListFunc != nil {
		return m.subnetListFunc(ctx, scope, vpcID)
	}
	return nil, nil
}

func (m *mockNetworkPort) SubnetDelete(ctx context.Context, scope model.ProviderScope, vpcID, id string) error {
	if m.subnetDeleteFunc != nil {
		return m.subnetDeleteFunc(ctx, scope, vpcID, id)
	}
	return nil
}

func (m *mockNetworkPort) SecurityGroupCreate(ctx context.Context, scope model.ProviderScope, spec *model.SecurityGroupSpec) (*model.SecurityGroup, error) {
	if m.groupCreateFunc != nil {
		return m.groupCreateFunc(ctx, scope, spec)
	}
	return nil, nil
}

func (m *mockNetworkPort) SecurityGroupGet(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error) {
	if m.groupGetFunc != nil {
		return m.groupGetFunc(ctx, scope, id)
	}
	return nil, nil
}

func (m *mockNetworkPort) SecurityGroupList(ctx context.Context, scope model.ProviderScope, vpcID string) ([]*model.SecurityGroup, error) {
	if m.groupListFunc != nil {
		return m.groupListFunc(ctx, scope, vpcID)
	}
	return nil, nil
}

func (m *mockNetworkPort) SecurityGroupDelete(ctx context.Context, scope model.ProviderScope, id string) error {
	if m.groupDeleteFunc != nil {
		return m.groupDeleteFunc(ctx, scope, id)
	}
	return nil
}

func (m *mockNetworkPort) RuleAdd(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
	if m.ruleAddFunc != nil {
		return m.ruleAddFunc(ctx, scope, groupID, rule)
	}
	return nil
}

func (m *mockNetworkPort) RuleRemove(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
	if m.ruleRemoveFunc != nil {
		return m.ruleRemoveFunc(ctx, scope, groupID, rule)
	}
	return nil
}

type spyNotifier struct {
	events []*model.Event
	err    error
}

func (s *spyNotifier) Publish(ctx context.Context, ev *model.Event) error {
	s.events = append(s.events, ev)
	return s.err
}

func testScope() model.ProviderScope {
	return model.ProviderScope{
		WorkspaceID:  "ws-1",
		CredentialID: "cred-azure",
		Provider:     model.ProviderAzure,
		Region:       "eastus",
	}
}

func httpsRule() model.Rule {
	return model.Rule{
		Direction:  model.RuleIngress,
		Protocol:   "tcp",
		FromPort:   443,
		ToPort:     443,
		CIDRBlocks: []string{"0.0.0.0/0"},
	}
}

func sshRule() model.Rule {
	return model.Rule{
		Direction:  model.RuleIngress,
		Protocol:   "tcp",
		FromPort:   22,
		ToPort:     22,
		CIDRBlocks: []string{"10.0.0.0/8"},
	}
}

func dnsRule() model.Rule {
	return model.Rule{
		Direction:  model.RuleEgress,
		Protocol:   "udp",
		FromPort:   53,
		ToPort:     53,
		CIDRBlocks: []string{"0.0.0.0/0"},
	}
}

func TestVPCCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success publishes vpc.created", func(t *testing.T) {
		port := &mockNetworkPort{
			vpcCreateFunc: func(ctx context.Context, scope model.ProviderScope, spec *model.VPCSpec) (*model.VPC, error) {
				return &model.VPC{ID: "vpc-1", Name: spec.Name, State: "creating"}, nil
			},
		}
		spy := &spyNotifier{}
		u := &UseCase{Networks: port, Notifier: spy}
		out, err := u.VPCCreate(ctx, &VPCCreateInput{Scope: testScope(), Spec: model.VPCSpec{Name: "main", CIDR: "10.0.0.0/16"}})
		if err != nil {
			t.Fatalf("VPCCreate failed: %v", err)
		}
		if out.VPC.ID != "vpc-1" {
			t.Errorf("unexpected vpc %+v", out.VPC)
		}
		if len(spy.events) != 1 || spy.events[0].Type() != "vpc.created" {
			t.Fatalf("expected one vpc.created event, got %v", spy.events)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		u := &UseCase{Networks: &mockNetworkPort{}}
		_, err := u.VPCCreate(ctx, &VPCCreateInput{Scope: testScope(), Spec: model.VPCSpec{CIDR: "10.0.0.0/16"}})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("name must be a DNS label", func(t *testing.T) {
		u := &UseCase{Networks: &mockNetworkPort{}}
		_, err := u.VPCCreate(ctx, &VPCCreateInput{Scope: testScope(), Spec: model.VPCSpec{Name: "Main VPC", CIDR: "10.0.0.0/16"}})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestVPCDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("absent vpc deletes successfully", func(t *testing.T) {
		port := &mockNetworkPort{
			vpcDeleteFunc: func(ctx context.Context, scope model.ProviderScope, id string) error {
				return model.NewNotFoundError("vpc", id)
			},
		}
		spy := &spyNotifier{}
		u := &UseCase{Networks: port, Notifier: spy}
		if err := u.VPCDelete(ctx, &VPCDeleteInput{Scope: testScope(), ID: "ghost"}); err != nil {
			t.Fatalf("VPCDelete failed: %v", err)
		}
		if len(spy.events) != 0 {
			t.Errorf("expected no events for a no-op delete, got %d", len(spy.events))
		}
	})
}

func TestGroupCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid rule never reaches the provider", func(t *testing.T) {
		calls := 0
		port := &mockNetworkPort{
			groupCreateFunc: func(ctx context.Context, scope model.ProviderScope, spec *model.SecurityGroupSpec) (*model.SecurityGroup, error) {
				calls++
				return nil, nil
			},
		}
		u := &UseCase{Networks: port}
		spec := model.SecurityGroupSpec{
			Name:  "web",
			VPCID: "vpc-1",
			Rules: []model.Rule{{Direction: "sideways", Protocol: "tcp"}},
		}
		_, err := u.GroupCreate(ctx, &GroupCreateInput{Scope: testScope(), Spec: spec})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if calls != 0 {
			t.Errorf("provider was called %d times for an invalid rule", calls)
		}
	})
}

func TestRuleAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("tcp rule without peers is rejected", func(t *testing.T) {
		u := &UseCase{Networks: &mockNetworkPort{}}
		rule := model.Rule{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 80, ToPort: 80}
		err := u.RuleAdd(ctx, &RuleAddInput{Scope: testScope(), GroupID: "sg-1", Rule: rule})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("success publishes security_group.updated", func(t *testing.T) {
		spy := &spyNotifier{}
		u := &UseCase{Networks: &mockNetworkPort{}, Notifier: spy}
		if err := u.RuleAdd(ctx, &RuleAddInput{Scope: testScope(), GroupID: "sg-1", Rule: httpsRule()}); err != nil {
			t.Fatalf("RuleAdd failed: %v", err)
		}
		if len(spy.events) != 1 || spy.events[0].Type() != "security_group.updated" {
			t.Fatalf("expected one security_group.updated event, got %v", spy.events)
		}
	})
}

func TestReplaceRules(t *testing.T) {
	ctx := context.Background()

	t.Run("removes existing rules then adds the new set", func(t *testing.T) {
		existing := []model.Rule{sshRule(), dnsRule()}
		var removed, added []model.Rule
		port := &mockNetworkPort{
			groupGetFunc: func(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error) {
				return &model.SecurityGroup{ID: id, Rules: existing}, nil
			},
			ruleRemoveFunc: func(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
				removed = append(removed, rule)
				return nil
			},
			ruleAddFunc: func(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
				added = append(added, rule)
				return nil
			},
		}
		spy := &spyNotifier{}
		u := &UseCase{Networks: port, Notifier: spy}
		out, err := u.ReplaceRules(ctx, &RuleReplaceInput{Scope: testScope(), GroupID: "sg-1", Rules: []model.Rule{httpsRule()}})
		if err != nil {
			t.Fatalf("ReplaceRules failed: %v", err)
		}
		if len(removed) != 2 {
			t.Errorf("expected 2 removals, got %d", len(removed))
		}
		if len(added) != 1 || !added[0].Equal(httpsRule()) {
			t.Errorf("unexpected additions %v", added)
		}
		if len(out.Applied) != 1 || len(out.Unapplied) != 0 {
			t.Errorf("unexpected output %+v", out)
		}
		if len(spy.events) != 1 || spy.events[0].Type() != "security_group.updated" {
			t.Fatalf("expected one security_group.updated event, got %v", spy.events)
		}
	})

	t.Run("removal failure is skipped, not fatal", func(t *testing.T) {
		port := &mockNetworkPort{
			groupGetFunc: func(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error) {
				return &model.SecurityGroup{ID: id, Rules: []model.Rule{sshRule()}}, nil
			},
			ruleRemoveFunc: func(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
				return errors.New("rule is referenced elsewhere")
			},
		}
		u := &UseCase{Networks: port}
		out, err := u.ReplaceRules(ctx, &RuleReplaceInput{Scope: testScope(), GroupID: "sg-1", Rules: []model.Rule{httpsRule()}})
		if err != nil {
			t.Fatalf("ReplaceRules failed on a removal error: %v", err)
		}
		if len(out.Applied) != 1 {
			t.Errorf("expected the new rule to be applied, got %+v", out)
		}
	})

	t.Run("add failure yields a partial failure naming the rest", func(t *testing.T) {
		rules := []model.Rule{httpsRule(), sshRule(), dnsRule()}
		port := &mockNetworkPort{
			groupGetFunc: func(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error) {
				return &model.SecurityGroup{ID: id}, nil
			},
			ruleAddFunc: func(ctx context.Context, scope model.ProviderScope, groupID string, rule model.Rule) error {
				if rule.Equal(sshRule()) {
					return errors.New("rule limit exceeded")
				}
				return nil
			},
		}
		spy := &spyNotifier{}
		u := &UseCase{Networks: port, Notifier: spy}
		out, err := u.ReplaceRules(ctx, &RuleReplaceInput{Scope: testScope(), GroupID: "sg-1", Rules: rules})
		var pf *model.PartialFailureError
		if !errors.As(err, &pf) {
			t.Fatalf("expected PartialFailureError, got %v", err)
		}
		if pf.Completed != 2 || pf.Failed != 1 {
			t.Errorf("expected 2 completed / 1 failed, got %+v", pf)
		}
		if len(pf.Failures) != 1 || pf.Failures[0].Target != "ingress tcp 22" {
			t.Errorf("unexpected failure detail %+v", pf.Failures)
		}
		if len(out.Applied) != 2 || len(out.Unapplied) != 1 {
			t.Errorf("unexpected output %+v", out)
		}
		if len(spy.events) != 0 {
			t.Errorf("expected no event on partial failure, got %d", len(spy.events))
		}
	})

	t.Run("invalid rule fails before any mutation", func(t *testing.T) {
		gets := 0
		port := &mockNetworkPort{
			groupGetFunc: func(ctx context.Context, scope model.ProviderScope, id string) (*model.SecurityGroup, error) {
				gets++
				return &model.SecurityGroup{ID: id}, nil
			},
		}
		u := &UseCase{Networks: port}
		bad := model.Rule{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 443, ToPort: 80, CIDRBlocks: []string{"0.0.0.0/0"}}
		_, err := u.ReplaceRules(ctx, &RuleReplaceInput{Scope: testScope(), GroupID: "sg-1", Rules: []model.Rule{bad}})
		if !model.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if gets != 0 {
			t.Errorf("group was fetched %d times for an invalid rule set", gets)
		}
	})
}
