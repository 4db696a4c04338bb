package eks

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"

	"github.com/stratokube/strato/domain/model"
)

func TestClusterStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		in       ekstypes.ClusterStatus
		expected model.ClusterStatus
	}{
		{name: "creating", in: ekstypes.ClusterStatusCreating, expected: model.ClusterStatusCreating},
		{name: "pending maps to creating", in: ekstypes.ClusterStatusPending, expected: model.ClusterStatusCreating},
		{name: "active", in: ekstypes.ClusterStatusActive, expected: model.ClusterStatusActive},
		{name: "updating", in: ekstypes.ClusterStatusUpdating, expected: model.ClusterStatusUpdating},
		{name: "deleting", in: ekstypes.ClusterStatusDeleting, expected: model.ClusterStatusDeleting},
		{name: "failed", in: ekstypes.ClusterStatusFailed, expected: model.ClusterStatusFailed},
		{name: "unmapped state is unknown", in: ekstypes.ClusterStatus("SOMETHING_NEW"), expected: model.ClusterStatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clusterStatus(tt.in)
			if got != tt.expected {
				t.Errorf("clusterStatus(%q) = %q, want %q", tt.in, got, tt.expected)
			}
			if tt.expected == model.ClusterStatusUnknown && got.Terminal() {
				t.Errorf("unmapped state must never normalize to a terminal status")
			}
		})
	}
}

func TestNodegroupStatusMapping(t *testing.T) {
	tests := []struct {
		in       ekstypes.NodegroupStatus
		expected model.ClusterStatus
	}{
		{ekstypes.NodegroupStatusCreating, model.ClusterStatusCreating},
		{ekstypes.NodegroupStatusActive, model.ClusterStatusActive},
		{ekstypes.NodegroupStatusCreateFailed, model.ClusterStatusFailed},
		{ekstypes.NodegroupStatusDeleteFailed, model.ClusterStatusFailed},
		{ekstypes.NodegroupStatusDegraded, model.ClusterStatusUnknown},
	}
	for _, tt := range tests {
		if got := nodegroupStatus(tt.in); got != tt.expected {
			t.Errorf("nodegroupStatus(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestRuleRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rule model.Rule
	}{
		{
			name: "tcp 22 ingress from cidr",
			rule: model.Rule{
				Direction:  model.RuleIngress,
				Protocol:   "tcp",
				FromPort:   22,
				ToPort:     22,
				CIDRBlocks: []string{"10.0.0.0/8"},
			},
		},
		{
			name: "udp range egress",
			rule: model.Rule{
				Direction:  model.RuleEgress,
				Protocol:   "udp",
				FromPort:   1000,
				ToPort:     2000,
				CIDRBlocks: []string{"0.0.0.0/0"},
			},
		},
		{
			name: "peer group reference",
			rule: model.Rule{
				Direction:  model.RuleIngress,
				Protocol:   "tcp",
				FromPort:   5432,
				ToPort:     5432,
				PeerGroups: []string{"sg-0123456789abcdef0"},
			},
		},
		{
			name: "wildcard protocol",
			rule: model.Rule{
				Direction:  model.RuleIngress,
				Protocol:   model.RuleProtocolAll,
				CIDRBlocks: []string{"192.168.0.0/16"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm := ruleToPermission(tt.rule)
			back := permissionToRule(tt.rule.Normalize().Direction, perm)
			if !back.Equal(tt.rule) {
				t.Errorf("round trip changed the rule:\n in:  %+v\n out: %+v", tt.rule.Normalize(), back)
			}
		})
	}
}

func TestRuleToPermissionWildcard(t *testing.T) {
	perm := ruleToPermission(model.Rule{
		Direction:  model.RuleIngress,
		Protocol:   model.RuleProtocolAll,
		CIDRBlocks: []string{"0.0.0.0/0"},
	})
	if got := aws.ToString(perm.IpProtocol); got != "-1" {
		t.Errorf("wildcard protocol = %q, want -1", got)
	}
	if perm.FromPort != nil || perm.ToPort != nil {
		t.Errorf("wildcard protocol must not carry a port range")
	}
}

func TestPermissionToRuleDefaults(t *testing.T) {
	perm := ec2types.IpPermission{
		IpProtocol: aws.String("tcp"),
		FromPort:   aws.Int32(443),
		ToPort:     aws.Int32(443),
		IpRanges:   []ec2types.IpRange{{CidrIp: aws.String("0.0.0.0/0"), Description: aws.String("https")}},
	}
	rule := permissionToRule(model.RuleIngress, perm)

	if rule.Priority != model.DefaultRulePriority {
		t.Errorf("Priority = %d, want documented default %d", rule.Priority, model.DefaultRulePriority)
	}
	if rule.Action != model.RuleActionAllow {
		t.Errorf("Action = %q, want documented default allow", rule.Action)
	}
	if rule.Description != "https" {
		t.Errorf("Description = %q, want https", rule.Description)
	}
}

func TestDroppedRuleFields(t *testing.T) {
	tests := []struct {
		name     string
		rule     model.Rule
		expected []string
	}{
		{
			name: "default rule drops nothing",
			rule: model.Rule{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 22, ToPort: 22, CIDRBlocks: []string{"10.0.0.0/8"}},
		},
		{
			name: "custom priority and gcp tags",
			rule: model.Rule{
				Direction:  model.RuleIngress,
				Protocol:   "tcp",
				FromPort:   80,
				ToPort:     80,
				Priority:   500,
				SourceTags: []string{"web"},
			},
			expected: []string{"priority", "sourceTags"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := droppedRuleFields(tt.rule)
			if len(got) != len(tt.expected) {
				t.Fatalf("droppedRuleFields = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("droppedRuleFields[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSecurityGroupToModel(t *testing.T) {
	sg := ec2types.SecurityGroup{
		GroupId:     aws.String("sg-123"),
		GroupName:   aws.String("web"),
		Description: aws.String("web tier"),
		VpcId:       aws.String("vpc-1"),
		IpPermissions: []ec2types.IpPermission{{
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(80),
			ToPort:     aws.Int32(80),
			IpRanges:   []ec2types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
		}},
		IpPermissionsEgress: []ec2types.IpPermission{{
			IpProtocol: aws.String("-1"),
			IpRanges:   []ec2types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
		}},
		Tags: []ec2types.Tag{{Key: aws.String("team"), Value: aws.String("platform")}},
	}

	group := securityGroupToModel(sg)
	if group.ID != "sg-123" || group.Name != "web" || group.VPCID != "vpc-1" {
		t.Errorf("identity fields wrong: %+v", group)
	}
	if len(group.Rules) != 2 {
		t.Fatalf("Rules = %d, want 2", len(group.Rules))
	}
	if group.Rules[0].Direction != model.RuleIngress || group.Rules[0].FromPort != 80 {
		t.Errorf("ingress rule wrong: %+v", group.Rules[0])
	}
	if group.Rules[1].Direction != model.RuleEgress || group.Rules[1].Protocol != model.RuleProtocolAll {
		t.Errorf("egress wildcard rule wrong: %+v", group.Rules[1])
	}
	if group.Tags["team"] != "platform" {
		t.Errorf("Tags = %v, want team=platform", group.Tags)
	}
}

func TestClusterToModel(t *testing.T) {
	d := &driver{region: "us-west-2"}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &ekstypes.Cluster{
		Arn:       aws.String("arn:aws:eks:us-west-2:123456789012:cluster/prod"),
		Name:      aws.String("prod"),
		Version:   aws.String("1.30"),
		Status:    ekstypes.ClusterStatusActive,
		Endpoint:  aws.String("https://example.eks.amazonaws.com"),
		Tags:      map[string]string{"env": "prod"},
		CreatedAt: &created,
	}

	got := d.clusterToModel(c)
	if got.ID != "arn:aws:eks:us-west-2:123456789012:cluster/prod" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Provider != model.ProviderAWS || got.Region != "us-west-2" {
		t.Errorf("provider/region wrong: %+v", got)
	}
	if got.Status != model.ClusterStatusActive {
		t.Errorf("Status = %q, want ACTIVE", got.Status)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestNodegroupToModel(t *testing.T) {
	ng := &ekstypes.Nodegroup{
		NodegroupName: aws.String("workers"),
		NodegroupArn:  aws.String("arn:aws:eks:us-west-2:123456789012:nodegroup/prod/workers/1"),
		Version:       aws.String("1.30"),
		Status:        ekstypes.NodegroupStatusActive,
		InstanceTypes: []string{"m5.large"},
		CapacityType:  ekstypes.CapacityTypesOnDemand,
		DiskSize:      aws.Int32(80),
		Labels:        map[string]string{"role": "worker"},
		ScalingConfig: &ekstypes.NodegroupScalingConfig{
			MinSize:     aws.Int32(1),
			MaxSize:     aws.Int32(5),
			DesiredSize: aws.Int32(3),
		},
	}

	pool := nodegroupToModel(ng)
	if aws.ToString(pool.Name) != "workers" {
		t.Errorf("Name = %q", aws.ToString(pool.Name))
	}
	if pool.Scaling == nil || pool.Scaling.Min != 1 || pool.Scaling.Max != 5 || pool.Scaling.Desired != 3 {
		t.Errorf("Scaling = %+v, want 1/5/3", pool.Scaling)
	}
	if pool.CapacityType == nil || *pool.CapacityType != "on-demand" {
		t.Errorf("CapacityType = %v, want on-demand", pool.CapacityType)
	}
	if pool.Status == nil || pool.Status.State != model.ClusterStatusActive {
		t.Errorf("Status = %+v, want ACTIVE", pool.Status)
	}
	if pool.Status.CurrentCount == nil || *pool.Status.CurrentCount != 3 {
		t.Errorf("CurrentCount = %v, want 3", pool.Status.CurrentCount)
	}
}

func TestCapacityTypeToAWS(t *testing.T) {
	tests := []struct {
		in       string
		expected ekstypes.CapacityTypes
		ok       bool
	}{
		{"", ekstypes.CapacityTypesOnDemand, true},
		{"on-demand", ekstypes.CapacityTypesOnDemand, true},
		{"spot", ekstypes.CapacityTypesSpot, true},
		{"preemptible", "", false},
	}
	for _, tt := range tests {
		got, ok := capacityTypeToAWS(tt.in)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("capacityTypeToAWS(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestRenderKubeconfig(t *testing.T) {
	content := string(renderKubeconfig("prod", "https://example.eks.amazonaws.com", "Q0FEQVRB", "us-west-2"))

	for _, want := range []string{
		"certificate-authority-data: Q0FEQVRB",
		"server: https://example.eks.amazonaws.com",
		"current-context: prod",
		"command: aws",
		"- get-token",
		"- --cluster-name",
		"- prod",
		"- --region",
		"- us-west-2",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("kubeconfig missing %q:\n%s", want, content)
		}
	}
}
