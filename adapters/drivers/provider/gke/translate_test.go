package gke

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/api/container/v1"

	"github.com/stratokube/strato/domain/model"
)

func TestClusterStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected model.ClusterStatus
	}{
		{name: "provisioning maps to creating", in: "PROVISIONING", expected: model.ClusterStatusCreating},
		{name: "running maps to active", in: "RUNNING", expected: model.ClusterStatusActive},
		{name: "reconciling maps to updating", in: "RECONCILING", expected: model.ClusterStatusUpdating},
		{name: "stopping maps to deleting", in: "STOPPING", expected: model.ClusterStatusDeleting},
		{name: "error maps to failed", in: "ERROR", expected: model.ClusterStatusFailed},
		{name: "degraded maps to unknown", in: "DEGRADED", expected: model.ClusterStatusUnknown},
		{name: "unmapped state is unknown", in: "SOMETHING_NEW", expected: model.ClusterStatusUnknown},
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

func TestNodePoolStatusMapping(t *testing.T) {
	tests := []struct {
		in       string
		expected model.ClusterStatus
	}{
		{"PROVISIONING", model.ClusterStatusCreating},
		{"RUNNING", model.ClusterStatusActive},
		{"RUNNING_WITH_ERROR", model.ClusterStatusUnknown},
		{"RECONCILING", model.ClusterStatusUpdating},
		{"STOPPING", model.ClusterStatusDeleting},
		{"ERROR", model.ClusterStatusFailed},
	}
	for _, tt := range tests {
		if got := nodePoolStatus(tt.in); got != tt.expected {
			t.Errorf("nodePoolStatus(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestFirewallRoundTrip(t *testing.T) {
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
			name: "deny with explicit priority survives",
			rule: model.Rule{
				Direction:  model.RuleEgress,
				Protocol:   "udp",
				FromPort:   1000,
				ToPort:     2000,
				CIDRBlocks: []string{"0.0.0.0/0"},
				Priority:   200,
				Action:     model.RuleActionDeny,
			},
		},
		{
			name: "source and target tags",
			rule: model.Rule{
				Direction:  model.RuleIngress,
				Protocol:   "tcp",
				FromPort:   5432,
				ToPort:     5432,
				SourceTags: []string{"app"},
				TargetTags: []string{"db"},
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
			fw, err := buildFirewall(&model.SecurityGroupSpec{
				Name:  "rt",
				VPCID: "net",
				Rules: []model.Rule{tt.rule},
			})
			if err != nil {
				t.Fatalf("buildFirewall: %v", err)
			}
			group := firewallToModel(fw)
			if len(group.Rules) != 1 {
				t.Fatalf("expected 1 rule back, got %d", len(group.Rules))
			}
			if !group.Rules[0].Equal(tt.rule) {
				t.Errorf("round trip changed the rule:\n in:  %+v\n out: %+v", tt.rule.Normalize(), group.Rules[0])
			}
		})
	}
}

func TestBuildFirewallRejectsMixedRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []model.Rule
	}{
		{
			name: "mixed direction",
			rules: []model.Rule{
				{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlocks: []string{"0.0.0.0/0"}},
				{Direction: model.RuleEgress, Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlocks: []string{"0.0.0.0/0"}},
			},
		},
		{
			name: "mixed action",
			rules: []model.Rule{
				{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlocks: []string{"0.0.0.0/0"}},
				{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 443, ToPort: 443, CIDRBlocks: []string{"0.0.0.0/0"}, Action: model.RuleActionDeny},
			},
		},
		{
			name: "mixed priority",
			rules: []model.Rule{
				{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlocks: []string{"0.0.0.0/0"}, Priority: 100},
				{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 443, ToPort: 443, CIDRBlocks: []string{"0.0.0.0/0"}, Priority: 200},
			},
		},
		{
			name:  "no rules",
			rules: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFirewall(&model.SecurityGroupSpec{Name: "fw", VPCID: "net", Rules: tt.rules})
			if !model.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestBuildFirewallSharedPeers(t *testing.T) {
	fw, err := buildFirewall(&model.SecurityGroupSpec{
		Name:  "web",
		VPCID: "net",
		Rules: []model.Rule{
			{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlocks: []string{"10.0.0.0/8"}},
			{Direction: model.RuleIngress, Protocol: "tcp", FromPort: 443, ToPort: 443, CIDRBlocks: []string{"10.0.0.0/8", "172.16.0.0/12"}, TargetTags: []string{"web"}},
		},
	})
	if err != nil {
		t.Fatalf("buildFirewall: %v", err)
	}
	if fw.Direction != "INGRESS" {
		t.Errorf("direction = %q, want INGRESS", fw.Direction)
	}
	if fw.Priority != model.DefaultRulePriority {
		t.Errorf("priority = %d, want %d", fw.Priority, model.DefaultRulePriority)
	}
	if len(fw.Allowed) != 2 {
		t.Fatalf("expected 2 allowed entries, got %d", len(fw.Allowed))
	}
	if len(fw.SourceRanges) != 2 {
		t.Errorf("source ranges = %v, want the union of both rules", fw.SourceRanges)
	}
	if len(fw.TargetTags) != 1 || fw.TargetTags[0] != "web" {
		t.Errorf("target tags = %v, want [web]", fw.TargetTags)
	}
	if len(fw.Denied) != 0 {
		t.Errorf("allow rules must not produce denied entries: %v", fw.Denied)
	}
}

func TestClusterToModel(t *testing.T) {
	d := &driver{projectID: "demo-project", region: "us-central1"}
	c := &container.Cluster{
		Name:                 "demo",
		Location:             "us-central1",
		Status:               "RUNNING",
		Endpoint:             "34.0.0.1",
		CurrentMasterVersion: "1.29.1-gke.100",
		ResourceLabels:       map[string]string{"env": "dev"},
		Autopilot:            &container.Autopilot{Enabled: true},
		CreateTime:           "2024-05-01T10:30:00Z",
	}

	got := d.clusterToModel(c)
	if got.Name != "demo" || got.ID != "demo" {
		t.Errorf("name/id = %q/%q, want demo/demo", got.Name, got.ID)
	}
	if got.Provider != model.ProviderGCP {
		t.Errorf("provider = %q, want %q", got.Provider, model.ProviderGCP)
	}
	if got.Status != model.ClusterStatusActive {
		t.Errorf("status = %q, want %q", got.Status, model.ClusterStatusActive)
	}
	if got.Version != "1.29.1-gke.100" {
		t.Errorf("version = %q", got.Version)
	}
	if !got.Autopilot {
		t.Error("autopilot flag lost in translation")
	}
	if got.Tags["env"] != "dev" {
		t.Errorf("tags = %v", got.Tags)
	}
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if !got.CreatedAt.Equal(want) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, want)
	}
}

func TestNodePoolToModel(t *testing.T) {
	np := &container.NodePool{
		Name:    "workers",
		Version: "1.29.1-gke.100",
		Config: &container.NodeConfig{
			MachineType: "e2-standard-4",
			DiskSizeGb:  100,
			Labels:      map[string]string{"pool": "workers"},
			Spot:        true,
		},
		InitialNodeCount: 3,
		Autoscaling:      &container.NodePoolAutoscaling{Enabled: true, MinNodeCount: 1, MaxNodeCount: 5},
		Locations:        []string{"us-central1-a", "us-central1-b"},
		Status:           "RUNNING",
	}

	got := nodePoolToModel(np)
	if got.Name == nil || *got.Name != "workers" {
		t.Fatalf("name = %v", got.Name)
	}
	if got.Scaling == nil || got.Scaling.Min != 1 || got.Scaling.Max != 5 || got.Scaling.Desired != 3 {
		t.Errorf("scaling = %+v, want 1/5/3", got.Scaling)
	}
	if got.CapacityType == nil || *got.CapacityType != "spot" {
		t.Errorf("capacityType = %v, want spot", got.CapacityType)
	}
	if got.InstanceTypes == nil || len(*got.InstanceTypes) != 1 || (*got.InstanceTypes)[0] != "e2-standard-4" {
		t.Errorf("instanceTypes = %v", got.InstanceTypes)
	}
	if got.Zones == nil || len(*got.Zones) != 2 {
		t.Errorf("zones = %v", got.Zones)
	}
	if got.Status == nil || got.Status.State != model.ClusterStatusActive {
		t.Errorf("status = %+v", got.Status)
	}
	if got.Status.CurrentCount == nil || *got.Status.CurrentCount != 3 {
		t.Errorf("currentCount = %v, want 3", got.Status.CurrentCount)
	}
}

func TestBuildNodePool(t *testing.T) {
	name := "workers"
	machine := []string{"e2-standard-4"}
	disk := int32(100)
	ct := "preemptible"

	t.Run("autoscaling enabled when min and max differ", func(t *testing.T) {
		np := buildNodePool(model.NodePool{
			Name:          &name,
			InstanceTypes: &machine,
			DiskSizeGB:    &disk,
			CapacityType:  &ct,
			Scaling:       &model.NodePoolScaling{Min: 1, Max: 5, Desired: 3},
		})
		if np.Name != "workers" {
			t.Errorf("name = %q", np.Name)
		}
		if np.Config.MachineType != "e2-standard-4" || np.Config.DiskSizeGb != 100 {
			t.Errorf("config = %+v", np.Config)
		}
		if !np.Config.Preemptible || np.Config.Spot {
			t.Errorf("capacity flags = preemptible:%v spot:%v", np.Config.Preemptible, np.Config.Spot)
		}
		if np.InitialNodeCount != 3 {
			t.Errorf("initialNodeCount = %d", np.InitialNodeCount)
		}
		if np.Autoscaling == nil || !np.Autoscaling.Enabled || np.Autoscaling.MinNodeCount != 1 || np.Autoscaling.MaxNodeCount != 5 {
			t.Errorf("autoscaling = %+v", np.Autoscaling)
		}
	})

	t.Run("fixed size pool carries no autoscaling", func(t *testing.T) {
		np := buildNodePool(model.NodePool{
			Name:    &name,
			Scaling: &model.NodePoolScaling{Min: 3, Max: 3, Desired: 3},
		})
		if np.Autoscaling != nil {
			t.Errorf("autoscaling = %+v, want nil", np.Autoscaling)
		}
		if np.InitialNodeCount != 3 {
			t.Errorf("initialNodeCount = %d", np.InitialNodeCount)
		}
	})
}

func TestParsePortRange(t *testing.T) {
	tests := []struct {
		in       string
		from, to int32
	}{
		{"22", 22, 22},
		{"100-200", 100, 200},
		{"", 0, 0},
	}
	for _, tt := range tests {
		from, to := parsePortRange(tt.in)
		if from != tt.from || to != tt.to {
			t.Errorf("parsePortRange(%q) = %d,%d, want %d,%d", tt.in, from, to, tt.from, tt.to)
		}
	}
}

func TestGCPLabels(t *testing.T) {
	got := gcpLabels(map[string]string{"Cost Center": "infra", "env": "dev"})
	if got["cost_center"] != "infra" {
		t.Errorf("expected sanitized key cost_center, got %v", got)
	}
	if got["env"] != "dev" {
		t.Errorf("valid keys must pass through: %v", got)
	}
	if gcpLabels(nil) != nil {
		t.Error("empty tags must map to nil labels")
	}
}

func TestRenderKubeconfig(t *testing.T) {
	content := string(renderKubeconfig("demo", "34.0.0.1", "Q0EtREFUQQ==", "demo-project", "us-central1"))

	for _, want := range []string{
		"server: https://34.0.0.1",
		"certificate-authority-data: Q0EtREFUQQ==",
		"current-context: gke_demo-project_us-central1_demo",
		"command: gke-gcloud-auth-plugin",
		"provideClusterInfo: true",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("kubeconfig missing %q:\n%s", want, content)
		}
	}
}
