package gke

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/container/v1"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// clusterStatus maps the GKE lifecycle state onto the normalized status.
// DEGRADED means reachable but unhealthy and maps to UNKNOWN.
func clusterStatus(s string) model.ClusterStatus {
	switch s {
	case "PROVISIONING":
		return model.ClusterStatusCreating
	case "RUNNING":
		return model.ClusterStatusActive
	case "RECONCILING":
		return model.ClusterStatusUpdating
	case "STOPPING":
		return model.ClusterStatusDeleting
	case "ERROR":
		return model.ClusterStatusFailed
	}
	return model.ClusterStatusUnknown
}

func nodePoolStatus(s string) model.ClusterStatus {
	switch s {
	case "PROVISIONING":
		return model.ClusterStatusCreating
	case "RUNNING":
		return model.ClusterStatusActive
	case "RECONCILING":
		return model.ClusterStatusUpdating
	case "STOPPING":
		return model.ClusterStatusDeleting
	case "ERROR":
		return model.ClusterStatusFailed
	}
	return model.ClusterStatusUnknown
}

func (d *driver) clusterToModel(c *container.Cluster) *model.Cluster {
	version := c.CurrentMasterVersion
	if version == "" {
		version = c.InitialClusterVersion
	}
	region := c.Location
	if region == "" {
		region = d.region
	}
	cl := &model.Cluster{
		ID:        c.Name,
		Name:      c.Name,
		Provider:  model.ProviderGCP,
		Region:    region,
		Version:   version,
		Status:    clusterStatus(c.Status),
		Endpoint:  c.Endpoint,
		Tags:      c.ResourceLabels,
		Autopilot: c.Autopilot != nil && c.Autopilot.Enabled,
	}
	if c.CreateTime != "" {
		if t, err := time.Parse(time.RFC3339, c.CreateTime); err == nil {
			cl.CreatedAt = t
		}
	}
	return cl
}

func nodePoolToModel(np *container.NodePool) *model.NodePool {
	pool := &model.NodePool{
		Name: &np.Name,
	}
	if np.Version != "" {
		pool.Version = &np.Version
	}
	if np.Config != nil {
		if np.Config.MachineType != "" {
			types := []string{np.Config.MachineType}
			pool.InstanceTypes = &types
		}
		if np.Config.DiskSizeGb > 0 {
			size := int32(np.Config.DiskSizeGb)
			pool.DiskSizeGB = &size
		}
		if len(np.Config.Labels) > 0 {
			labels := make(map[string]string, len(np.Config.Labels))
			for k, v := range np.Config.Labels {
				labels[k] = v
			}
			pool.Labels = &labels
		}
		ct := "on-demand"
		switch {
		case np.Config.Spot:
			ct = "spot"
		case np.Config.Preemptible:
			ct = "preemptible"
		}
		pool.CapacityType = &ct
	}
	if len(np.Locations) > 0 {
		zones := append([]string(nil), np.Locations...)
		pool.Zones = &zones
	}

	scaling := &model.NodePoolScaling{Desired: int32(np.InitialNodeCount)}
	if np.Autoscaling != nil && np.Autoscaling.Enabled {
		scaling.Min = int32(np.Autoscaling.MinNodeCount)
		scaling.Max = int32(np.Autoscaling.MaxNodeCount)
	} else {
		scaling.Min = scaling.Desired
		scaling.Max = scaling.Desired
	}
	pool.Scaling = scaling

	current := int32(np.InitialNodeCount)
	pool.Status = &model.NodePoolStatus{
		State:        nodePoolStatus(np.Status),
		CurrentCount: &current,
	}
	return pool
}

// buildNodePool maps the unified pool onto a GKE node pool for create calls.
func buildNodePool(pool model.NodePool) *container.NodePool {
	np := &container.NodePool{
		Name:   deref(pool.Name),
		Config: &container.NodeConfig{},
	}
	if pool.Version != nil {
		np.Version = *pool.Version
	}
	if pool.InstanceTypes != nil && len(*pool.InstanceTypes) > 0 {
		np.Config.MachineType = (*pool.InstanceTypes)[0]
	}
	if pool.DiskSizeGB != nil {
		np.Config.DiskSizeGb = int64(*pool.DiskSizeGB)
	}
	if pool.Labels != nil {
		np.Config.Labels = *pool.Labels
	}
	if pool.CapacityType != nil {
		switch *pool.CapacityType {
		case "spot":
			np.Config.Spot = true
		case "preemptible":
			np.Config.Preemptible = true
		}
	}
	if pool.Zones != nil {
		np.Locations = *pool.Zones
	}
	if pool.Scaling != nil {
		np.InitialNodeCount = int64(pool.Scaling.Desired)
		if pool.Scaling.Min != pool.Scaling.Max {
			np.Autoscaling = &container.NodePoolAutoscaling{
				Enabled:      true,
				MinNodeCount: int64(pool.Scaling.Min),
				MaxNodeCount: int64(pool.Scaling.Max),
			}
		}
	}
	return np
}

// gkeDroppedPoolFields names unified pool fields GKE cannot express.
func gkeDroppedPoolFields(pool model.NodePool) []string {
	var dropped []string
	if pool.InstanceTypes != nil && len(*pool.InstanceTypes) > 1 {
		dropped = append(dropped, "instanceTypes[1:]")
	}
	if pool.RoleARN != nil {
		dropped = append(dropped, "roleARN")
	}
	if pool.AMIType != nil {
		dropped = append(dropped, "amiType")
	}
	if pool.Mode != nil {
		dropped = append(dropped, "mode")
	}
	return dropped
}

// gcpLabels sanitizes tag keys into valid GCP label keys.
func gcpLabels(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[naming.GCPLabelKey(k)] = v
	}
	return out
}

func networkToModel(n *compute.Network, region string) *model.VPC {
	return &model.VPC{
		ID:     n.Name,
		Name:   n.Name,
		CIDR:   n.IPv4Range,
		Region: region,
		State:  "available",
	}
}

func subnetworkToModel(s *compute.Subnetwork) *model.Subnet {
	return &model.Subnet{
		ID:    s.Name,
		VPCID: lastSegment(s.Network),
		Name:  s.Name,
		CIDR:  s.IpCidrRange,
		Zone:  lastSegment(s.Region),
	}
}

// firewallToModel expands one firewall object into the unified group. Each
// protocol and port entry becomes one rule carrying the firewall's shared
// direction, priority and action.
func firewallToModel(fw *compute.Firewall) *model.SecurityGroup {
	direction := model.RuleIngress
	if fw.Direction == "EGRESS" {
		direction = model.RuleEgress
	}

	var cidrs []string
	if direction == model.RuleIngress {
		cidrs = fw.SourceRanges
	} else {
		cidrs = fw.DestinationRanges
	}

	var rules []model.Rule
	appendRules := func(protocol string, ports []string, action model.RuleAction) {
		base := model.Rule{
			Direction:   direction,
			Protocol:    protocol,
			CIDRBlocks:  cidrs,
			SourceTags:  fw.SourceTags,
			TargetTags:  fw.TargetTags,
			Priority:    int32(fw.Priority),
			Action:      action,
			Description: fw.Description,
		}
		if len(ports) == 0 {
			rules = append(rules, base.Normalize())
			return
		}
		for _, port := range ports {
			r := base
			r.FromPort, r.ToPort = parsePortRange(port)
			rules = append(rules, r.Normalize())
		}
	}
	for _, allowed := range fw.Allowed {
		appendRules(allowed.IPProtocol, allowed.Ports, model.RuleActionAllow)
	}
	for _, denied := range fw.Denied {
		appendRules(denied.IPProtocol, denied.Ports, model.RuleActionDeny)
	}

	return &model.SecurityGroup{
		ID:          fw.Name,
		Name:        fw.Name,
		Description: fw.Description,
		VPCID:       lastSegment(fw.Network),
		Rules:       rules,
	}
}

// buildFirewall maps a security group spec onto one firewall object. A
// firewall carries exactly one direction, action and priority, so mixed
// rule sets are rejected.
func buildFirewall(spec *model.SecurityGroupSpec) (*compute.Firewall, error) {
	if len(spec.Rules) == 0 {
		return nil, model.NewValidationError("securityGroup.rules", "gcp firewalls require at least one rule")
	}

	base := spec.Rules[0].Normalize()
	for _, r := range spec.Rules[1:] {
		n := r.Normalize()
		if n.Direction != base.Direction || n.Action != base.Action || n.Priority != base.Priority {
			return nil, model.NewValidationError("securityGroup.rules",
				"gcp firewalls carry one direction, action and priority; split mixed rules into separate groups")
		}
	}

	// Network is a resource URL and is filled in by the caller.
	fw := &compute.Firewall{
		Name:        spec.Name,
		Description: spec.Description,
		Direction:   gcpDirection(base.Direction),
		Priority:    int64(base.Priority),
	}

	cidrSet := map[string]bool{}
	sourceTagSet := map[string]bool{}
	targetTagSet := map[string]bool{}
	for _, r := range spec.Rules {
		n := r.Normalize()
		for _, c := range n.CIDRBlocks {
			cidrSet[c] = true
		}
		for _, t := range n.SourceTags {
			sourceTagSet[t] = true
		}
		for _, t := range n.TargetTags {
			targetTagSet[t] = true
		}
		entryPorts := rulePorts(n)
		if base.Action == model.RuleActionAllow {
			fw.Allowed = append(fw.Allowed, &compute.FirewallAllowed{IPProtocol: n.Protocol, Ports: entryPorts})
		} else {
			fw.Denied = append(fw.Denied, &compute.FirewallDenied{IPProtocol: n.Protocol, Ports: entryPorts})
		}
	}

	cidrs := sortedKeys(cidrSet)
	if base.Direction == model.RuleIngress {
		fw.SourceRanges = cidrs
		fw.SourceTags = sortedKeys(sourceTagSet)
	} else {
		fw.DestinationRanges = cidrs
	}
	fw.TargetTags = sortedKeys(targetTagSet)

	return fw, nil
}

// gkeDroppedRuleFields names unified rule fields GCP firewalls cannot
// express.
func gkeDroppedRuleFields(rule model.Rule) []string {
	var dropped []string
	if len(rule.PeerGroups) > 0 {
		dropped = append(dropped, "peerGroups")
	}
	return dropped
}

func gcpDirection(d model.RuleDirection) string {
	if d == model.RuleEgress {
		return "EGRESS"
	}
	return "INGRESS"
}

// rulePorts renders the rule's port range for a firewall entry. ICMP and the
// wildcard protocol take no ports.
func rulePorts(rule model.Rule) []string {
	if rule.Protocol == model.RuleProtocolAll || rule.Protocol == "icmp" {
		return nil
	}
	pr := rule.PortRange()
	if pr == "" {
		return nil
	}
	return []string{pr}
}

func parsePortRange(s string) (int32, int32) {
	if s == "" {
		return 0, 0
	}
	if from, to, ok := strings.Cut(s, "-"); ok {
		f, _ := strconv.Atoi(from)
		t, _ := strconv.Atoi(to)
		return int32(f), int32(t)
	}
	p, _ := strconv.Atoi(s)
	return int32(p), int32(p)
}

// lastSegment returns the final path segment of a resource URL, or the input
// unchanged when it has no slashes.
func lastSegment(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
