package aks

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// vpcTag carries the unified VPC association on network security groups,
// which Azure does not scope to a virtual network.
const vpcTag = "strato-vpc"

// provisioningStatus maps an ARM provisioning state onto the normalized
// status. Azure uses the same states for clusters and agent pools.
func provisioningStatus(state string) model.ClusterStatus {
	switch state {
	case "Creating":
		return model.ClusterStatusCreating
	case "Succeeded":
		return model.ClusterStatusActive
	case "Updating", "Upgrading", "Scaling":
		return model.ClusterStatusUpdating
	case "Deleting":
		return model.ClusterStatusDeleting
	case "Failed":
		return model.ClusterStatusFailed
	}
	return model.ClusterStatusUnknown
}

// resourceGroupFromID extracts the resource group segment of an ARM id.
func resourceGroupFromID(armID string) string {
	parts := strings.Split(armID, "/")
	for i, p := range parts {
		if strings.EqualFold(p, "resourceGroups") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func managedClusterToModel(mc *armcontainerservice.ManagedCluster) *model.Cluster {
	cl := &model.Cluster{
		Provider: model.ProviderAzure,
		Status:   model.ClusterStatusUnknown,
		Tags:     tagsToMap(mc.Tags),
	}
	if mc.ID != nil {
		cl.ID = *mc.ID
	}
	if mc.Name != nil {
		cl.Name = *mc.Name
	}
	if mc.Location != nil {
		cl.Region = *mc.Location
	}
	if props := mc.Properties; props != nil {
		if props.KubernetesVersion != nil {
			cl.Version = *props.KubernetesVersion
		}
		if props.ProvisioningState != nil {
			cl.Status = provisioningStatus(*props.ProvisioningState)
		}
		if props.Fqdn != nil {
			cl.Endpoint = *props.Fqdn
		}
	}
	if mc.SystemData != nil && mc.SystemData.CreatedAt != nil {
		cl.CreatedAt = *mc.SystemData.CreatedAt
	}
	return cl
}

// agentPoolToModel converts an AKS agent pool to the unified pool. Zones
// come back in the unified location-qualified form.
func (d *driver) agentPoolToModel(ap *armcontainerservice.AgentPool) *model.NodePool {
	pool := &model.NodePool{}
	if ap.Name != nil {
		pool.Name = to.Ptr(*ap.Name)
		pool.ProviderName = to.Ptr(*ap.Name)
	}

	props := ap.Properties
	if props == nil {
		return pool
	}

	if props.OrchestratorVersion != nil {
		pool.Version = to.Ptr(*props.OrchestratorVersion)
	}
	if props.VMSize != nil {
		types := []string{*props.VMSize}
		pool.InstanceTypes = &types
	}
	if props.OSDiskSizeGB != nil {
		pool.DiskSizeGB = to.Ptr(*props.OSDiskSizeGB)
	}
	if props.Mode != nil {
		mode := strings.ToLower(string(*props.Mode))
		pool.Mode = &mode
	}

	ct := "on-demand"
	if props.ScaleSetPriority != nil && *props.ScaleSetPriority == armcontainerservice.ScaleSetPrioritySpot {
		ct = "spot"
	}
	pool.CapacityType = &ct

	if len(props.NodeLabels) > 0 {
		labels := make(map[string]string, len(props.NodeLabels))
		for k, v := range props.NodeLabels {
			if v != nil {
				labels[k] = *v
			}
		}
		pool.Labels = &labels
	}

	if len(props.AvailabilityZones) > 0 {
		zones := make([]string, 0, len(props.AvailabilityZones))
		for _, z := range props.AvailabilityZones {
			if z != nil {
				zones = append(zones, d.zoneToUnified(*z))
			}
		}
		pool.Zones = &zones
	}

	scaling := &model.NodePoolScaling{}
	if props.Count != nil {
		scaling.Desired = *props.Count
	}
	if props.EnableAutoScaling != nil && *props.EnableAutoScaling {
		if props.MinCount != nil {
			scaling.Min = *props.MinCount
		}
		if props.MaxCount != nil {
			scaling.Max = *props.MaxCount
		}
	} else {
		scaling.Min = scaling.Desired
		scaling.Max = scaling.Desired
	}
	pool.Scaling = scaling

	status := &model.NodePoolStatus{State: model.ClusterStatusUnknown}
	if props.ProvisioningState != nil {
		status.State = provisioningStatus(*props.ProvisioningState)
	}
	if props.Count != nil {
		status.CurrentCount = to.Ptr(*props.Count)
	}
	pool.Status = status

	return pool
}

// buildPoolProperties maps the unified pool onto agent pool properties for
// create and update calls.
func (d *driver) buildPoolProperties(pool model.NodePool) *armcontainerservice.ManagedClusterAgentPoolProfileProperties {
	props := &armcontainerservice.ManagedClusterAgentPoolProfileProperties{
		OSType: to.Ptr(armcontainerservice.OSTypeLinux),
		Type:   to.Ptr(armcontainerservice.AgentPoolTypeVirtualMachineScaleSets),
		Mode:   to.Ptr(armcontainerservice.AgentPoolModeUser),
	}

	if pool.Mode != nil && strings.EqualFold(*pool.Mode, "system") {
		props.Mode = to.Ptr(armcontainerservice.AgentPoolModeSystem)
	}
	if pool.Version != nil {
		props.OrchestratorVersion = to.Ptr(*pool.Version)
	}
	if pool.InstanceTypes != nil && len(*pool.InstanceTypes) > 0 {
		props.VMSize = to.Ptr((*pool.InstanceTypes)[0])
	}
	if pool.DiskSizeGB != nil {
		props.OSDiskSizeGB = to.Ptr(*pool.DiskSizeGB)
	}
	if pool.CapacityType != nil && *pool.CapacityType == "spot" {
		props.ScaleSetPriority = to.Ptr(armcontainerservice.ScaleSetPrioritySpot)
	}
	if pool.Labels != nil {
		labels := make(map[string]*string, len(*pool.Labels))
		for k, v := range *pool.Labels {
			labels[k] = to.Ptr(v)
		}
		props.NodeLabels = labels
	}
	if pool.Zones != nil && len(*pool.Zones) > 0 {
		zones := make([]*string, 0, len(*pool.Zones))
		for _, z := range *pool.Zones {
			zones = append(zones, to.Ptr(d.zoneToAKS(z)))
		}
		props.AvailabilityZones = zones
	}
	if pool.Scaling != nil {
		props.Count = to.Ptr(pool.Scaling.Desired)
		if pool.Scaling.Min != pool.Scaling.Max {
			props.EnableAutoScaling = to.Ptr(true)
			props.MinCount = to.Ptr(pool.Scaling.Min)
			props.MaxCount = to.Ptr(pool.Scaling.Max)
		}
	}

	return props
}

// poolProfile renders the same properties as an inline cluster profile for
// the create call, which takes the flattened form.
func (d *driver) poolProfile(pool model.NodePool) *armcontainerservice.ManagedClusterAgentPoolProfile {
	p := d.buildPoolProperties(pool)
	profile := &armcontainerservice.ManagedClusterAgentPoolProfile{
		Name:                to.Ptr(deref(pool.Name)),
		OSType:              p.OSType,
		Type:                p.Type,
		Mode:                p.Mode,
		OrchestratorVersion: p.OrchestratorVersion,
		VMSize:              p.VMSize,
		OSDiskSizeGB:        p.OSDiskSizeGB,
		ScaleSetPriority:    p.ScaleSetPriority,
		NodeLabels:          p.NodeLabels,
		AvailabilityZones:   p.AvailabilityZones,
		Count:               p.Count,
		EnableAutoScaling:   p.EnableAutoScaling,
		MinCount:            p.MinCount,
		MaxCount:            p.MaxCount,
	}
	// The cluster's first pool must be a system pool.
	if pool.Mode == nil {
		profile.Mode = to.Ptr(armcontainerservice.AgentPoolModeSystem)
	}
	return profile
}

// azDroppedPoolFields names unified pool fields AKS cannot express.
func azDroppedPoolFields(pool model.NodePool) []string {
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
	if pool.CapacityType != nil && *pool.CapacityType == "preemptible" {
		dropped = append(dropped, "capacityType=preemptible")
	}
	return dropped
}

// zoneToUnified converts an AKS zone index ("1") into the unified
// location-qualified form ("eastus-1").
func (d *driver) zoneToUnified(zone string) string {
	if strings.Contains(zone, "-") {
		return zone
	}
	return fmt.Sprintf("%s-%s", d.location, zone)
}

// zoneToAKS converts a unified zone ("eastus-1") into the bare index AKS
// expects ("1").
func (d *driver) zoneToAKS(zone string) string {
	parts := strings.Split(zone, "-")
	return parts[len(parts)-1]
}

func vnetToModel(v *armnetwork.VirtualNetwork) *model.VPC {
	vpc := &model.VPC{Tags: tagsToMap(v.Tags)}
	if v.Name != nil {
		vpc.ID = *v.Name
		vpc.Name = *v.Name
	}
	if v.Location != nil {
		vpc.Region = *v.Location
	}
	if props := v.Properties; props != nil {
		if props.AddressSpace != nil && len(props.AddressSpace.AddressPrefixes) > 0 && props.AddressSpace.AddressPrefixes[0] != nil {
			vpc.CIDR = *props.AddressSpace.AddressPrefixes[0]
		}
		if props.ProvisioningState != nil {
			if *props.ProvisioningState == armnetwork.ProvisioningStateSucceeded {
				vpc.State = "available"
			} else {
				vpc.State = strings.ToLower(string(*props.ProvisioningState))
			}
		}
	}
	return vpc
}

func subnetToModel(s *armnetwork.Subnet, vnetName string) *model.Subnet {
	subnet := &model.Subnet{VPCID: vnetName}
	if s.Name != nil {
		subnet.ID = *s.Name
		subnet.Name = *s.Name
	}
	if s.Properties != nil && s.Properties.AddressPrefix != nil {
		subnet.CIDR = *s.Properties.AddressPrefix
	}
	return subnet
}

func (d *driver) nsgToModel(nsg *armnetwork.SecurityGroup) *model.SecurityGroup {
	group := &model.SecurityGroup{}
	if nsg.Name != nil {
		group.ID = *nsg.Name
		group.Name = *nsg.Name
	}
	tags := tagsToMap(nsg.Tags)
	group.VPCID = tags[vpcTag]
	delete(tags, vpcTag)
	if len(tags) > 0 {
		group.Tags = tags
	}
	if nsg.Properties != nil {
		for _, sr := range nsg.Properties.SecurityRules {
			if rule, ok := securityRuleToRule(sr); ok {
				group.Rules = append(group.Rules, rule)
			}
		}
	}
	return group
}

// ruleName derives a deterministic security rule name so the same unified
// rule always lands on, and removes, the same ARM child resource.
func ruleName(rule model.Rule) string {
	rule = rule.Normalize()
	cidrs := append([]string(nil), rule.CIDRBlocks...)
	sort.Strings(cidrs)
	canonical := fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		rule.Direction, rule.Protocol, rule.PortRange(), strings.Join(cidrs, ","), rule.Priority, rule.Action)
	return fmt.Sprintf("%s-%s-%s", rule.Direction, rule.Protocol, naming.ResourceHash(canonical))
}

// ruleToSecurityRule maps a unified rule onto an NSG security rule. The
// remote side carries the CIDRs; the local side and source ports are
// wildcards, matching how the unified model reads back.
func ruleToSecurityRule(rule model.Rule) *armnetwork.SecurityRule {
	rule = rule.Normalize()

	props := &armnetwork.SecurityRulePropertiesFormat{
		Protocol:        to.Ptr(azProtocol(rule.Protocol)),
		Access:          to.Ptr(azAccess(rule.Action)),
		Priority:        to.Ptr(rule.Priority),
		SourcePortRange: to.Ptr("*"),
	}
	if rule.Description != "" {
		props.Description = to.Ptr(rule.Description)
	}

	ports := rule.PortRange()
	if ports == "" {
		ports = "*"
	}
	props.DestinationPortRange = to.Ptr(ports)

	remoteSingle, remoteMulti := addressPrefixes(rule.CIDRBlocks)
	if rule.Direction == model.RuleIngress {
		props.Direction = to.Ptr(armnetwork.SecurityRuleDirectionInbound)
		props.SourceAddressPrefix = remoteSingle
		props.SourceAddressPrefixes = remoteMulti
		props.DestinationAddressPrefix = to.Ptr("*")
	} else {
		props.Direction = to.Ptr(armnetwork.SecurityRuleDirectionOutbound)
		props.SourceAddressPrefix = to.Ptr("*")
		props.DestinationAddressPrefix = remoteSingle
		props.DestinationAddressPrefixes = remoteMulti
	}

	return &armnetwork.SecurityRule{
		Name:       to.Ptr(ruleName(rule)),
		Properties: props,
	}
}

// securityRuleToRule converts an NSG security rule back to the unified
// model. Rules with no recognizable shape report ok=false and are skipped.
func securityRuleToRule(sr *armnetwork.SecurityRule) (model.Rule, bool) {
	if sr == nil || sr.Properties == nil {
		return model.Rule{}, false
	}
	props := sr.Properties

	rule := model.Rule{Action: model.RuleActionAllow}
	if props.Direction == nil {
		return model.Rule{}, false
	}
	if *props.Direction == armnetwork.SecurityRuleDirectionOutbound {
		rule.Direction = model.RuleEgress
	} else {
		rule.Direction = model.RuleIngress
	}
	if props.Access != nil && *props.Access == armnetwork.SecurityRuleAccessDeny {
		rule.Action = model.RuleActionDeny
	}
	if props.Priority != nil {
		rule.Priority = *props.Priority
	}
	if props.Protocol != nil {
		rule.Protocol = protocolFromAzure(*props.Protocol)
	}
	if props.Description != nil {
		rule.Description = *props.Description
	}
	if props.DestinationPortRange != nil && *props.DestinationPortRange != "*" {
		rule.FromPort, rule.ToPort = parsePortRange(*props.DestinationPortRange)
	}

	var single *string
	var multi []*string
	if rule.Direction == model.RuleIngress {
		single, multi = props.SourceAddressPrefix, props.SourceAddressPrefixes
	} else {
		single, multi = props.DestinationAddressPrefix, props.DestinationAddressPrefixes
	}
	if single != nil && *single != "" && *single != "*" {
		rule.CIDRBlocks = append(rule.CIDRBlocks, *single)
	}
	for _, p := range multi {
		if p != nil && *p != "" {
			rule.CIDRBlocks = append(rule.CIDRBlocks, *p)
		}
	}

	return rule.Normalize(), true
}

// azDroppedRuleFields names unified rule fields NSGs cannot express.
func azDroppedRuleFields(rule model.Rule) []string {
	var dropped []string
	if len(rule.PeerGroups) > 0 {
		dropped = append(dropped, "peerGroups")
	}
	if len(rule.SourceTags) > 0 {
		dropped = append(dropped, "sourceTags")
	}
	if len(rule.TargetTags) > 0 {
		dropped = append(dropped, "targetTags")
	}
	return dropped
}

// checkRulePriority enforces the NSG priority window before any provider
// call.
func checkRulePriority(rule model.Rule) error {
	p := rule.Normalize().Priority
	if p < 100 || p > 4096 {
		return model.NewValidationError("rule.priority", "azure priorities must be between 100 and 4096")
	}
	return nil
}

func azProtocol(protocol string) armnetwork.SecurityRuleProtocol {
	switch protocol {
	case "tcp":
		return armnetwork.SecurityRuleProtocolTCP
	case "udp":
		return armnetwork.SecurityRuleProtocolUDP
	case "icmp":
		return armnetwork.SecurityRuleProtocolIcmp
	}
	return armnetwork.SecurityRuleProtocolAsterisk
}

func protocolFromAzure(protocol armnetwork.SecurityRuleProtocol) string {
	switch protocol {
	case armnetwork.SecurityRuleProtocolTCP:
		return "tcp"
	case armnetwork.SecurityRuleProtocolUDP:
		return "udp"
	case armnetwork.SecurityRuleProtocolIcmp:
		return "icmp"
	}
	return model.RuleProtocolAll
}

func azAccess(action model.RuleAction) armnetwork.SecurityRuleAccess {
	if action == model.RuleActionDeny {
		return armnetwork.SecurityRuleAccessDeny
	}
	return armnetwork.SecurityRuleAccessAllow
}

// addressPrefixes renders CIDRs for an ARM rule: one CIDR uses the scalar
// field, several use the list, none means any.
func addressPrefixes(cidrs []string) (*string, []*string) {
	switch len(cidrs) {
	case 0:
		return to.Ptr("*"), nil
	case 1:
		return to.Ptr(cidrs[0]), nil
	}
	out := make([]*string, 0, len(cidrs))
	for _, c := range cidrs {
		out = append(out, to.Ptr(c))
	}
	return nil, out
}

func parsePortRange(s string) (int32, int32) {
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		f, _ := strconv.Atoi(lo)
		t, _ := strconv.Atoi(hi)
		return int32(f), int32(t)
	}
	p, _ := strconv.Atoi(s)
	return int32(p), int32(p)
}

func tagsToMap(tags map[string]*string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

func mapToTags(m map[string]string) map[string]*string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]*string, len(m))
	for k, v := range m {
		out[k] = to.Ptr(v)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
