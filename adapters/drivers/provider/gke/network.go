package gke

import (
	"context"
	"fmt"
	"sort"

	"google.golang.org/api/compute/v1"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// computeRegion returns the driver's location with any zone suffix trimmed.
// Subnetworks are regional resources even when the driver is bound to a
// zone.
func (d *driver) computeRegion() string {
	return zoneSuffix.ReplaceAllString(d.region, "")
}

func (d *driver) networkURL(name string) string {
	return fmt.Sprintf("projects/%s/global/networks/%s", d.projectID, name)
}

// VPCCreate creates a custom-mode network. GCP networks are global and
// carve address space per subnetwork, so a spec CIDR is dropped.
func (d *driver) VPCCreate(ctx context.Context, spec *model.VPCSpec) (vpc *model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCCreate")
	defer func() { cleanup(err) }()

	logger := logging.FromContext(ctx)
	if spec.CIDR != "" {
		logger.Warn(ctx, "gcp networks carve cidrs per subnetwork, dropping vpc cidr", "vpc", spec.Name)
	}
	if len(spec.Tags) > 0 {
		logger.Warn(ctx, "gcp networks do not take labels, dropping tags", "vpc", spec.Name)
	}

	network := &compute.Network{
		Name:                  spec.Name,
		AutoCreateSubnetworks: false,
		// False must reach the API or GCP defaults to auto mode.
		ForceSendFields: []string{"AutoCreateSubnetworks"},
	}
	_, err = d.compute.Networks.Insert(d.projectID, network).Context(ctx).Do()
	if err != nil {
		return nil, d.wrapErr("insert_network", err)
	}

	// The insert call returns a long-running operation; the network is
	// synthesized rather than read back.
	return &model.VPC{
		ID:     spec.Name,
		Name:   spec.Name,
		Region: "global",
		State:  "creating",
	}, nil
}

// VPCGet returns the named network or a NotFoundError.
func (d *driver) VPCGet(ctx context.Context, id string) (vpc *model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCGet")
	defer func() { cleanup(err) }()

	n, err := d.compute.Networks.Get(d.projectID, id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("vpc", id)
		}
		return nil, d.wrapErr("get_network", err)
	}
	return networkToModel(n, "global"), nil
}

// VPCList returns all networks in the project.
func (d *driver) VPCList(ctx context.Context) (vpcs []*model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCList")
	defer func() { cleanup(err) }()

	token := ""
	for {
		call := d.compute.Networks.List(d.projectID).Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		out, err := call.Do()
		if err != nil {
			return nil, d.wrapErr("list_networks", err)
		}
		for _, n := range out.Items {
			vpcs = append(vpcs, networkToModel(n, "global"))
		}
		if out.NextPageToken == "" {
			return vpcs, nil
		}
		token = out.NextPageToken
	}
}

// VPCDelete deletes the named network. Deleting an absent network succeeds.
func (d *driver) VPCDelete(ctx context.Context, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCDelete")
	defer func() { cleanup(err) }()

	_, err = d.compute.Networks.Delete(d.projectID, id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "network already absent", "vpc_id", id)
			return nil
		}
		return d.wrapErr("delete_network", err)
	}
	return nil
}

// SubnetCreate creates a subnetwork in the spec's network. The region comes
// from the spec zone when set, otherwise from the driver's bound location.
func (d *driver) SubnetCreate(ctx context.Context, spec *model.SubnetSpec) (subnet *model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetCreate")
	defer func() { cleanup(err) }()

	if len(spec.Tags) > 0 {
		logging.FromContext(ctx).Warn(ctx, "gcp subnetworks do not take labels, dropping tags", "subnet", spec.Name)
	}

	region := d.computeRegion()
	if spec.Zone != "" {
		region = zoneSuffix.ReplaceAllString(spec.Zone, "")
	}

	sn := &compute.Subnetwork{
		Name:        spec.Name,
		IpCidrRange: spec.CIDR,
		Network:     d.networkURL(spec.VPCID),
	}
	_, err = d.compute.Subnetworks.Insert(d.projectID, region, sn).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("vpc", spec.VPCID)
		}
		return nil, d.wrapErr("insert_subnetwork", err)
	}

	return &model.Subnet{
		ID:    spec.Name,
		VPCID: spec.VPCID,
		Name:  spec.Name,
		CIDR:  spec.CIDR,
		Zone:  region,
	}, nil
}

// SubnetGet returns the subnetwork scoped to the given network. A
// subnetwork that exists under a different network is reported as not
// found.
func (d *driver) SubnetGet(ctx context.Context, vpcID, id string) (subnet *model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetGet")
	defer func() { cleanup(err) }()

	s, err := d.compute.Subnetworks.Get(d.projectID, d.computeRegion(), id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("subnet", id)
		}
		return nil, d.wrapErr("get_subnetwork", err)
	}
	if vpcID != "" && lastSegment(s.Network) != vpcID {
		return nil, model.NewNotFoundError("subnet", id)
	}
	return subnetworkToModel(s), nil
}

// SubnetList returns the network's subnetworks in the driver's region.
func (d *driver) SubnetList(ctx context.Context, vpcID string) (subnets []*model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetList")
	defer func() { cleanup(err) }()

	token := ""
	for {
		call := d.compute.Subnetworks.List(d.projectID, d.computeRegion()).Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		out, err := call.Do()
		if err != nil {
			return nil, d.wrapErr("list_subnetworks", err)
		}
		for _, s := range out.Items {
			if vpcID != "" && lastSegment(s.Network) != vpcID {
				continue
			}
			subnets = append(subnets, subnetworkToModel(s))
		}
		if out.NextPageToken == "" {
			break
		}
		token = out.NextPageToken
	}

	sort.Slice(subnets, func(i, j int) bool { return subnets[i].Name < subnets[j].Name })
	return subnets, nil
}

// SubnetDelete deletes the subnetwork. Deleting an absent subnetwork
// succeeds.
func (d *driver) SubnetDelete(ctx context.Context, vpcID, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetDelete")
	defer func() { cleanup(err) }()

	_, err = d.compute.Subnetworks.Delete(d.projectID, d.computeRegion(), id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "subnetwork already absent", "subnet_id", id)
			return nil
		}
		return d.wrapErr("delete_subnetwork", err)
	}
	return nil
}

// SecurityGroupCreate creates one firewall carrying the spec's rules. All
// rules must share a direction, action and priority; fields a firewall
// cannot express are dropped with a warning.
func (d *driver) SecurityGroupCreate(ctx context.Context, spec *model.SecurityGroupSpec) (group *model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupCreate")
	defer func() { cleanup(err) }()

	if spec.VPCID == "" {
		return nil, model.NewValidationError("securityGroup.vpcID", "is required")
	}

	logger := logging.FromContext(ctx)
	if len(spec.Tags) > 0 {
		logger.Warn(ctx, "gcp firewalls do not take labels, dropping tags", "security_group", spec.Name)
	}
	for _, rule := range spec.Rules {
		if dropped := gkeDroppedRuleFields(rule); len(dropped) > 0 {
			logger.Warn(ctx, "dropping rule fields gcp firewalls cannot express",
				"security_group", spec.Name, "fields", dropped)
		}
	}

	fw, err := buildFirewall(spec)
	if err != nil {
		return nil, err
	}
	fw.Network = d.networkURL(spec.VPCID)

	_, err = d.compute.Firewalls.Insert(d.projectID, fw).Context(ctx).Do()
	if err != nil {
		return nil, d.wrapErr("insert_firewall", err)
	}

	// The insert call returns a long-running operation; the group is
	// derived from the request object rather than read back.
	return firewallToModel(fw), nil
}

// SecurityGroupGet returns the named firewall as a security group or a
// NotFoundError.
func (d *driver) SecurityGroupGet(ctx context.Context, id string) (group *model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupGet")
	defer func() { cleanup(err) }()

	fw, err := d.compute.Firewalls.Get(d.projectID, id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("security group", id)
		}
		return nil, d.wrapErr("get_firewall", err)
	}
	return firewallToModel(fw), nil
}

// SecurityGroupList returns the project's firewalls as security groups,
// filtered to the given network when set.
func (d *driver) SecurityGroupList(ctx context.Context, vpcID string) (groups []*model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupList")
	defer func() { cleanup(err) }()

	token := ""
	for {
		call := d.compute.Firewalls.List(d.projectID).Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		out, err := call.Do()
		if err != nil {
			return nil, d.wrapErr("list_firewalls", err)
		}
		for _, fw := range out.Items {
			if vpcID != "" && lastSegment(fw.Network) != vpcID {
				continue
			}
			groups = append(groups, firewallToModel(fw))
		}
		if out.NextPageToken == "" {
			break
		}
		token = out.NextPageToken
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// SecurityGroupDelete deletes the named firewall. Deleting an absent
// firewall succeeds.
func (d *driver) SecurityGroupDelete(ctx context.Context, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupDelete")
	defer func() { cleanup(err) }()

	_, err = d.compute.Firewalls.Delete(d.projectID, id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "firewall already absent", "security_group_id", id)
			return nil
		}
		return d.wrapErr("delete_firewall", err)
	}
	return nil
}

// RuleAdd merges a rule into the firewall. The rule must match the
// firewall's direction, action and priority; CIDRs and tags join the
// firewall's shared peer sets.
func (d *driver) RuleAdd(ctx context.Context, groupID string, rule model.Rule) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RuleAdd")
	defer func() { cleanup(err) }()

	rule = rule.Normalize()
	if dropped := gkeDroppedRuleFields(rule); len(dropped) > 0 {
		logging.FromContext(ctx).Warn(ctx, "dropping rule fields gcp firewalls cannot express",
			"security_group", groupID, "fields", dropped)
	}

	fw, err := d.compute.Firewalls.Get(d.projectID, groupID).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return model.NewNotFoundError("security group", groupID)
		}
		return d.wrapErr("get_firewall", err)
	}

	clone := cloneFirewall(fw)
	if err := mergeFirewallRule(clone, rule); err != nil {
		return err
	}

	_, err = d.compute.Firewalls.Update(d.projectID, groupID, clone).Context(ctx).Do()
	if err != nil {
		return d.wrapErr("update_firewall", err)
	}
	return nil
}

// RuleRemove narrows the firewall by the rule's protocol and ports.
// Removing a rule the firewall does not carry succeeds; removing the last
// rule is rejected because a firewall cannot exist without one.
func (d *driver) RuleRemove(ctx context.Context, groupID string, rule model.Rule) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RuleRemove")
	defer func() { cleanup(err) }()

	rule = rule.Normalize()

	fw, err := d.compute.Firewalls.Get(d.projectID, groupID).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return model.NewNotFoundError("security group", groupID)
		}
		return d.wrapErr("get_firewall", err)
	}

	clone := cloneFirewall(fw)
	changed := removeFirewallRule(clone, rule)
	if !changed {
		logging.FromContext(ctx).Info(ctx, "rule not present on firewall", "security_group", groupID)
		return nil
	}
	if len(clone.Allowed) == 0 && len(clone.Denied) == 0 {
		return model.NewValidationError("rule",
			"gcp firewalls require at least one rule; delete the security group instead")
	}

	_, err = d.compute.Firewalls.Update(d.projectID, groupID, clone).Context(ctx).Do()
	if err != nil {
		return d.wrapErr("update_firewall", err)
	}
	return nil
}

// cloneFirewall copies the mutable firewall fields for an update call,
// leaving output-only fields behind.
func cloneFirewall(fw *compute.Firewall) *compute.Firewall {
	clone := &compute.Firewall{
		Name:              fw.Name,
		Description:       fw.Description,
		Network:           fw.Network,
		Direction:         fw.Direction,
		Priority:          fw.Priority,
		SourceRanges:      append([]string(nil), fw.SourceRanges...),
		DestinationRanges: append([]string(nil), fw.DestinationRanges...),
		SourceTags:        append([]string(nil), fw.SourceTags...),
		TargetTags:        append([]string(nil), fw.TargetTags...),
	}
	for _, a := range fw.Allowed {
		clone.Allowed = append(clone.Allowed, &compute.FirewallAllowed{
			IPProtocol: a.IPProtocol,
			Ports:      append([]string(nil), a.Ports...),
		})
	}
	for _, dn := range fw.Denied {
		clone.Denied = append(clone.Denied, &compute.FirewallDenied{
			IPProtocol: dn.IPProtocol,
			Ports:      append([]string(nil), dn.Ports...),
		})
	}
	return clone
}

// mergeFirewallRule folds the rule into the firewall's entries. The rule
// must match the firewall's direction, action and priority because one
// firewall carries exactly one of each.
func mergeFirewallRule(fw *compute.Firewall, rule model.Rule) error {
	direction := fw.Direction
	if direction == "" {
		direction = "INGRESS"
	}
	if gcpDirection(rule.Direction) != direction {
		return model.NewValidationError("rule.direction",
			"does not match the firewall's direction; create a separate group")
	}
	action := model.RuleActionAllow
	if len(fw.Denied) > 0 {
		action = model.RuleActionDeny
	}
	if rule.Action != action {
		return model.NewValidationError("rule.action",
			"does not match the firewall's action; create a separate group")
	}
	if int64(rule.Priority) != fw.Priority {
		return model.NewValidationError("rule.priority",
			"does not match the firewall's priority; create a separate group")
	}

	for _, c := range rule.CIDRBlocks {
		if rule.Direction == model.RuleIngress {
			fw.SourceRanges = appendMissing(fw.SourceRanges, c)
		} else {
			fw.DestinationRanges = appendMissing(fw.DestinationRanges, c)
		}
	}
	for _, t := range rule.SourceTags {
		fw.SourceTags = appendMissing(fw.SourceTags, t)
	}
	for _, t := range rule.TargetTags {
		fw.TargetTags = appendMissing(fw.TargetTags, t)
	}

	ports := rulePorts(rule)
	if action == model.RuleActionAllow {
		for _, entry := range fw.Allowed {
			if entry.IPProtocol == rule.Protocol {
				entry.Ports = mergePorts(entry.Ports, ports)
				return nil
			}
		}
		fw.Allowed = append(fw.Allowed, &compute.FirewallAllowed{IPProtocol: rule.Protocol, Ports: ports})
		return nil
	}
	for _, entry := range fw.Denied {
		if entry.IPProtocol == rule.Protocol {
			entry.Ports = mergePorts(entry.Ports, ports)
			return nil
		}
	}
	fw.Denied = append(fw.Denied, &compute.FirewallDenied{IPProtocol: rule.Protocol, Ports: ports})
	return nil
}

// removeFirewallRule drops the rule's ports from the entry carrying its
// protocol. An entry left without ports is removed entirely because an
// empty port list means all ports. Returns whether anything changed.
func removeFirewallRule(fw *compute.Firewall, rule model.Rule) bool {
	ports := rulePorts(rule)

	if rule.Action == model.RuleActionAllow {
		for i, entry := range fw.Allowed {
			if entry.IPProtocol != rule.Protocol {
				continue
			}
			remaining, changed := subtractPorts(entry.Ports, ports)
			if !changed {
				return false
			}
			if len(remaining) == 0 {
				fw.Allowed = append(fw.Allowed[:i], fw.Allowed[i+1:]...)
			} else {
				entry.Ports = remaining
			}
			return true
		}
		return false
	}

	for i, entry := range fw.Denied {
		if entry.IPProtocol != rule.Protocol {
			continue
		}
		remaining, changed := subtractPorts(entry.Ports, ports)
		if !changed {
			return false
		}
		if len(remaining) == 0 {
			fw.Denied = append(fw.Denied[:i], fw.Denied[i+1:]...)
		} else {
			entry.Ports = remaining
		}
		return true
	}
	return false
}

// mergePorts unions two port lists. An empty list means all ports and
// absorbs any specific ports.
func mergePorts(existing, added []string) []string {
	if len(existing) == 0 || len(added) == 0 {
		return nil
	}
	for _, p := range added {
		existing = appendMissing(existing, p)
	}
	return existing
}

// subtractPorts removes the given ports from the list. Removing specific
// ports from an all-ports entry cannot be expressed and reports no change;
// removing all ports from an all-ports entry empties it.
func subtractPorts(existing, removed []string) ([]string, bool) {
	if len(removed) == 0 {
		// The rule names all ports: the whole entry goes.
		return nil, true
	}
	if len(existing) == 0 {
		return existing, false
	}
	var remaining []string
	changed := false
	for _, p := range existing {
		drop := false
		for _, r := range removed {
			if p == r {
				drop = true
				break
			}
		}
		if drop {
			changed = true
			continue
		}
		remaining = append(remaining, p)
	}
	return remaining, changed
}

func appendMissing(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
