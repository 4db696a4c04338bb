package aks

import (
	"context"
	"sort"
	"strconv"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// findVNet scans the subscription for the named virtual network in the
// bound location and returns it with its resource group.
func (d *driver) findVNet(ctx context.Context, name string) (*armnetwork.VirtualNetwork, string, error) {
	pager := d.vnets.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, "", d.wrapErr("list_virtual_networks", err)
		}
		for _, v := range page.Value {
			if v == nil || v.Name == nil || *v.Name != name || !d.inLocation(v.Location) {
				continue
			}
			rg := ""
			if v.ID != nil {
				rg = resourceGroupFromID(*v.ID)
			}
			return v, rg, nil
		}
	}
	return nil, "", model.NewNotFoundError("vpc", name)
}

// VPCCreate creates a virtual network in the driver's network resource
// group, which is created on demand.
func (d *driver) VPCCreate(ctx context.Context, spec *model.VPCSpec) (vpc *model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCCreate")
	defer func() { cleanup(err) }()

	if spec.CIDR == "" {
		return nil, model.NewValidationError("vpc.cidr", "is required on azure")
	}

	rg := d.networkResourceGroupName()
	if err = d.ensureResourceGroup(ctx, rg); err != nil {
		return nil, err
	}

	tags := mapToTags(spec.Tags)
	if tags == nil {
		tags = map[string]*string{}
	}
	tags["managed-by"] = to.Ptr(managedByTag)

	_, err = d.vnets.BeginCreateOrUpdate(ctx, rg, spec.Name, armnetwork.VirtualNetwork{
		Location: to.Ptr(d.location),
		Tags:     tags,
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{
				AddressPrefixes: []*string{to.Ptr(spec.CIDR)},
			},
		},
	}, nil)
	if err != nil {
		return nil, d.wrapErr("create_virtual_network", err)
	}

	// The poller is dropped: the network is synthesized rather than
	// waited for.
	return &model.VPC{
		ID:     spec.Name,
		Name:   spec.Name,
		CIDR:   spec.CIDR,
		Region: d.location,
		State:  "creating",
		Tags:   spec.Tags,
	}, nil
}

// VPCGet returns the named virtual network or a NotFoundError.
func (d *driver) VPCGet(ctx context.Context, id string) (vpc *model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCGet")
	defer func() { cleanup(err) }()

	v, _, err := d.findVNet(ctx, id)
	if err != nil {
		return nil, err
	}
	return vnetToModel(v), nil
}

// VPCList returns all virtual networks in the bound location.
func (d *driver) VPCList(ctx context.Context) (vpcs []*model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCList")
	defer func() { cleanup(err) }()

	pager := d.vnets.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, d.wrapErr("list_virtual_networks", err)
		}
		for _, v := range page.Value {
			if v == nil || !d.inLocation(v.Location) {
				continue
			}
			vpcs = append(vpcs, vnetToModel(v))
		}
	}

	sort.Slice(vpcs, func(i, j int) bool { return vpcs[i].Name < vpcs[j].Name })
	return vpcs, nil
}

// VPCDelete deletes the named virtual network. Deleting an absent network
// succeeds.
func (d *driver) VPCDelete(ctx context.Context, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCDelete")
	defer func() { cleanup(err) }()

	_, rg, err := d.findVNet(ctx, id)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "virtual network already absent", "vpc_id", id)
			return nil
		}
		return err
	}

	_, err = d.vnets.BeginDelete(ctx, rg, id, nil)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrapErr("delete_virtual_network", err)
	}
	return nil
}

// SubnetCreate creates a subnet in the spec's virtual network. Azure
// subnets are not zonal; a spec zone is dropped.
func (d *driver) SubnetCreate(ctx context.Context, spec *model.SubnetSpec) (subnet *model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetCreate")
	defer func() { cleanup(err) }()

	logger := logging.FromContext(ctx)
	if spec.Zone != "" {
		logger.Warn(ctx, "azure subnets are not zonal, dropping zone", "subnet", spec.Name)
	}
	if len(spec.Tags) > 0 {
		logger.Warn(ctx, "azure subnets do not take tags, dropping tags", "subnet", spec.Name)
	}

	_, rg, err := d.findVNet(ctx, spec.VPCID)
	if err != nil {
		return nil, err
	}

	_, err = d.subnets.BeginCreateOrUpdate(ctx, rg, spec.VPCID, spec.Name, armnetwork.Subnet{
		Properties: &armnetwork.SubnetPropertiesFormat{
			AddressPrefix: to.Ptr(spec.CIDR),
		},
	}, nil)
	if err != nil {
		return nil, d.wrapErr("create_subnet", err)
	}

	return &model.Subnet{
		ID:    spec.Name,
		VPCID: spec.VPCID,
		Name:  spec.Name,
		CIDR:  spec.CIDR,
	}, nil
}

// SubnetGet returns the subnet scoped to the given virtual network.
func (d *driver) SubnetGet(ctx context.Context, vpcID, id string) (subnet *model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetGet")
	defer func() { cleanup(err) }()

	_, rg, err := d.findVNet(ctx, vpcID)
	if err != nil {
		return nil, err
	}

	s, err := d.subnets.Get(ctx, rg, vpcID, id, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("subnet", id)
		}
		return nil, d.wrapErr("get_subnet", err)
	}
	return subnetToModel(&s.Subnet, vpcID), nil
}

// SubnetList returns the virtual network's subnets.
func (d *driver) SubnetList(ctx context.Context, vpcID string) (subnets []*model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetList")
	defer func() { cleanup(err) }()

	_, rg, err := d.findVNet(ctx, vpcID)
	if err != nil {
		return nil, err
	}

	pager := d.subnets.NewListPager(rg, vpcID, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, d.wrapErr("list_subnets", err)
		}
		for _, s := range page.Value {
			if s == nil {
				continue
			}
			subnets = append(subnets, subnetToModel(s, vpcID))
		}
	}

	sort.Slice(subnets, func(i, j int) bool { return subnets[i].Name < subnets[j].Name })
	return subnets, nil
}

// SubnetDelete deletes the subnet. Deleting an absent subnet, or a subnet
// of an absent network, succeeds.
func (d *driver) SubnetDelete(ctx context.Context, vpcID, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetDelete")
	defer func() { cleanup(err) }()

	_, rg, err := d.findVNet(ctx, vpcID)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "virtual network already absent", "vpc_id", vpcID)
			return nil
		}
		return err
	}

	_, err = d.subnets.BeginDelete(ctx, rg, vpcID, id, nil)
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "subnet already absent", "subnet_id", id)
			return nil
		}
		return d.wrapErr("delete_subnet", err)
	}
	return nil
}

// findNSG scans the subscription for the named network security group in
// the bound location and returns it with its resource group.
func (d *driver) findNSG(ctx context.Context, name string) (*armnetwork.SecurityGroup, string, error) {
	pager := d.nsgs.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, "", d.wrapErr("list_network_security_groups", err)
		}
		for _, nsg := range page.Value {
			if nsg == nil || nsg.Name == nil || *nsg.Name != name || !d.inLocation(nsg.Location) {
				continue
			}
			rg := ""
			if nsg.ID != nil {
				rg = resourceGroupFromID(*nsg.ID)
			}
			return nsg, rg, nil
		}
	}
	return nil, "", model.NewNotFoundError("security group", name)
}

// SecurityGroupCreate creates a network security group carrying the spec's
// rules. NSGs are not network-scoped on Azure, so the VPC association
// rides on a resource tag.
func (d *driver) SecurityGroupCreate(ctx context.Context, spec *model.SecurityGroupSpec) (group *model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupCreate")
	defer func() { cleanup(err) }()

	if spec.VPCID == "" {
		return nil, model.NewValidationError("securityGroup.vpcID", "is required")
	}

	logger := logging.FromContext(ctx)
	seen := map[string]bool{}
	securityRules := make([]*armnetwork.SecurityRule, 0, len(spec.Rules))
	for _, rule := range spec.Rules {
		if err = checkRulePriority(rule); err != nil {
			return nil, err
		}
		if dropped := azDroppedRuleFields(rule); len(dropped) > 0 {
			logger.Warn(ctx, "dropping rule fields azure nsgs cannot express",
				"security_group", spec.Name, "fields", dropped)
		}
		n := rule.Normalize()
		key := string(n.Direction) + "/" + strconv.Itoa(int(n.Priority))
		if seen[key] {
			return nil, model.NewValidationError("securityGroup.rules",
				"azure requires a distinct priority per direction within a group")
		}
		seen[key] = true
		securityRules = append(securityRules, ruleToSecurityRule(rule))
	}

	rg := d.networkResourceGroupName()
	if err = d.ensureResourceGroup(ctx, rg); err != nil {
		return nil, err
	}

	tags := mapToTags(spec.Tags)
	if tags == nil {
		tags = map[string]*string{}
	}
	tags[vpcTag] = to.Ptr(spec.VPCID)
	tags["managed-by"] = to.Ptr(managedByTag)

	_, err = d.nsgs.BeginCreateOrUpdate(ctx, rg, spec.Name, armnetwork.SecurityGroup{
		Location: to.Ptr(d.location),
		Tags:     tags,
		Properties: &armnetwork.SecurityGroupPropertiesFormat{
			SecurityRules: securityRules,
		},
	}, nil)
	if err != nil {
		return nil, d.wrapErr("create_network_security_group", err)
	}

	// The poller is dropped: the group is derived from the request rather
	// than read back.
	group = &model.SecurityGroup{
		ID:          spec.Name,
		Name:        spec.Name,
		Description: spec.Description,
		VPCID:       spec.VPCID,
		Tags:        spec.Tags,
	}
	for _, rule := range spec.Rules {
		group.Rules = append(group.Rules, rule.Normalize())
	}
	return group, nil
}

// SecurityGroupGet returns the named network security group or a
// NotFoundError.
func (d *driver) SecurityGroupGet(ctx context.Context, id string) (group *model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupGet")
	defer func() { cleanup(err) }()

	nsg, _, err := d.findNSG(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.nsgToModel(nsg), nil
}

// SecurityGroupList returns the location's network security groups,
// filtered to the given VPC association when set.
func (d *driver) SecurityGroupList(ctx context.Context, vpcID string) (groups []*model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupList")
	defer func() { cleanup(err) }()

	pager := d.nsgs.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, d.wrapErr("list_network_security_groups", err)
		}
		for _, nsg := range page.Value {
			if nsg == nil || !d.inLocation(nsg.Location) {
				continue
			}
			g := d.nsgToModel(nsg)
			if vpcID != "" && g.VPCID != vpcID {
				continue
			}
			groups = append(groups, g)
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// SecurityGroupDelete deletes the named network security group. Deleting an
// absent group succeeds.
func (d *driver) SecurityGroupDelete(ctx context.Context, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupDelete")
	defer func() { cleanup(err) }()

	_, rg, err := d.findNSG(ctx, id)
	if err != nil {
		if model.IsNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "network security group already absent", "security_group_id", id)
			return nil
		}
		return err
	}

	_, err = d.nsgs.BeginDelete(ctx, rg, id, nil)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrapErr("delete_network_security_group", err)
	}
	return nil
}

// RuleAdd adds a rule to the group as its own ARM security rule. The
// priority must be free in the rule's direction.
func (d *driver) RuleAdd(ctx context.Context, groupID string, rule model.Rule) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RuleAdd")
	defer func() { cleanup(err) }()

	if err = checkRulePriority(rule); err != nil {
		return err
	}
	rule = rule.Normalize()
	if dropped := azDroppedRuleFields(rule); len(dropped) > 0 {
		logging.FromContext(ctx).Warn(ctx, "dropping rule fields azure nsgs cannot express",
			"security_group", groupID, "fields", dropped)
	}

	nsg, rg, err := d.findNSG(ctx, groupID)
	if err != nil {
		return err
	}

	sr := ruleToSecurityRule(rule)
	if nsg.Properties != nil {
		for _, existing := range nsg.Properties.SecurityRules {
			if existing == nil || existing.Properties == nil || existing.Properties.Priority == nil || existing.Properties.Direction == nil {
				continue
			}
			if *existing.Properties.Priority == rule.Priority &&
				*existing.Properties.Direction == *sr.Properties.Direction &&
				deref(existing.Name) != deref(sr.Name) {
				return model.NewValidationError("rule.priority", "already in use in this group")
			}
		}
	}

	_, err = d.rules.BeginCreateOrUpdate(ctx, rg, groupID, deref(sr.Name), *sr, nil)
	if err != nil {
		return d.wrapErr("create_security_rule", err)
	}
	return nil
}

// RuleRemove removes the matching rule from the group. Removing a rule the
// group does not carry succeeds.
func (d *driver) RuleRemove(ctx context.Context, groupID string, rule model.Rule) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RuleRemove")
	defer func() { cleanup(err) }()

	rule = rule.Normalize()

	nsg, rg, err := d.findNSG(ctx, groupID)
	if err != nil {
		return err
	}

	// Match by rule equality rather than by derived name so rules created
	// outside this driver are still removable.
	name := ""
	if nsg.Properties != nil {
		for _, sr := range nsg.Properties.SecurityRules {
			existing, ok := securityRuleToRule(sr)
			if ok && existing.Equal(rule) && sr.Name != nil {
				name = *sr.Name
				break
			}
		}
	}
	if name == "" {
		logging.FromContext(ctx).Info(ctx, "rule not present on group", "security_group", groupID)
		return nil
	}

	_, err = d.rules.BeginDelete(ctx, rg, groupID, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return d.wrapErr("delete_security_rule", err)
	}
	return nil
}
