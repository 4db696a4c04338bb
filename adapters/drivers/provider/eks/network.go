package eks

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// VPCCreate creates a VPC with a Name tag plus the spec's custom tags.
func (d *driver) VPCCreate(ctx context.Context, spec *model.VPCSpec) (vpc *model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCCreate")
	defer func() { cleanup(err) }()

	if spec.CIDR == "" {
		return nil, model.NewValidationError("vpc.cidr", "is required on aws")
	}

	out, err := d.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(spec.CIDR),
		TagSpecifications: tagSpecifications(ec2types.ResourceTypeVpc, spec.Name, spec.Tags),
	})
	if err != nil {
		return nil, d.wrapErr("create_vpc", err)
	}
	return d.vpcToModel(*out.Vpc), nil
}

// VPCGet returns the VPC with the given id or a NotFoundError.
func (d *driver) VPCGet(ctx context.Context, id string) (vpc *model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCGet")
	defer func() { cleanup(err) }()

	out, err := d.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{id}})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("vpc", id)
		}
		return nil, d.wrapErr("describe_vpcs", err)
	}
	if len(out.Vpcs) == 0 {
		return nil, model.NewNotFoundError("vpc", id)
	}
	return d.vpcToModel(out.Vpcs[0]), nil
}

// VPCList returns all VPCs in the region.
func (d *driver) VPCList(ctx context.Context) (vpcs []*model.VPC, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCList")
	defer func() { cleanup(err) }()

	var token *string
	for {
		out, err := d.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{NextToken: token})
		if err != nil {
			return nil, d.wrapErr("describe_vpcs", err)
		}
		for _, v := range out.Vpcs {
			vpcs = append(vpcs, d.vpcToModel(v))
		}
		if out.NextToken == nil {
			return vpcs, nil
		}
		token = out.NextToken
	}
}

// VPCDelete deletes the VPC. Deleting an absent VPC succeeds.
func (d *driver) VPCDelete(ctx context.Context, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "VPCDelete")
	defer func() { cleanup(err) }()

	_, err = d.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(id)})
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "vpc already absent", "vpc_id", id)
			return nil
		}
		return d.wrapErr("delete_vpc", err)
	}
	return nil
}

// SubnetCreate creates a subnet in the spec's VPC. The zone is passed through
// when set; EC2 picks one otherwise.
func (d *driver) SubnetCreate(ctx context.Context, spec *model.SubnetSpec) (subnet *model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetCreate")
	defer func() { cleanup(err) }()

	input := &ec2.CreateSubnetInput{
		VpcId:             aws.String(spec.VPCID),
		CidrBlock:         aws.String(spec.CIDR),
		TagSpecifications: tagSpecifications(ec2types.ResourceTypeSubnet, spec.Name, spec.Tags),
	}
	if spec.Zone != "" {
		input.AvailabilityZone = aws.String(spec.Zone)
	}

	out, err := d.ec2.CreateSubnet(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("vpc", spec.VPCID)
		}
		return nil, d.wrapErr("create_subnet", err)
	}
	return subnetToModel(*out.Subnet), nil
}

// SubnetGet returns the subnet scoped to the given VPC. A subnet that exists
// in a different VPC is reported as not found.
func (d *driver) SubnetGet(ctx context.Context, vpcID, id string) (subnet *model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetGet")
	defer func() { cleanup(err) }()

	out, err := d.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{id}})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("subnet", id)
		}
		return nil, d.wrapErr("describe_subnets", err)
	}
	if len(out.Subnets) == 0 || aws.ToString(out.Subnets[0].VpcId) != vpcID {
		return nil, model.NewNotFoundError("subnet", id)
	}
	return subnetToModel(out.Subnets[0]), nil
}

// SubnetList returns the subnets of the given VPC.
func (d *driver) SubnetList(ctx context.Context, vpcID string) (subnets []*model.Subnet, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetList")
	defer func() { cleanup(err) }()

	var token *string
	for {
		out, err := d.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
			Filters:   []ec2types.Filter{{Name: aws.String("vpc-id"), Values: []string{vpcID}}},
			NextToken: token,
		})
		if err != nil {
			return nil, d.wrapErr("describe_subnets", err)
		}
		for _, s := range out.Subnets {
			subnets = append(subnets, subnetToModel(s))
		}
		if out.NextToken == nil {
			return subnets, nil
		}
		token = out.NextToken
	}
}

// SubnetDelete deletes the subnet. Deleting an absent subnet succeeds.
func (d *driver) SubnetDelete(ctx context.Context, vpcID, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SubnetDelete")
	defer func() { cleanup(err) }()

	_, err = d.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(id)})
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "subnet already absent", "subnet_id", id)
			return nil
		}
		return d.wrapErr("delete_subnet", err)
	}
	return nil
}

// SecurityGroupCreate creates a security group and authorizes its initial
// rules, then returns the group as the provider reports it.
func (d *driver) SecurityGroupCreate(ctx context.Context, spec *model.SecurityGroupSpec) (group *model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupCreate")
	defer func() { cleanup(err) }()

	if spec.VPCID == "" {
		return nil, model.NewValidationError("securityGroup.vpcID", "is required on aws")
	}
	for _, rule := range spec.Rules {
		if err := checkRuleExpressible(ctx, rule); err != nil {
			return nil, err
		}
	}

	description := spec.Description
	if description == "" {
		description = spec.Name
	}
	out, err := d.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(spec.Name),
		Description:       aws.String(description),
		VpcId:             aws.String(spec.VPCID),
		TagSpecifications: tagSpecifications(ec2types.ResourceTypeSecurityGroup, spec.Name, spec.Tags),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("vpc", spec.VPCID)
		}
		return nil, d.wrapErr("create_security_group", err)
	}
	groupID := aws.ToString(out.GroupId)

	var ingress, egress []ec2types.IpPermission
	for _, rule := range spec.Rules {
		perm := ruleToPermission(rule)
		if rule.Normalize().Direction == model.RuleIngress {
			ingress = append(ingress, perm)
		} else {
			egress = append(egress, perm)
		}
	}
	if len(ingress) > 0 {
		_, err = d.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: ingress,
		})
		if err != nil {
			return nil, d.wrapErr("authorize_ingress", err)
		}
	}
	if len(egress) > 0 {
		_, err = d.ec2.AuthorizeSecurityGroupEgress(ctx, &ec2.AuthorizeSecurityGroupEgressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: egress,
		})
		if err != nil {
			return nil, d.wrapErr("authorize_egress", err)
		}
	}

	return d.SecurityGroupGet(ctx, groupID)
}

// SecurityGroupGet returns the group with the given id or a NotFoundError.
func (d *driver) SecurityGroupGet(ctx context.Context, id string) (group *model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupGet")
	defer func() { cleanup(err) }()

	out, err := d.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{GroupIds: []string{id}})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFoundError("security group", id)
		}
		return nil, d.wrapErr("describe_security_groups", err)
	}
	if len(out.SecurityGroups) == 0 {
		return nil, model.NewNotFoundError("security group", id)
	}
	return securityGroupToModel(out.SecurityGroups[0]), nil
}

// SecurityGroupList returns the groups of the given VPC, or every group in
// the region when vpcID is empty.
func (d *driver) SecurityGroupList(ctx context.Context, vpcID string) (groups []*model.SecurityGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupList")
	defer func() { cleanup(err) }()

	input := &ec2.DescribeSecurityGroupsInput{}
	if vpcID != "" {
		input.Filters = []ec2types.Filter{{Name: aws.String("vpc-id"), Values: []string{vpcID}}}
	}
	for {
		out, err := d.ec2.DescribeSecurityGroups(ctx, input)
		if err != nil {
			return nil, d.wrapErr("describe_security_groups", err)
		}
		for _, sg := range out.SecurityGroups {
			groups = append(groups, securityGroupToModel(sg))
		}
		if out.NextToken == nil {
			return groups, nil
		}
		input.NextToken = out.NextToken
	}
}

// SecurityGroupDelete deletes the group. Deleting an absent group succeeds.
func (d *driver) SecurityGroupDelete(ctx context.Context, id string) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "SecurityGroupDelete")
	defer func() { cleanup(err) }()

	_, err = d.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: aws.String(id)})
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "security group already absent", "group_id", id)
			return nil
		}
		return d.wrapErr("delete_security_group", err)
	}
	return nil
}

// RuleAdd authorizes one rule on the group.
func (d *driver) RuleAdd(ctx context.Context, groupID string, rule model.Rule) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RuleAdd")
	defer func() { cleanup(err) }()

	if err := checkRuleExpressible(ctx, rule); err != nil {
		return err
	}

	perm := []ec2types.IpPermission{ruleToPermission(rule)}
	if rule.Normalize().Direction == model.RuleIngress {
		_, err = d.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: perm,
		})
	} else {
		_, err = d.ec2.AuthorizeSecurityGroupEgress(ctx, &ec2.AuthorizeSecurityGroupEgressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: perm,
		})
	}
	if err != nil {
		if isNotFound(err) {
			return model.NewNotFoundError("security group", groupID)
		}
		return d.wrapErr("authorize_rule", err)
	}
	return nil
}

// RuleRemove revokes one rule from the group. Revoking a rule that is not
// present succeeds.
func (d *driver) RuleRemove(ctx context.Context, groupID string, rule model.Rule) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RuleRemove")
	defer func() { cleanup(err) }()

	perm := []ec2types.IpPermission{ruleToPermission(rule)}
	if rule.Normalize().Direction == model.RuleIngress {
		_, err = d.ec2.RevokeSecurityGroupIngress(ctx, &ec2.RevokeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: perm,
		})
	} else {
		_, err = d.ec2.RevokeSecurityGroupEgress(ctx, &ec2.RevokeSecurityGroupEgressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: perm,
		})
	}
	if err != nil {
		if isNotFound(err) {
			logging.FromContext(ctx).Info(ctx, "rule already absent", "group_id", groupID)
			return nil
		}
		return d.wrapErr("revoke_rule", err)
	}
	return nil
}

// checkRuleExpressible rejects rules whose meaning security groups cannot
// carry and logs the fields that are silently dropped. A deny rule is
// rejected outright: adding it as allow would invert the intent.
func checkRuleExpressible(ctx context.Context, rule model.Rule) error {
	if rule.Normalize().Action == model.RuleActionDeny {
		return model.NewValidationError("rule.action", "aws security groups cannot express deny rules")
	}
	if dropped := droppedRuleFields(rule); len(dropped) > 0 {
		logging.FromContext(ctx).Warn(ctx, "aws security groups cannot express rule fields, dropping",
			"fields", strings.Join(dropped, ","))
	}
	return nil
}
