package eks

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"

	"github.com/stratokube/strato/domain/model"
)

// clusterStatus maps the EKS lifecycle state onto the normalized status.
// Unmapped states become UNKNOWN, never a terminal state.
func clusterStatus(s ekstypes.ClusterStatus) model.ClusterStatus {
	switch s {
	case ekstypes.ClusterStatusCreating, ekstypes.ClusterStatusPending:
		return model.ClusterStatusCreating
	case ekstypes.ClusterStatusActive:
		return model.ClusterStatusActive
	case ekstypes.ClusterStatusUpdating:
		return model.ClusterStatusUpdating
	case ekstypes.ClusterStatusDeleting:
		return model.ClusterStatusDeleting
	case ekstypes.ClusterStatusFailed:
		return model.ClusterStatusFailed
	}
	return model.ClusterStatusUnknown
}

// nodegroupStatus maps the EKS nodegroup lifecycle state onto the normalized
// status. DEGRADED means running but unhealthy and maps to UNKNOWN.
func nodegroupStatus(s ekstypes.NodegroupStatus) model.ClusterStatus {
	switch s {
	case ekstypes.NodegroupStatusCreating:
		return model.ClusterStatusCreating
	case ekstypes.NodegroupStatusActive:
		return model.ClusterStatusActive
	case ekstypes.NodegroupStatusUpdating:
		return model.ClusterStatusUpdating
	case ekstypes.NodegroupStatusDeleting:
		return model.ClusterStatusDeleting
	case ekstypes.NodegroupStatusCreateFailed, ekstypes.NodegroupStatusDeleteFailed:
		return model.ClusterStatusFailed
	}
	return model.ClusterStatusUnknown
}

func (d *driver) clusterToModel(c *ekstypes.Cluster) *model.Cluster {
	cl := &model.Cluster{
		ID:       aws.ToString(c.Arn),
		Name:     aws.ToString(c.Name),
		Provider: model.ProviderAWS,
		Region:   d.region,
		Version:  aws.ToString(c.Version),
		Status:   clusterStatus(c.Status),
		Endpoint: aws.ToString(c.Endpoint),
		Tags:     c.Tags,
	}
	if c.CreatedAt != nil {
		cl.CreatedAt = *c.CreatedAt
	}
	return cl
}

func nodegroupToModel(ng *ekstypes.Nodegroup) *model.NodePool {
	pool := &model.NodePool{
		Name:         ng.NodegroupName,
		ProviderName: ng.NodegroupArn,
		Version:      ng.Version,
		RoleARN:      ng.NodeRole,
		DiskSizeGB:   ng.DiskSize,
	}
	if len(ng.InstanceTypes) > 0 {
		types := append([]string(nil), ng.InstanceTypes...)
		pool.InstanceTypes = &types
	}
	if ng.ScalingConfig != nil {
		pool.Scaling = &model.NodePoolScaling{
			Min:     aws.ToInt32(ng.ScalingConfig.MinSize),
			Max:     aws.ToInt32(ng.ScalingConfig.MaxSize),
			Desired: aws.ToInt32(ng.ScalingConfig.DesiredSize),
		}
	}
	if ng.CapacityType != "" {
		ct := capacityTypeToModel(ng.CapacityType)
		pool.CapacityType = &ct
	}
	if len(ng.Labels) > 0 {
		labels := make(map[string]string, len(ng.Labels))
		for k, v := range ng.Labels {
			labels[k] = v
		}
		pool.Labels = &labels
	}
	if ng.AmiType != "" {
		at := string(ng.AmiType)
		pool.AMIType = &at
	}
	status := &model.NodePoolStatus{State: nodegroupStatus(ng.Status)}
	if ng.ScalingConfig != nil {
		status.CurrentCount = ng.ScalingConfig.DesiredSize
	}
	pool.Status = status
	return pool
}

func capacityTypeToModel(ct ekstypes.CapacityTypes) string {
	switch ct {
	case ekstypes.CapacityTypesOnDemand:
		return "on-demand"
	case ekstypes.CapacityTypesSpot:
		return "spot"
	}
	return string(ct)
}

// capacityTypeToAWS maps the unified purchase model to the EKS enum. The
// second return is false for models EKS cannot express (e.g. the GCP-only
// "preemptible"), which callers drop with a warning.
func capacityTypeToAWS(ct string) (ekstypes.CapacityTypes, bool) {
	switch ct {
	case "", "on-demand":
		return ekstypes.CapacityTypesOnDemand, true
	case "spot":
		return ekstypes.CapacityTypesSpot, true
	}
	return "", false
}

func (d *driver) vpcToModel(v ec2types.Vpc) *model.VPC {
	return &model.VPC{
		ID:     aws.ToString(v.VpcId),
		Name:   tagValue(v.Tags, "Name"),
		CIDR:   aws.ToString(v.CidrBlock),
		Region: d.region,
		State:  string(v.State),
		Tags:   tagsToMap(v.Tags),
	}
}

func subnetToModel(s ec2types.Subnet) *model.Subnet {
	return &model.Subnet{
		ID:    aws.ToString(s.SubnetId),
		VPCID: aws.ToString(s.VpcId),
		Name:  tagValue(s.Tags, "Name"),
		CIDR:  aws.ToString(s.CidrBlock),
		Zone:  aws.ToString(s.AvailabilityZone),
		Tags:  tagsToMap(s.Tags),
	}
}

func securityGroupToModel(sg ec2types.SecurityGroup) *model.SecurityGroup {
	rules := make([]model.Rule, 0, len(sg.IpPermissions)+len(sg.IpPermissionsEgress))
	for _, perm := range sg.IpPermissions {
		rules = append(rules, permissionToRule(model.RuleIngress, perm))
	}
	for _, perm := range sg.IpPermissionsEgress {
		rules = append(rules, permissionToRule(model.RuleEgress, perm))
	}
	return &model.SecurityGroup{
		ID:          aws.ToString(sg.GroupId),
		Name:        aws.ToString(sg.GroupName),
		Description: aws.ToString(sg.Description),
		VPCID:       aws.ToString(sg.VpcId),
		Rules:       rules,
		Tags:        tagsToMap(sg.Tags),
	}
}

// permissionToRule maps one EC2 IP permission to a unified rule. Security
// groups have no priority or action concept, so the documented defaults
// (priority 1000, action allow) apply through Normalize.
func permissionToRule(direction model.RuleDirection, perm ec2types.IpPermission) model.Rule {
	r := model.Rule{
		Direction: direction,
		Protocol:  aws.ToString(perm.IpProtocol),
		FromPort:  aws.ToInt32(perm.FromPort),
		ToPort:    aws.ToInt32(perm.ToPort),
	}
	for _, ipr := range perm.IpRanges {
		r.CIDRBlocks = append(r.CIDRBlocks, aws.ToString(ipr.CidrIp))
		if r.Description == "" {
			r.Description = aws.ToString(ipr.Description)
		}
	}
	for _, pair := range perm.UserIdGroupPairs {
		r.PeerGroups = append(r.PeerGroups, aws.ToString(pair.GroupId))
		if r.Description == "" {
			r.Description = aws.ToString(pair.Description)
		}
	}
	return r.Normalize()
}

// ruleToPermission maps a unified rule to an EC2 IP permission. EC2 spells
// the wildcard protocol "-1" and takes no port range with it.
func ruleToPermission(rule model.Rule) ec2types.IpPermission {
	rule = rule.Normalize()
	perm := ec2types.IpPermission{
		IpProtocol: aws.String(awsProtocol(rule.Protocol)),
	}
	if rule.Protocol != model.RuleProtocolAll {
		perm.FromPort = aws.Int32(rule.FromPort)
		perm.ToPort = aws.Int32(rule.ToPort)
	}
	for _, cidr := range rule.CIDRBlocks {
		ipr := ec2types.IpRange{CidrIp: aws.String(cidr)}
		if rule.Description != "" {
			ipr.Description = aws.String(rule.Description)
		}
		perm.IpRanges = append(perm.IpRanges, ipr)
	}
	for _, group := range rule.PeerGroups {
		pair := ec2types.UserIdGroupPair{GroupId: aws.String(group)}
		if rule.Description != "" {
			pair.Description = aws.String(rule.Description)
		}
		perm.UserIdGroupPairs = append(perm.UserIdGroupPairs, pair)
	}
	return perm
}

func awsProtocol(p string) string {
	if p == model.RuleProtocolAll {
		return "-1"
	}
	return p
}

// droppedRuleFields names the unified rule fields EC2 cannot express. The
// caller logs them before translating. A deny action is not in this list:
// dropping it would invert the rule's meaning, so callers reject it instead.
func droppedRuleFields(rule model.Rule) []string {
	rule = rule.Normalize()
	var dropped []string
	if rule.Priority != model.DefaultRulePriority {
		dropped = append(dropped, "priority")
	}
	if len(rule.SourceTags) > 0 {
		dropped = append(dropped, "sourceTags")
	}
	if len(rule.TargetTags) > 0 {
		dropped = append(dropped, "targetTags")
	}
	return dropped
}

func tagValue(tags []ec2types.Tag, key string) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}

func tagsToMap(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		result[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return result
}

// tagSpecifications builds the create-time tag block: the Name tag plus any
// custom tags.
func tagSpecifications(rt ec2types.ResourceType, name string, tags map[string]string) []ec2types.TagSpecification {
	spec := ec2types.TagSpecification{
		ResourceType: rt,
		Tags: []ec2types.Tag{
			{Key: aws.String("Name"), Value: aws.String(name)},
		},
	}
	for key, value := range tags {
		spec.Tags = append(spec.Tags, ec2types.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return []ec2types.TagSpecification{spec}
}
