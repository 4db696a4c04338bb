package model

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// VPC is the unified view of an AWS VPC, a GCP network or an Azure VNet.
type VPC struct {
	ID     string
	Name   string
	CIDR   string
	Region string
	State  string
	Tags   map[string]string
}

// Subnet is the unified view of a subnet / subnetwork.
type Subnet struct {
	ID    string
	VPCID string
	Name  string
	CIDR  string
	Zone  string
	Tags  map[string]string
}

// SecurityGroup is the unified view of an AWS security group, a GCP firewall
// object or an Azure network security group. On GCP one security group maps
// to exactly one firewall.
type SecurityGroup struct {
	ID          string
	Name        string
	Description string
	VPCID       string
	Rules       []Rule
	Tags        map[string]string
}

// RuleDirection is the traffic direction of a security rule.
type RuleDirection string

const (
	RuleIngress RuleDirection = "ingress"
	RuleEgress  RuleDirection = "egress"
)

// RuleAction is allow or deny. AWS security groups only express allow.
type RuleAction string

const (
	RuleActionAllow RuleAction = "allow"
	RuleActionDeny  RuleAction = "deny"
)

// DefaultRulePriority is the documented default applied when translating to
// a provider without a priority concept (AWS) back into the unified model,
// and when a rule omits it.
const DefaultRulePriority = 1000

// RuleProtocolAll is the unified wildcard protocol. AWS encodes it as "-1",
// GCP and Azure as "all"/"*".
const RuleProtocolAll = "all"

// Rule is the unified security rule shared by all three providers.
// Translation preserves direction, protocol, port range and peer
// specification exactly; concepts a provider lacks take the documented
// defaults (Priority DefaultRulePriority, Action allow).
type Rule struct {
	Direction   RuleDirection
	Protocol    string // "tcp", "udp", "icmp" or RuleProtocolAll
	FromPort    int32
	ToPort      int32
	CIDRBlocks  []string
	PeerGroups  []string // AWS: referenced security-group ids
	SourceTags  []string // GCP: ingress source tags
	TargetTags  []string // GCP: target tags selecting instances
	Priority    int32
	Action      RuleAction
	Description string
}

// Normalize returns a copy with the documented defaults filled in.
func (r Rule) Normalize() Rule {
	if r.Priority == 0 {
		r.Priority = DefaultRulePriority
	}
	if r.Action == "" {
		r.Action = RuleActionAllow
	}
	if r.Protocol == "" || r.Protocol == "-1" || r.Protocol == "*" {
		r.Protocol = RuleProtocolAll
	}
	r.Protocol = strings.ToLower(r.Protocol)
	return r
}

// Validate enforces the rule invariants: a known direction, and for any
// protocol other than "all" at least one peer specification (CIDR blocks,
// peer groups or tags).
func (r Rule) Validate() error {
	switch r.Direction {
	case RuleIngress, RuleEgress:
	default:
		return NewValidationError("rule.direction", "must be ingress or egress")
	}
	if r.Action != "" && r.Action != RuleActionAllow && r.Action != RuleActionDeny {
		return NewValidationError("rule.action", "must be allow or deny")
	}
	if r.FromPort > r.ToPort {
		return NewValidationError("rule.ports", "fromPort must be <= toPort")
	}
	if r.Protocol != "" && r.Protocol != RuleProtocolAll {
		if len(r.CIDRBlocks) == 0 && len(r.PeerGroups) == 0 &&
			len(r.SourceTags) == 0 && len(r.TargetTags) == 0 {
			return NewValidationError("rule", "a peer specification (cidrBlocks, peerGroups or tags) is required")
		}
	}
	return nil
}

// Equal compares two rules after normalization, ignoring slice order.
func (r Rule) Equal(other Rule) bool {
	a, b := r.Normalize(), other.Normalize()
	return a.Direction == b.Direction &&
		a.Protocol == b.Protocol &&
		a.FromPort == b.FromPort &&
		a.ToPort == b.ToPort &&
		a.Priority == b.Priority &&
		a.Action == b.Action &&
		equalStringSets(a.CIDRBlocks, b.CIDRBlocks) &&
		equalStringSets(a.PeerGroups, b.PeerGroups) &&
		equalStringSets(a.SourceTags, b.SourceTags) &&
		equalStringSets(a.TargetTags, b.TargetTags)
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// PortRange renders the rule's ports as a provider string ("22", "100-200"),
// or "" for the all-ports wildcard.
func (r Rule) PortRange() string {
	if r.FromPort == 0 && r.ToPort == 0 {
		return ""
	}
	if r.FromPort == r.ToPort {
		return fmt.Sprintf("%d", r.FromPort)
	}
	return fmt.Sprintf("%d-%d", r.FromPort, r.ToPort)
}

// VPCSpec describes a VPC create request.
type VPCSpec struct {
	Name string
	CIDR string
	Tags map[string]string
}

// Validate checks the VPC create invariants.
func (s *VPCSpec) Validate() error {
	if s == nil || s.Name == "" {
		return NewValidationError("vpc.name", "is required")
	}
	return nil
}

// SubnetSpec describes a subnet create request. VPCID is required; Zone is
// optional on providers that auto-place.
type SubnetSpec struct {
	Name  string
	VPCID string
	CIDR  string
	Zone  string
	Tags  map[string]string
}

// Validate checks the subnet create invariants.
func (s *SubnetSpec) Validate() error {
	if s == nil || s.Name == "" {
		return NewValidationError("subnet.name", "is required")
	}
	if s.VPCID == "" {
		return NewValidationError("subnet.vpcID", "is required")
	}
	if s.CIDR == "" {
		return NewValidationError("subnet.cidr", "is required")
	}
	return nil
}

// SecurityGroupSpec describes a security group create request with its
// initial rules.
type SecurityGroupSpec struct {
	Name        string
	Description string
	VPCID       string
	Rules       []Rule
	Tags        map[string]string
}

// Validate checks the group invariants including every initial rule.
func (s *SecurityGroupSpec) Validate() error {
	if s == nil || s.Name == "" {
		return NewValidationError("securityGroup.name", "is required")
	}
	for _, r := range s.Rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NetworkPort is the domain port for VPC, subnet and security-group
// operations. Delete operations are idempotent: not-found is success.
type NetworkPort interface {
	VPCCreate(ctx context.Context, scope ProviderScope, spec *VPCSpec) (*VPC, error)
	VPCGet(ctx context.Context, scope ProviderScope, id string) (*VPC, error)
	VPCList(ctx context.Context, scope ProviderScope) ([]*VPC, error)
	VPCDelete(ctx context.Context, scope ProviderScope, id string) error

	SubnetCreate(ctx context.Context, scope ProviderScope, spec *SubnetSpec) (*Subnet, error)
	SubnetGet(ctx context.Context, scope ProviderScope, vpcID, id string) (*Subnet, error)
	SubnetList(ctx context.Context, scope ProviderScope, vpcID string) ([]*Subnet, error)
	SubnetDelete(ctx context.Context, scope ProviderScope, vpcID, id string) error

	SecurityGroupCreate(ctx context.Context, scope ProviderScope, spec *SecurityGroupSpec) (*SecurityGroup, error)
	SecurityGroupGet(ctx context.Context, scope ProviderScope, id string) (*SecurityGroup, error)
	SecurityGroupList(ctx context.Context, scope ProviderScope, vpcID string) ([]*SecurityGroup, error)
	SecurityGroupDelete(ctx context.Context, scope ProviderScope, id string) error

	RuleAdd(ctx context.Context, scope ProviderScope, groupID string, rule Rule) error
	RuleRemove(ctx context.Context, scope ProviderScope, groupID string, rule Rule) error
}
