package model

import "context"

// NodePool is the provider-agnostic node pool abstraction shared by EKS node
// groups, GKE node pools and AKS agent pools. Pointer fields distinguish
// "not set" from "set to zero value" so updates can carry only the fields
// they intend to change.
type NodePool struct {
	// Name is the logical pool name.
	Name *string

	// ProviderName is the provider-side identifier when it differs from Name
	// (e.g. an EKS nodegroup ARN-derived name).
	ProviderName *string

	// Version is the Kubernetes version of the pool's nodes.
	Version *string

	// InstanceTypes are the machine types. AWS node groups accept several;
	// GCP and Azure use the first entry.
	InstanceTypes *[]string

	// Scaling carries the min/max/desired node counts.
	Scaling *NodePoolScaling

	// DiskSizeGB is the node root disk size.
	DiskSizeGB *int32

	// CapacityType selects the purchase model: "on-demand", "spot" or
	// "preemptible" (GCP legacy preemptible VMs).
	CapacityType *string

	// Labels are Kubernetes node labels applied to the pool's nodes.
	Labels *map[string]string

	// Zones are availability zones for node placement.
	Zones *[]string

	// RoleARN is the AWS node IAM role. Dropped with a warning elsewhere.
	RoleARN *string

	// AMIType is the AWS AMI family (e.g. "AL2023_x86_64_STANDARD").
	// Dropped with a warning elsewhere.
	AMIType *string

	// Mode is the Azure agent pool mode, "System" or "User". Dropped with a
	// warning elsewhere.
	Mode *string

	// Status is runtime state, populated by list and get operations.
	Status *NodePoolStatus
}

// NodePoolScaling defines the size bounds of a pool. The invariant
// Min <= Desired <= Max is checked before any provider call.
type NodePoolScaling struct {
	Min     int32
	Max     int32
	Desired int32
}

// NodePoolStatus is the read-only runtime state of a pool.
type NodePoolStatus struct {
	// State is the normalized lifecycle state, reusing cluster status values.
	State ClusterStatus
	// CurrentCount is the node count reported by the provider.
	CurrentCount *int32
}

// Validate checks the scaling bounds and instance type invariants. It never
// touches a provider.
func (p *NodePool) Validate() error {
	if p == nil {
		return NewValidationError("nodePool", "is required")
	}
	if p.Name == nil || *p.Name == "" {
		return NewValidationError("nodePool.name", "is required")
	}
	if p.InstanceTypes == nil || len(*p.InstanceTypes) == 0 || (*p.InstanceTypes)[0] == "" {
		return NewValidationError("nodePool.instanceTypes", "at least one instance type is required")
	}
	if p.Scaling != nil {
		if err := p.Scaling.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks Min <= Desired <= Max with non-negative bounds.
func (s *NodePoolScaling) Validate() error {
	if s.Min < 0 {
		return NewValidationError("scaling.min", "must not be negative")
	}
	if s.Max < s.Min {
		return NewValidationError("scaling.max", "must be >= min")
	}
	if s.Desired < s.Min || s.Desired > s.Max {
		return NewValidationError("scaling.desired", "must satisfy min <= desired <= max")
	}
	return nil
}

// NodePoolListOptions holds options for listing node pools.
type NodePoolListOptions struct {
	// Name filters by pool name if non-empty.
	Name string
}

// NodePoolDeleteOptions holds options for deleting a node pool.
type NodePoolDeleteOptions struct {
	Force bool
}

type NodePoolListOption func(*NodePoolListOptions)
type NodePoolDeleteOption func(*NodePoolDeleteOptions)

func WithNodePoolListName(name string) NodePoolListOption {
	return func(o *NodePoolListOptions) { o.Name = name }
}

func WithNodePoolDeleteForce() NodePoolDeleteOption {
	return func(o *NodePoolDeleteOptions) { o.Force = true }
}

// ApplyNodePoolListOptions applies functional options to NodePoolListOptions.
func ApplyNodePoolListOptions(opts ...NodePoolListOption) NodePoolListOptions {
	var o NodePoolListOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// ApplyNodePoolDeleteOptions applies functional options to NodePoolDeleteOptions.
func ApplyNodePoolDeleteOptions(opts ...NodePoolDeleteOption) NodePoolDeleteOptions {
	var o NodePoolDeleteOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// NodePoolPort is the domain port for node pool operations, implemented by
// provider drivers behind adapters/drivers/provider.
type NodePoolPort interface {
	// NodePoolCreate creates a pool in the named cluster.
	NodePoolCreate(ctx context.Context, scope ProviderScope, clusterName string, pool NodePool) (*NodePool, error)

	// NodePoolList returns the cluster's pools.
	NodePoolList(ctx context.Context, scope ProviderScope, clusterName string, opts ...NodePoolListOption) ([]*NodePool, error)

	// NodePoolUpdate updates mutable fields (scaling, version, labels) of an
	// existing pool using the provider's dedicated update call.
	NodePoolUpdate(ctx context.Context, scope ProviderScope, clusterName string, pool NodePool) (*NodePool, error)

	// NodePoolDelete deletes the named pool. Not-found is success.
	NodePoolDelete(ctx context.Context, scope ProviderScope, clusterName, poolName string, opts ...NodePoolDeleteOption) error
}
