package model

import (
	"context"
	"time"
)

// ClusterStatus is the normalized lifecycle state of a cluster. Valid
// transitions are CREATING to ACTIVE or FAILED, ACTIVE to UPDATING and back,
// and ACTIVE to DELETING until the record disappears. FAILED is terminal.
// Provider states with no mapping normalize to UNKNOWN, never to a terminal
// state.
type ClusterStatus string

const (
	ClusterStatusCreating ClusterStatus = "CREATING"
	ClusterStatusActive   ClusterStatus = "ACTIVE"
	ClusterStatusUpdating ClusterStatus = "UPDATING"
	ClusterStatusDeleting ClusterStatus = "DELETING"
	ClusterStatusFailed   ClusterStatus = "FAILED"
	ClusterStatusUnknown  ClusterStatus = "UNKNOWN"
)

// Terminal reports whether the status never transitions again.
func (s ClusterStatus) Terminal() bool { return s == ClusterStatusFailed }

// Cluster is a normalized view of a provider-managed Kubernetes cluster.
// The provider remains the source of truth; records live only for the call
// that fetched them. Optional fields (Endpoint, Tags) may be empty when the
// provider response omits them.
type Cluster struct {
	ID        string
	Name      string
	Provider  ProviderKind
	Region    string
	Version   string
	Status    ClusterStatus
	Endpoint  string
	Tags      map[string]string
	Autopilot bool
	CreatedAt time.Time
}

// ClusterSpec describes a cluster create request. Provider-specific fields
// are typed explicitly; a driver drops fields its provider cannot express
// with a warning, never by coercing them into an unrelated field.
type ClusterSpec struct {
	Name      string
	Version   string
	Autopilot bool // GKE Autopilot mode
	Tags      map[string]string

	// NodePool is the initial worker pool. Required for standard-mode GKE
	// clusters; Autopilot clusters must not carry one.
	NodePool *NodePool

	// NetworkID names the network attachment: GCP network, Azure VNet.
	NetworkID string
	// SubnetIDs are the control-plane subnets. EKS requires at least two.
	SubnetIDs []string
	// RoleARN is the EKS control-plane IAM role. Derived from the account
	// identity when empty.
	RoleARN string
	// ResourceGroup is the Azure resource group, ensured when missing.
	ResourceGroup string
}

// Validate checks the provider-independent create invariants.
func (s *ClusterSpec) Validate() error {
	if s == nil {
		return NewValidationError("spec", "is required")
	}
	if s.Name == "" {
		return NewValidationError("name", "is required")
	}
	if s.Autopilot && s.NodePool != nil {
		return NewValidationError("nodePool", "autopilot clusters do not take a node pool")
	}
	if s.NodePool != nil {
		if err := s.NodePool.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Kubeconfig is an opaque provider document proxied to the caller with its
// suggested filename and content type.
type Kubeconfig struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ClusterPort is the domain port for cluster operations. Implementations
// resolve the scope's credential, build a fresh provider driver and delegate;
// see adapters/drivers/provider.
type ClusterPort interface {
	ClusterCreate(ctx context.Context, scope ProviderScope, spec *ClusterSpec) (*Cluster, error)
	ClusterGet(ctx context.Context, scope ProviderScope, name string) (*Cluster, error)
	ClusterList(ctx context.Context, scope ProviderScope) ([]*Cluster, error)
	ClusterDelete(ctx context.Context, scope ProviderScope, name string) error
	ClusterKubeconfig(ctx context.Context, scope ProviderScope, name string) (*Kubeconfig, error)
	ClusterSetTags(ctx context.Context, scope ProviderScope, name string, tags map[string]string) error
}

// ClusterReachability is the result of an API server probe.
type ClusterReachability struct {
	Reachable     bool   `json:"reachable"`
	ServerVersion string `json:"serverVersion,omitempty"`
	ReadyNodes    int    `json:"readyNodes"`
	TotalNodes    int    `json:"totalNodes"`
	Message       string `json:"message,omitempty"`
}

// ReachabilityPort probes a cluster's API server through its kubeconfig.
// Implemented by adapters/kube.
type ReachabilityPort interface {
	Probe(ctx context.Context, kubeconfig []byte) (*ClusterReachability, error)
}
