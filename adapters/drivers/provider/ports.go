package providerdrv

import (
	"context"
	"fmt"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// CredentialResolver yields decrypted credentials. Implementations must check
// workspace ownership before decrypting; see usecase/credential.
type CredentialResolver interface {
	Resolve(ctx context.Context, workspaceID, credentialID string) (*model.ResolvedCredential, error)
}

// Ports bundles the provider-backed port implementations over one resolver.
type Ports struct {
	Cluster  model.ClusterPort
	NodePool model.NodePoolPort
	Network  model.NetworkPort
}

// NewPorts builds the port adapters. Every port method resolves the scope's
// credential and constructs a fresh driver for that one call.
func NewPorts(resolver CredentialResolver) *Ports {
	return &Ports{
		Cluster:  &clusterPortAdapter{resolver: resolver},
		NodePool: &nodePoolPortAdapter{resolver: resolver},
		Network:  &networkPortAdapter{resolver: resolver},
	}
}

// newDriver validates scope, resolves its credential and builds a driver
// bound to that credential and region. Nothing is cached between calls.
func newDriver(ctx context.Context, resolver CredentialResolver, scope model.ProviderScope) (Driver, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := naming.ValidateRegion(scope.Provider.String(), scope.Region); err != nil {
		return nil, model.NewValidationError("region", err.Error())
	}
	cred, err := resolver.Resolve(ctx, scope.WorkspaceID, scope.CredentialID)
	if err != nil {
		return nil, err
	}
	if cred.Provider != scope.Provider {
		return nil, model.NewValidationError("provider",
			fmt.Sprintf("credential %s is bound to %s, not %s", scope.CredentialID, cred.Provider, scope.Provider))
	}
	factory, ok := GetDriverFactory(scope.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider driver: %s", scope.Provider)
	}
	driver, err := factory(ctx, cred, scope.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver %s: %w", scope.Provider, err)
	}
	return driver, nil
}
