package model

// ProviderKind identifies a supported cloud vendor.
type ProviderKind string

const (
	ProviderAWS   ProviderKind = "aws"
	ProviderGCP   ProviderKind = "gcp"
	ProviderAzure ProviderKind = "azure"
)

// Valid reports whether k names a supported vendor.
func (k ProviderKind) Valid() bool {
	switch k {
	case ProviderAWS, ProviderGCP, ProviderAzure:
		return true
	}
	return false
}

func (k ProviderKind) String() string { return string(k) }

// ProviderScope addresses one provider account and region for a single call.
// Every orchestrator operation receives it explicitly; there is no ambient
// credential state anywhere in the core.
type ProviderScope struct {
	WorkspaceID  string
	CredentialID string
	Provider     ProviderKind
	Region       string
}

// Validate checks the scope fields that every operation requires.
func (s ProviderScope) Validate() error {
	if s.WorkspaceID == "" {
		return NewValidationError("workspaceID", "is required")
	}
	if s.CredentialID == "" {
		return NewValidationError("credentialID", "is required")
	}
	if !s.Provider.Valid() {
		return NewValidationError("provider", "unsupported provider: "+string(s.Provider))
	}
	if s.Region == "" {
		return NewValidationError("region", "is required")
	}
	return nil
}
