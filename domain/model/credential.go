package model

import "time"

// Credential stores provider auth material encrypted at rest. The encrypted
// blob is an AES-256-GCM sealed JSON object; the orchestration layer never
// sees it in the clear except through a ResolvedCredential.
type Credential struct {
	ID          string
	WorkspaceID string // owning tenant
	Provider    ProviderKind
	Name        string
	Encrypted   []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ResolvedCredential is decrypted auth material bound to its provider tag.
// Data is a fresh map per resolution; callers must not cache or share it.
type ResolvedCredential struct {
	ID       string
	Provider ProviderKind
	Data     map[string]string
}

// Get returns the value for key or an empty string.
func (c *ResolvedCredential) Get(key string) string {
	if c == nil || c.Data == nil {
		return ""
	}
	return c.Data[key]
}

// RequiredCredentialKeys returns the keys a credential for the given provider
// must carry. GCP service-account documents additionally require
// type=service_account.
func RequiredCredentialKeys(provider ProviderKind) []string {
	switch provider {
	case ProviderAWS:
		return []string{"access_key", "secret_key"}
	case ProviderGCP:
		return []string{"type", "project_id", "private_key", "client_email", "client_id"}
	case ProviderAzure:
		return []string{"subscription_id", "client_id", "client_secret", "tenant_id"}
	}
	return nil
}

// ValidateCredentialData checks that data carries every key the provider
// requires.
func ValidateCredentialData(provider ProviderKind, data map[string]string) error {
	if !provider.Valid() {
		return NewValidationError("provider", "unsupported provider: "+string(provider))
	}
	for _, key := range RequiredCredentialKeys(provider) {
		if data[key] == "" {
			return NewValidationError(key, "is required for "+string(provider))
		}
	}
	if provider == ProviderGCP && data["type"] != "service_account" {
		return NewValidationError("type", "must be service_account")
	}
	return nil
}
