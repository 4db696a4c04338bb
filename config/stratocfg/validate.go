package stratocfg

import (
	"fmt"
	"strings"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/naming"
)

// Validate performs semantic validation on the configuration tree.
func (r *Root) Validate() error {
	if r.Version != "v1" {
		return fmt.Errorf("version: must be %q, got %q", "v1", r.Version)
	}
	if err := naming.ValidateWorkspaceName(r.Workspace.Name); err != nil {
		return fmt.Errorf("workspace.name: %w", err)
	}
	if err := r.validateCredentials(); err != nil {
		return err
	}
	if err := r.validateDefaults(); err != nil {
		return err
	}
	if err := r.Events.validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if r.Bulk.Workers < 0 {
		return fmt.Errorf("bulk.workers: must not be negative")
	}
	return nil
}

func (r *Root) validateCredentials() error {
	seen := make(map[string]struct{}, len(r.Credentials))
	for i, cred := range r.Credentials {
		if cred.Name == "" {
			return fmt.Errorf("credentials[%d].name: must not be empty", i)
		}
		if _, exists := seen[cred.Name]; exists {
			return fmt.Errorf("credentials[%d].name: duplicate credential name %q", i, cred.Name)
		}
		seen[cred.Name] = struct{}{}

		provider := model.ProviderKind(cred.Provider)
		if err := model.ValidateCredentialData(provider, cred.Data); err != nil {
			return fmt.Errorf("credentials[%d] (%s): %w", i, cred.Name, err)
		}
	}
	return nil
}

// validateDefaults cross-checks defaults against the credentials list. A
// default region is only shape-checked when a default credential pins the
// provider, since region formats differ per vendor.
func (r *Root) validateDefaults() error {
	if r.Defaults.Credential == "" {
		return nil
	}
	for _, cred := range r.Credentials {
		if cred.Name != r.Defaults.Credential {
			continue
		}
		if r.Defaults.Region != "" {
			if err := naming.ValidateRegion(cred.Provider, r.Defaults.Region); err != nil {
				return fmt.Errorf("defaults.region: %w", err)
			}
		}
		return nil
	}
	return fmt.Errorf("defaults.credential: unknown credential %q", r.Defaults.Credential)
}

func (e *Events) validate() error {
	if e.URL == "" {
		return nil
	}
	if !strings.HasPrefix(e.URL, "nats://") {
		return fmt.Errorf("url: unsupported scheme in %q, expected nats://", e.URL)
	}
	return nil
}
