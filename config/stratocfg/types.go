// Package stratocfg defines the configuration schema (structs) for strato.yml.
// This package is intended for YAML -> struct deserialization. A strato.yml
// file describes a single workspace with its provider credentials and the
// runtime defaults the CLI applies when flags are absent.
package stratocfg

// Root is the root structure of strato.yml.
type Root struct {
	Version     string       `yaml:"version"`
	Workspace   Workspace    `yaml:"workspace"`
	Credentials []Credential `yaml:"credentials"`
	Defaults    Defaults     `yaml:"defaults"`
	Events      Events       `yaml:"events"`
	Bulk        Bulk         `yaml:"bulk"`
}

// Workspace names the tenant a file-backed run operates in.
type Workspace struct {
	Name string `yaml:"name"` // RFC1123-compliant DNS label
}

// Credential carries provider auth material in the clear. It is sealed on
// conversion and never reaches a store unencrypted.
type Credential struct {
	Name     string            `yaml:"name"`
	Provider string            `yaml:"provider"` // "aws", "gcp" or "azure"
	Data     map[string]string `yaml:"data"`     // provider-specific auth keys
}

// Defaults are fallback values commands use when the matching flag is absent.
type Defaults struct {
	Region     string `yaml:"region,omitempty"`
	Credential string `yaml:"credential,omitempty"` // name of a credentials entry
}

// Events selects the notifier backend.
type Events struct {
	URL string `yaml:"url,omitempty"` // empty = process-local bus, nats:// = NATS
}

// Bulk tunes the bulk operation engine.
type Bulk struct {
	Workers int `yaml:"workers,omitempty"` // 0 = engine default
}
