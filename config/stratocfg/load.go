package stratocfg

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the conventional config file name, used when no
// explicit path or db-url is given.
const DefaultConfigPath = "strato.yml"

// Load reads a YAML file from the given path, deserializes it into a Root and
// validates it. A file that decodes but fails validation returns the
// validation error.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var cfg Root
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// InitialConfigYAML generates a minimal valid strato.yml for a fresh project.
// Credentials and defaults are left for the user to fill in.
func InitialConfigYAML() ([]byte, error) {
	starter := &struct {
		Version   string    `yaml:"version"`
		Workspace Workspace `yaml:"workspace"`
	}{
		Version:   "v1",
		Workspace: Workspace{Name: "default"},
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(starter); err != nil {
		return nil, fmt.Errorf("encoding starter config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}

	return []byte(buf.String()), nil
}
