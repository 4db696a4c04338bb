package stratoenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stratokube/strato/config/stratocfg"
)

// Environment variable names
const (
	RootEnvKey = "STRATO_ROOT"
	DirEnvKey  = "STRATO_DIR"
)

// Directory and file names
const (
	DirName        = ".strato"
	ConfigFileName = "config.yml"
)

// ErrNotFound reports that no project environment exists in the searched
// ancestors. Callers treat it as "run without a project env" rather than a
// hard failure.
var ErrNotFound = errors.New("project environment not found")

// Env holds the resolved STRATO_ROOT, STRATO_DIR, and loaded .strato/config.yml
// contents. It represents the project environment a stratoctl invocation runs
// in and provides utilities for path expansion.
type Env struct {
	Root    string  // Resolved STRATO_ROOT (project directory)
	Dir     string  // Resolved STRATO_DIR (typically $STRATO_ROOT/.strato)
	Version int     // .strato/config.yml version
	DB      DB      // .strato/config.yml db configuration
	Logging Logging // .strato/config.yml logging configuration
}

// DB points commands at the project's data store.
type DB struct {
	URL string `yaml:"url,omitempty"` // db-url default ($STRATO_ROOT/$STRATO_DIR expanded)
}

// Logging configures the project log file sink.
type Logging struct {
	Dir           string `yaml:"dir,omitempty"`           // Log directory (default: $STRATO_DIR/logs)
	Format        string `yaml:"format,omitempty"`        // Log format: json (default), human, text
	Level         string `yaml:"level,omitempty"`         // Log level: DEBUG, INFO (default), WARN, ERROR
	Output        string `yaml:"output,omitempty"`        // "" auto file, "none" to disable, or a path
	RetentionDays int    `yaml:"retentionDays,omitempty"` // Days to retain log files (default: 7)
}

// configFile represents the structure of .strato/config.yml for unmarshaling
type configFile struct {
	Version int     `yaml:"version"`
	DB      DB      `yaml:"db,omitempty"`
	Logging Logging `yaml:"logging,omitempty"`
}

// Resolve discovers STRATO_ROOT and STRATO_DIR, then loads .strato/config.yml.
//
// Resolution order for STRATO_ROOT:
//  1. root parameter (from the STRATO_ROOT env)
//  2. Upward search from workDir for a parent containing .strato/
//
// Resolution order for STRATO_DIR:
//  1. dir parameter (from the STRATO_DIR env)
//  2. Default: $STRATO_ROOT/.strato
//
// Parameters can be empty strings to trigger discovery/defaults. When no
// .strato directory exists in any ancestor the returned error wraps
// ErrNotFound.
func Resolve(root, dir, workDir string) (*Env, error) {
	if root == "" {
		found, err := searchForRoot(workDir)
		if err != nil {
			return nil, fmt.Errorf("searching for %s directory: %w", DirName, err)
		}
		if found == "" {
			return nil, fmt.Errorf("no %s directory in ancestors of %q: %w", DirName, workDir, ErrNotFound)
		}
		root = found
	}

	var err error
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving STRATO_ROOT to absolute path: %w", err)
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("STRATO_ROOT %q does not exist: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("STRATO_ROOT %q is not a directory", root)
	}

	if dir == "" {
		dir = filepath.Join(root, DirName)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving STRATO_DIR to absolute path: %w", err)
	}
	dir = filepath.Clean(dir)

	info, err = os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("STRATO_DIR %q does not exist: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("STRATO_DIR %q is not a directory", dir)
	}

	env := &Env{
		Root: root,
		Dir:  dir,
	}

	if err := env.loadConfigFile(); err != nil {
		return nil, err
	}

	return env, nil
}

// searchForRoot searches upward from startDir for a parent containing a
// .strato directory. Returns the parent directory (not .strato itself) or
// empty string if not found.
func searchForRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	current := absDir
	for {
		stratoPath := filepath.Join(current, DirName)
		info, err := os.Stat(stratoPath)
		if err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root without finding .strato
			return "", nil
		}
		current = parent
	}
}

// loadConfigFile loads .strato/config.yml into the Env.
// Does nothing if the file doesn't exist (not an error).
func (e *Env) loadConfigFile() error {
	configPath := filepath.Join(e.Dir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", configPath, err)
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("parsing config file %q: %w", configPath, err)
	}

	e.Version = cf.Version
	e.DB = cf.DB
	e.Logging = cf.Logging

	return nil
}

// ExpandVars replaces $STRATO_ROOT and $STRATO_DIR in the given string.
func (e *Env) ExpandVars(s string) string {
	s = strings.ReplaceAll(s, "$STRATO_ROOT", e.Root)
	s = strings.ReplaceAll(s, "$STRATO_DIR", e.Dir)
	return s
}

// DBURL returns the project's db-url with env vars expanded, defaulting to
// the strato.yml at the project root.
func (e *Env) DBURL() string {
	if e.DB.URL != "" {
		return e.ExpandVars(e.DB.URL)
	}
	return "file:" + filepath.Join(e.Root, stratocfg.DefaultConfigPath)
}

// LogDir returns the project's log directory with env vars expanded,
// defaulting to $STRATO_DIR/logs.
func (e *Env) LogDir() string {
	if e.Logging.Dir != "" {
		return e.ExpandVars(e.Logging.Dir)
	}
	return filepath.Join(e.Dir, "logs")
}

// InitialConfigYAML generates the initial .strato/config.yml content as YAML
// bytes with 2-space indentation.
func InitialConfigYAML() ([]byte, error) {
	defaultConfig := configFile{
		Version: 1,
		DB: DB{
			URL: "file:$STRATO_ROOT/" + stratocfg.DefaultConfigPath,
		},
		// Logging is omitted so the $STRATO_DIR/logs defaults apply.
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&defaultConfig); err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}

	return []byte(buf.String()), nil
}
