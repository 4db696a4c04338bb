package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stratokube/strato/config/stratocfg"
	"github.com/stratokube/strato/config/stratoenv"
	"gopkg.in/yaml.v3"
)

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name          string
		existingFiles map[string]string // path -> content
		forceFlag     bool
		wantErr       bool
		wantErrMsg    string
	}{
		{
			name:          "new_directory",
			existingFiles: nil,
			forceFlag:     false,
			wantErr:       false,
		},
		{
			name: "existing_config_no_force",
			existingFiles: map[string]string{
				".strato/config.yml": "version: 1\n",
			},
			forceFlag:  false,
			wantErr:    true,
			wantErrMsg: "already exists",
		},
		{
			name: "existing_config_with_force",
			existingFiles: map[string]string{
				".strato/config.yml": "version: 1\n",
			},
			forceFlag: true,
			wantErr:   false,
		},
		{
			name: "existing_data_config_preserved",
			existingFiles: map[string]string{
				"strato.yml": "version: v1\nworkspace:\n  name: keepme\n",
			},
			forceFlag: false,
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			for relPath, content := range tt.existingFiles {
				fullPath := filepath.Join(tmpDir, relPath)
				if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
					t.Fatalf("creating parent directory: %v", err)
				}
				if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
					t.Fatalf("creating existing file: %v", err)
				}
			}

			oldWd, err := os.Getwd()
			if err != nil {
				t.Fatalf("getting working directory: %v", err)
			}
			defer func() {
				if err := os.Chdir(oldWd); err != nil {
					t.Errorf("restoring working directory: %v", err)
				}
			}()

			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("changing to temp directory: %v", err)
			}

			cmd := newCmdInit()
			cmd.SetOut(&bytes.Buffer{})
			if tt.forceFlag {
				cmd.Flags().Set("force", "true")
			}

			err = runInit(cmd, nil, tt.forceFlag)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErrMsg)
				} else if tt.wantErrMsg != "" && !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Errorf("expected error containing %q, got %q", tt.wantErrMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Verify .strato/ directory exists
			stratoDir := filepath.Join(tmpDir, stratoenv.DirName)
			if _, err := os.Stat(stratoDir); os.IsNotExist(err) {
				t.Errorf(".strato/ directory not created")
			}

			// Verify config.yml exists and has correct structure
			configPath := filepath.Join(stratoDir, stratoenv.ConfigFileName)
			data, err := os.ReadFile(configPath)
			if err != nil {
				t.Fatalf("reading config.yml: %v", err)
			}

			var config map[string]interface{}
			if err := yaml.Unmarshal(data, &config); err != nil {
				t.Fatalf("parsing config.yml: %v", err)
			}

			if version, ok := config["version"].(int); !ok || version != 1 {
				t.Errorf("expected version=1, got %v", config["version"])
			}

			if db, ok := config["db"].(map[string]interface{}); !ok {
				t.Errorf("expected db to be map, got %T", config["db"])
			} else if url, ok := db["url"].(string); !ok || !strings.Contains(url, "$STRATO_ROOT") {
				t.Errorf("expected db.url pointing at $STRATO_ROOT, got %v", db["url"])
			}

			// Verify strato.yml exists and was not clobbered
			dataPath := filepath.Join(tmpDir, stratocfg.DefaultConfigPath)
			raw, err := os.ReadFile(dataPath)
			if err != nil {
				t.Fatalf("reading strato.yml: %v", err)
			}
			if prior, had := tt.existingFiles["strato.yml"]; had {
				if string(raw) != prior {
					t.Errorf("strato.yml was overwritten")
				}
			} else if _, err := stratocfg.Load(dataPath); err != nil {
				t.Errorf("generated strato.yml does not validate: %v", err)
			}
		})
	}
}

func TestInitCommandCreatesTargetDir(t *testing.T) {
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(oldWd); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	}()

	tmpDir := t.TempDir()
	targetDir := filepath.Join(tmpDir, "new", "nested", "project")

	cmd := newCmdInit()
	cmd.SetOut(&bytes.Buffer{})

	if err := runInit(cmd, []string{targetDir}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stratoDir := filepath.Join(targetDir, stratoenv.DirName)
	if _, err := os.Stat(stratoDir); os.IsNotExist(err) {
		t.Errorf(".strato/ directory not created in target: %s", stratoDir)
	}

	configPath := filepath.Join(stratoDir, stratoenv.ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("config.yml not created: %s", configPath)
	}

	// The resolved env must round-trip through Resolve.
	env, err := stratoenv.Resolve("", "", targetDir)
	if err != nil {
		t.Fatalf("resolving initialized env: %v", err)
	}
	if env.Root != targetDir {
		t.Errorf("resolved root = %q, want %q", env.Root, targetDir)
	}
	if !strings.HasPrefix(env.DBURL(), "file:") || !strings.HasSuffix(env.DBURL(), stratocfg.DefaultConfigPath) {
		t.Errorf("unexpected db url: %q", env.DBURL())
	}
}
