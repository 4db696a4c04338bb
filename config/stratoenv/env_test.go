package stratoenv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearchForRoot(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested directories
	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	deepDir := filepath.Join(subDir, "deep")

	for _, dir := range []string{projectDir, subDir, deepDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating directory %q: %v", dir, err)
		}
	}

	// Create .strato in project directory
	stratoDir := filepath.Join(projectDir, DirName)
	if err := os.Mkdir(stratoDir, 0755); err != nil {
		t.Fatalf("creating .strato directory: %v", err)
	}

	tests := []struct {
		name      string
		startDir  string
		wantFound string
	}{
		{
			name:      "from project root",
			startDir:  projectDir,
			wantFound: projectDir,
		},
		{
			name:      "from subdirectory",
			startDir:  subDir,
			wantFound: projectDir,
		},
		{
			name:      "from deep subdirectory",
			startDir:  deepDir,
			wantFound: projectDir,
		},
		{
			name:      "not found",
			startDir:  tmpDir,
			wantFound: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := searchForRoot(tt.startDir)
			if err != nil {
				t.Fatalf("searchForRoot() error: %v", err)
			}
			if got != tt.wantFound {
				t.Errorf("searchForRoot() = %q, want %q", got, tt.wantFound)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "project")
	stratoDir := filepath.Join(projectDir, DirName)

	if err := os.MkdirAll(stratoDir, 0755); err != nil {
		t.Fatalf("creating directories: %v", err)
	}

	tests := []struct {
		name     string
		root     string
		dir      string
		workDir  string
		wantRoot string
		wantDir  string
		wantErr  bool
	}{
		{
			name:     "explicit dirs",
			root:     projectDir,
			dir:      stratoDir,
			workDir:  tmpDir,
			wantRoot: projectDir,
			wantDir:  stratoDir,
		},
		{
			name:     "discover from workdir",
			root:     "",
			dir:      "",
			workDir:  projectDir,
			wantRoot: projectDir,
			wantDir:  stratoDir,
		},
		{
			name:     "explicit root, default dir",
			root:     projectDir,
			dir:      "",
			workDir:  tmpDir,
			wantRoot: projectDir,
			wantDir:  stratoDir,
		},
		{
			name:    "explicit root missing",
			root:    filepath.Join(tmpDir, "nope"),
			workDir: tmpDir,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Resolve(tt.root, tt.dir, tt.workDir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if env.Root != tt.wantRoot {
				t.Errorf("Root = %q, want %q", env.Root, tt.wantRoot)
			}
			if env.Dir != tt.wantDir {
				t.Errorf("Dir = %q, want %q", env.Dir, tt.wantDir)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := Resolve("", "", tmpDir)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestEnv_ExpandVars(t *testing.T) {
	env := &Env{
		Root: "/home/user/project",
		Dir:  "/home/user/project/.strato",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "expand STRATO_ROOT",
			input: "$STRATO_ROOT/strato.yml",
			want:  "/home/user/project/strato.yml",
		},
		{
			name:  "expand STRATO_DIR",
			input: "$STRATO_DIR/logs",
			want:  "/home/user/project/.strato/logs",
		},
		{
			name:  "expand both",
			input: "$STRATO_ROOT/cfg and $STRATO_DIR/logs",
			want:  "/home/user/project/cfg and /home/user/project/.strato/logs",
		},
		{
			name:  "no expansion",
			input: "/absolute/path",
			want:  "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := env.ExpandVars(tt.input)
			if got != tt.want {
				t.Errorf("ExpandVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnv_Defaults(t *testing.T) {
	env := &Env{
		Root: "/home/user/project",
		Dir:  "/home/user/project/.strato",
	}

	if got, want := env.DBURL(), "file:/home/user/project/strato.yml"; got != want {
		t.Errorf("DBURL() = %q, want %q", got, want)
	}
	if got, want := env.LogDir(), "/home/user/project/.strato/logs"; got != want {
		t.Errorf("LogDir() = %q, want %q", got, want)
	}

	env.DB.URL = "sqlite:$STRATO_DIR/state.db"
	env.Logging.Dir = "$STRATO_ROOT/logs"
	if got, want := env.DBURL(), "sqlite:/home/user/project/.strato/state.db"; got != want {
		t.Errorf("DBURL() = %q, want %q", got, want)
	}
	if got, want := env.LogDir(), "/home/user/project/logs"; got != want {
		t.Errorf("LogDir() = %q, want %q", got, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	stratoDir := filepath.Join(tmpDir, DirName)
	if err := os.Mkdir(stratoDir, 0755); err != nil {
		t.Fatalf("creating .strato directory: %v", err)
	}

	configPath := filepath.Join(stratoDir, ConfigFileName)
	configContent := `version: 1
db:
  url: sqlite:$STRATO_DIR/state.db
logging:
  format: json
  level: DEBUG
  retentionDays: 14
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	env := &Env{
		Root: tmpDir,
		Dir:  stratoDir,
	}

	if err := env.loadConfigFile(); err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if env.Version != 1 {
		t.Errorf("Version = %d, want 1", env.Version)
	}
	if env.DB.URL != "sqlite:$STRATO_DIR/state.db" {
		t.Errorf("DB.URL = %q", env.DB.URL)
	}
	if env.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", env.Logging.Format)
	}
	if env.Logging.Level != "DEBUG" {
		t.Errorf("Logging.Level = %q, want DEBUG", env.Logging.Level)
	}
	if env.Logging.RetentionDays != 14 {
		t.Errorf("Logging.RetentionDays = %d, want 14", env.Logging.RetentionDays)
	}

	// Missing config file leaves zero values and is not an error.
	tmpDir2 := t.TempDir()
	stratoDir2 := filepath.Join(tmpDir2, DirName)
	if err := os.Mkdir(stratoDir2, 0755); err != nil {
		t.Fatalf("creating .strato directory: %v", err)
	}

	env2 := &Env{
		Root: tmpDir2,
		Dir:  stratoDir2,
	}

	if err := env2.loadConfigFile(); err != nil {
		t.Fatalf("loadConfigFile() error when file missing: %v", err)
	}
	if env2.Version != 0 {
		t.Errorf("Version = %d, want 0 when config missing", env2.Version)
	}
}

func TestInitialConfigYAML(t *testing.T) {
	data, err := InitialConfigYAML()
	if err != nil {
		t.Fatalf("InitialConfigYAML() error: %v", err)
	}
	s := string(data)
	for _, want := range []string{"version: 1", "db:", "file:$STRATO_ROOT/strato.yml"} {
		if !strings.Contains(s, want) {
			t.Errorf("InitialConfigYAML() missing %q in:\n%s", want, s)
		}
	}
}
