package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erd.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: "sqlite"
  data_dir: "/tmp/erd-yaml"
log:
  level: "debug"
editor:
  confirm_clear: true
  cell_width: 10
`)

	t.Setenv("ERD_STORAGE", "memory")
	t.Setenv("ERD_CELL_HEIGHT", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.Backend != "memory" {
		t.Errorf("expected Backend=memory (from env), got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.DataDir != "/tmp/erd-yaml" {
		t.Errorf("expected DataDir=/tmp/erd-yaml (from yaml), got %s", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected Level=debug (from yaml), got %s", cfg.Log.Level)
	}
	if !cfg.Editor.ConfirmClear {
		t.Error("expected ConfirmClear=true (from yaml)")
	}
	if cfg.Editor.CellWidth != 10 || cfg.Editor.CellHeight != 20 {
		t.Errorf("expected cell size 10x20, got %gx%g", cfg.Editor.CellWidth, cfg.Editor.CellHeight)
	}
	if cfg.Log.File != filepath.Join("/tmp/erd-yaml", "erd.log") {
		t.Errorf("expected log file under the data dir, got %s", cfg.Log.File)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ERD_DATA_DIR", "/tmp/erd-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.Backend != "file" {
		t.Errorf("expected default backend file, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "erd-diagram" {
		t.Errorf("expected default key erd-diagram, got %s", cfg.Storage.Key)
	}
	if cfg.Editor.CellWidth != 8 || cfg.Editor.CellHeight != 16 {
		t.Errorf("expected default cell size 8x16, got %gx%g", cfg.Editor.CellWidth, cfg.Editor.CellHeight)
	}
	if cfg.Editor.ConfirmClear {
		t.Error("clear confirmation should be off by default")
	}
	if cfg.Editor.FileName != "erd-diagram.json" {
		t.Errorf("expected default file name, got %s", cfg.Editor.FileName)
	}
}

func TestLoad_ReadsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("storage:\n  key: \"shop\"\n  data_dir: \"/tmp/x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Storage.Key != "shop" {
		t.Errorf("expected key from erd.yaml, got %s", cfg.Storage.Key)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "storage:\n  backend: \"postgres\"\n  data_dir: \"/tmp/x\"\n"},
		{"zero cell width", "storage:\n  data_dir: \"/tmp/x\"\neditor:\n  cell_width: -1\n"},
		{"file name with directory", "storage:\n  data_dir: \"/tmp/x\"\neditor:\n  file_name: \"a/b.json\"\n"},
		{"malformed yaml", "storage: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}
