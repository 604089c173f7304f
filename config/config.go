package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"erd/diagram"
	"erd/storage"
	"erd/store"

	"github.com/ilyakaznacheev/cleanenv"
)

// FileName is the configuration file read from the working directory when
// no path is given.
const FileName = "erd.yaml"

// Config holds all configuration for erd.
// Configuration can come from a YAML file (erd.yaml) or environment variables.
// Environment variables always override YAML values.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Editor  EditorConfig  `yaml:"editor"`
}

// StorageConfig selects where the diagram is kept between sessions.
type StorageConfig struct {
	// Backend is one of file, sqlite or memory.
	Backend string `yaml:"backend" env:"ERD_STORAGE" env-default:"file"`
	// DataDir holds the stored diagram and the log. Defaults to the user
	// config directory.
	DataDir string `yaml:"data_dir" env:"ERD_DATA_DIR" env-default:""`
	Key     string `yaml:"key" env:"ERD_STORAGE_KEY" env-default:"erd-diagram"`
}

// LogConfig configures the zap logger. The terminal owns stdout, so logs go
// to a file.
type LogConfig struct {
	Level string `yaml:"level" env:"ERD_LOG_LEVEL" env-default:"info"`
	// File defaults to erd.log in the data directory.
	File string `yaml:"file" env:"ERD_LOG_FILE" env-default:""`
}

// EditorConfig holds interaction settings.
type EditorConfig struct {
	// CellWidth and CellHeight are the world units covered by one character cell.
	CellWidth  float64 `yaml:"cell_width" env:"ERD_CELL_WIDTH" env-default:"8"`
	CellHeight float64 `yaml:"cell_height" env:"ERD_CELL_HEIGHT" env-default:"16"`
	// ConfirmClear makes the clear command ask to be pressed twice.
	ConfirmClear bool `yaml:"confirm_clear" env:"ERD_CONFIRM_CLEAR" env-default:"false"`
	// InlineDoubleClick edits labels in place on double click instead of
	// opening the sidebar.
	InlineDoubleClick bool   `yaml:"inline_double_click" env:"ERD_INLINE_DOUBLE_CLICK" env-default:"false"`
	FileName          string `yaml:"file_name" env:"ERD_FILE_NAME" env-default:"erd-diagram.json"`
}

// Load reads configuration from path with environment variable overrides.
// An empty path reads erd.yaml from the working directory when it exists and
// falls back to environment variables and defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if _, err := os.Stat(FileName); err == nil {
			path = FileName
		}
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyDefaults derives the paths that depend on the environment.
func (c *Config) applyDefaults() error {
	if c.Storage.DataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("no data directory configured: %w", err)
		}
		c.Storage.DataDir = filepath.Join(dir, "erd")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.Storage.DataDir, "erd.log")
	}
	if c.Storage.Key == "" {
		c.Storage.Key = store.DefaultKey
	}
	if c.Editor.FileName == "" {
		c.Editor.FileName = diagram.FileName
	}
	return nil
}

// Validate checks values that would only fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Storage.Backend) {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	if c.Editor.CellWidth <= 0 || c.Editor.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %gx%g", c.Editor.CellWidth, c.Editor.CellHeight))
	}
	if filepath.Base(c.Editor.FileName) != c.Editor.FileName {
		errs = append(errs, fmt.Errorf("file name %q must not contain a directory", c.Editor.FileName))
	}
	return errors.Join(errs...)
}
