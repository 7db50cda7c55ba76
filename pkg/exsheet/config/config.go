// Package config loads exsheet settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/history"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/transfer"
)

// Config holds all exsheet settings.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	History HistoryConfig `yaml:"history"`
	Grid    GridConfig    `yaml:"grid"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig configures the local key-value store.
type StorageConfig struct {
	Path string `yaml:"path"` // SQLite database file, or ":memory:"
}

// HistoryConfig configures undo/redo.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// GridConfig configures the size of new sheets.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// ExportConfig configures downloads.
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty disables logging
}

// Dir returns the directory holding exsheet's files.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".exsheet"
	}
	return filepath.Join(base, "exsheet")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Storage: StorageConfig{
			Path: filepath.Join(dir, "exsheet.db"),
		},
		History: HistoryConfig{
			Limit: history.DefaultLimit,
		},
		Grid: GridConfig{
			Rows: models.DefaultRows,
			Cols: models.DefaultCols,
		},
		Export: ExportConfig{
			Dir:      ".",
			Filename: transfer.DefaultFilename,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "exsheet.log"),
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Grid.Rows < 1 || c.Grid.Cols < 1 {
		return fmt.Errorf("invalid grid size %dx%d", c.Grid.Rows, c.Grid.Cols)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("invalid history limit %d", c.History.Limit)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	if c.Logging.Level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return lvl, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("EXSHEET_DB"); path != "" {
		c.Storage.Path = path
	}
	if level := os.Getenv("EXSHEET_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
