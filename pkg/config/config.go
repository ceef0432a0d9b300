// Package config loads and saves the libqes YAML configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/alloc"
	"github.com/kdmurray91/libqes/pkg/seqrec"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the libqes configuration
type Config struct {
	DataDir string  `yaml:"data_dir"`
	Buffer  Buffer  `yaml:"buffer"`
	Logging Logging `yaml:"logging"`
}

// Buffer controls how record fields are allocated
type Buffer struct {
	InitialCapacity int    `yaml:"initial_capacity"`
	MaxCapacity     int    `yaml:"max_capacity"`
	OnAllocFailure  string `yaml:"on_alloc_failure"`
}

// Logging contains logging configuration
type Logging struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxBackups int    `yaml:"max_backups"` // files
	MaxAge     int    `yaml:"max_age"`     // days
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Buffer: Buffer{
			InitialCapacity: seqrec.DefaultCapacity,
			MaxCapacity:     alloc.DefaultMaxCapacity,
			OnAllocFailure:  alloc.PolicyFatal,
		},
		Logging: Logging{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Buffer.InitialCapacity <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "buffer.initial_capacity must be positive, got %d", c.Buffer.InitialCapacity)
	}
	if c.Buffer.MaxCapacity < c.Buffer.InitialCapacity {
		return errors.Wrapf(ErrInvalidConfig, "buffer.max_capacity (%d) is below buffer.initial_capacity (%d)",
			c.Buffer.MaxCapacity, c.Buffer.InitialCapacity)
	}
	if _, err := alloc.PolicyByName(c.Buffer.OnAllocFailure, nil); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "buffer.on_alloc_failure: %v", err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalidConfig, "logging.level %q", c.Logging.Level)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./qes.yaml"
	}

	// For Linux/macOS, use ~/.config/qes/config.yaml
	return filepath.Join(homeDir, ".config", "qes", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
