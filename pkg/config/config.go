// Package config handles loading, validating and saving modhaven's settings.
// Configuration lives in a YAML file under the user config directory and
// every field has a sensible default, so a missing file is not an error.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// GameDir is the game installation root. Mods live in its "mods"
	// subdirectory.
	GameDir string `yaml:"game_dir,omitempty"`

	// StagingDir overrides where archives are extracted before placement.
	StagingDir string `yaml:"staging_dir,omitempty"`

	// DownloadDir overrides where downloaded mod archives are cached.
	DownloadDir string `yaml:"download_dir,omitempty"`

	// Network settings
	HTTPTimeout         time.Duration `yaml:"http_timeout"`
	MaxConcurrentChecks int           `yaml:"max_concurrent_checks"`

	// CheckUpdatesOnList fetches remote versions when listing mods.
	CheckUpdatesOnList bool `yaml:"check_updates_on_list"`

	// Output settings
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrentChecks is the default bound on parallel version
	// checks.
	DefaultMaxConcurrentChecks = 4

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			HTTPTimeout:         DefaultHTTPTimeout,
			MaxConcurrentChecks: DefaultMaxConcurrentChecks,
			CheckUpdatesOnList:  false,
			LogLevel:            "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrentChecks == 0 {
		c.Settings.MaxConcurrentChecks = defaults.Settings.MaxConcurrentChecks
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return fmt.Errorf("config path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to encode config")
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if c.Settings.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout cannot be negative")
	}
	if c.Settings.MaxConcurrentChecks < 1 {
		return fmt.Errorf("max_concurrent_checks must be at least 1")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Settings.LogLevel)] {
		return fmt.Errorf("invalid log level: %s", c.Settings.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// ModsDir returns the directory mods are installed to.
func (c *Config) ModsDir() string {
	if c.Settings.GameDir == "" {
		return ""
	}
	return filepath.Join(c.Settings.GameDir, "mods")
}

// StagingDir returns the staging parent, preferring the configured override.
func (c *Config) StagingDir() (string, error) {
	if c.Settings.StagingDir != "" {
		return c.Settings.StagingDir, nil
	}
	return fsutil.StagingDir()
}

// DownloadDir returns the archive cache, preferring the configured override.
func (c *Config) DownloadDir() (string, error) {
	if c.Settings.DownloadDir != "" {
		return c.Settings.DownloadDir, nil
	}
	return fsutil.DownloadCacheDir()
}

// Get returns a settings value by key for the config CLI surface.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "game_dir":
		return c.Settings.GameDir, nil
	case "staging_dir":
		return c.Settings.StagingDir, nil
	case "download_dir":
		return c.Settings.DownloadDir, nil
	case "http_timeout":
		return c.Settings.HTTPTimeout.String(), nil
	case "max_concurrent_checks":
		return fmt.Sprintf("%d", c.Settings.MaxConcurrentChecks), nil
	case "check_updates_on_list":
		return fmt.Sprintf("%t", c.Settings.CheckUpdatesOnList), nil
	case "log_level":
		return c.Settings.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a settings value by key for the config CLI surface.
func (c *Config) Set(key, value string) error {
	switch key {
	case "game_dir":
		c.Settings.GameDir = value
	case "staging_dir":
		c.Settings.StagingDir = value
	case "download_dir":
		c.Settings.DownloadDir = value
	case "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		c.Settings.HTTPTimeout = d
	case "max_concurrent_checks":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid number %q: %w", value, err)
		}
		c.Settings.MaxConcurrentChecks = n
	case "check_updates_on_list":
		switch strings.ToLower(value) {
		case "true", "yes", "1":
			c.Settings.CheckUpdatesOnList = true
		case "false", "no", "0":
			c.Settings.CheckUpdatesOnList = false
		default:
			return fmt.Errorf("invalid boolean %q", value)
		}
	case "log_level":
		c.Settings.LogLevel = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return c.Validate()
}

// Keys lists the settable configuration keys.
func Keys() []string {
	return []string{
		"game_dir",
		"staging_dir",
		"download_dir",
		"http_timeout",
		"max_concurrent_checks",
		"check_updates_on_list",
		"log_level",
	}
}
