package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration defaults.
const (
	DefaultDriver           = "sqlserver"
	DefaultClosedStatusName = "closed"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. BUGNET_CONNECTION_STRING.
const EnvPrefix = "BUGNET"

// ProviderConfig holds the persisted settings of a BugNet provider.
// It is treated as read-only once handed to a tracker client.
type ProviderConfig struct {
	// Driver is the database/sql driver name ("sqlserver" or "sqlite").
	Driver string `mapstructure:"driver" yaml:"driver"`

	// ConnectionString is the DSN of BugNet's SQL database.
	ConnectionString string `mapstructure:"connection_string" yaml:"connection_string"`

	// ClosedStatusName is the status that marks an issue as closed.
	ClosedStatusName string `mapstructure:"closed_status_name" yaml:"closed_status_name"`

	// ReleaseNumberCustomField is the custom field on issues that ties
	// them to a release. If empty, issues are not tied to a release.
	ReleaseNumberCustomField string `mapstructure:"release_number_custom_field" yaml:"release_number_custom_field"`

	// TrackerURL is the root URL of the BugNet web application.
	TrackerURL string `mapstructure:"tracker_url" yaml:"tracker_url"`
}

// ErrNoConnectionString is returned by Validate when no DSN is set.
var ErrNoConnectionString = errors.New("connection string must not be empty")

// Validate checks the only invariant the provider has.
func (c ProviderConfig) Validate() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return ErrNoConnectionString
	}
	return nil
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/bugnet-provider/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "bugnet-provider", "config.yaml")
}

// DefaultProviderConfig returns the configuration used when no file exists.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Driver:           DefaultDriver,
		ClosedStatusName: DefaultClosedStatusName,
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("driver", DefaultDriver)
	v.SetDefault("connection_string", "")
	v.SetDefault("closed_status_name", DefaultClosedStatusName)
	v.SetDefault("release_number_custom_field", "")
	v.SetDefault("tracker_url", "")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// applying BUGNET_* environment overrides. A missing file yields the
// defaults (plus any environment overrides).
func LoadConfig(path string) (ProviderConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return ProviderConfig{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultProviderConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return ProviderConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// An explicitly blank closed status would make no issue closable.
	if strings.TrimSpace(cfg.ClosedStatusName) == "" {
		cfg.ClosedStatusName = DefaultClosedStatusName
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultDriver
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. The connection string is
// written only when includeSecret is true.
func SaveConfig(path string, cfg ProviderConfig, includeSecret bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("driver", cfg.Driver)
	v.Set("closed_status_name", cfg.ClosedStatusName)
	v.Set("release_number_custom_field", cfg.ReleaseNumberCustomField)
	v.Set("tracker_url", cfg.TrackerURL)
	if includeSecret {
		v.Set("connection_string", cfg.ConnectionString)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
