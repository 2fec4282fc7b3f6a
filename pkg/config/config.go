// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ghostmind-dev/run/pkg/types"
)

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file
func (m *Manager) LoadConfig(path string) (*types.RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.RunConfig

	// Try JSON first
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	// Fall back to YAML
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// LoadConfigOrDefault loads configuration from path, returning the
// default configuration when the file does not exist.
func (m *Manager) LoadConfigOrDefault(path string) (*types.RunConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return m.GetDefaultConfig(), nil
	}
	return m.LoadConfig(path)
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *types.RunConfig) error {
	if cfg.Version != "1.0" {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}

	if cfg.Scheduling != nil {
		if cfg.Scheduling.MaxParallel < 0 {
			return fmt.Errorf("maxParallel must not be negative")
		}
		if cfg.Scheduling.DefaultPriority != nil && *cfg.Scheduling.DefaultPriority < 0 {
			return fmt.Errorf("defaultPriority must not be negative")
		}
	}

	if cfg.Logging != nil {
		switch cfg.Logging.Level {
		case "", types.LogLevelDebug, types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError:
		default:
			return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
		}
	}

	if cfg.Watch != nil && cfg.Watch.SettlingDelay != nil && *cfg.Watch.SettlingDelay < 0 {
		return fmt.Errorf("watch settlingDelay must not be negative")
	}

	return nil
}

// GetDefaultConfig returns the default configuration
func (m *Manager) GetDefaultConfig() *types.RunConfig {
	enabled := false
	settlingDelay := 500

	return &types.RunConfig{
		Version: "1.0",
		Scheduling: &types.SchedulingConfig{
			MaxParallel: 0,
		},
		Logging: &types.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Notifications: &types.NotificationConfig{
			Enabled: &enabled,
		},
		Watch: &types.WatchConfig{
			SettlingDelay: &settlingDelay,
		},
	}
}

// Private methods

func (m *Manager) validateConfig(cfg *types.RunConfig) (*types.RunConfig, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
