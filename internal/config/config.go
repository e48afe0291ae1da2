// Package config handles configuration loading and management for Cadence.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/AndVl1/cadence/pkg/models"
)

// Config holds all configuration for Cadence.
type Config struct {
	Executor ExecutorConfig `mapstructure:"executor"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	Lock     LockConfig     `mapstructure:"lock"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ExecutorConfig holds role-executor settings.
type ExecutorConfig struct {
	// WorkDir is where role commands run. Empty means the current directory.
	WorkDir string `mapstructure:"work_dir"`
	// Roles maps role ids to shell commands. Each command receives the
	// dispatch request as JSON on stdin and must print a JSON outcome.
	Roles map[string]string `mapstructure:"roles"`
}

// TimeoutsConfig holds scheduling timeout settings.
type TimeoutsConfig struct {
	// Phase bounds the wall-clock time of a single phase.
	Phase time.Duration `mapstructure:"phase"`
	// Role bounds one role command within a phase.
	Role time.Duration `mapstructure:"role"`
	// LockWait bounds how long a driver phase waits for the lock.
	LockWait time.Duration `mapstructure:"lock_wait"`
}

// LockConfig holds driver-lock settings.
type LockConfig struct {
	// StaleAfter is how long a marker may sit unreleased before a new
	// acquirer may reclaim it.
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
}

// RoleCommands returns the configured commands keyed by typed role id.
func (c *Config) RoleCommands() map[models.RoleID]string {
	out := make(map[models.RoleID]string, len(c.Executor.Roles))
	for role, cmd := range c.Executor.Roles {
		out[models.RoleID(role)] = cmd
	}
	return out
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (CADENCE_*)
// 2. Project config (.cadence.yaml in current directory or parent)
// 3. User config (~/.config/cadence/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Project config takes precedence over the user config.
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CADENCE")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("executor.work_dir", cfg.Executor.WorkDir)
	v.Set("executor.roles", cfg.Executor.Roles)
	v.Set("timeouts.phase", cfg.Timeouts.Phase.String())
	v.Set("timeouts.role", cfg.Timeouts.Role.String())
	v.Set("timeouts.lock_wait", cfg.Timeouts.LockWait.String())
	v.Set("lock.stale_after", cfg.Lock.StaleAfter.String())
	v.Set("logging.debug", cfg.Logging.Debug)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("executor.work_dir", "")

	v.SetDefault("timeouts.phase", "30m")
	v.SetDefault("timeouts.role", "20m")
	v.SetDefault("timeouts.lock_wait", "2m")

	v.SetDefault("lock.stale_after", "30m")

	v.SetDefault("logging.debug", false)
}

// getUserConfigDir returns the XDG config directory for Cadence.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cadence")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "cadence")
	}
	return filepath.Join(home, ".config", "cadence")
}

// findProjectConfig searches for .cadence.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".cadence.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{
			Roles: map[string]string{},
		},
		Timeouts: TimeoutsConfig{
			Phase:    30 * time.Minute,
			Role:     20 * time.Minute,
			LockWait: 2 * time.Minute,
		},
		Lock: LockConfig{
			StaleAfter: 30 * time.Minute,
		},
	}
}
