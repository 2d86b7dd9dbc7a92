// ABOUTME: Configuration management for gratitude with YAML file and env overrides.
// ABOUTME: Handles API credentials, log settings, XDG paths, and ~ expansion.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. GRATITUDE_API_URL.
const EnvPrefix = "GRATITUDE"

// Config stores gratitude configuration loaded from ~/.config/gratitude/config.yaml.
type Config struct {
	API APIConfig `yaml:"api" mapstructure:"api"`
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// APIConfig holds the journal API endpoint and its static key.
type APIConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
	Key string `yaml:"key" mapstructure:"key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

// envBindings maps config keys to the environment variable suffix that overrides them.
var envBindings = map[string]string{
	"api.url":   "API_URL",
	"api.key":   "API_KEY",
	"log.level": "LOG_LEVEL",
	"log.file":  "LOG_FILE",
}

// HasRemote returns true if the journal API is configured.
func (c *Config) HasRemote() bool {
	return c.API.URL != "" && c.API.Key != ""
}

// Validate reports which required API settings are missing.
func (c *Config) Validate() error {
	var missing []string
	if c.API.URL == "" {
		missing = append(missing, "api.url ("+EnvPrefix+"_API_URL)")
	}
	if c.API.Key == "" {
		missing = append(missing, "api.key ("+EnvPrefix+"_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s - run 'gratitude setup'", strings.Join(missing, ", "))
	}
	return nil
}

// LogFilePath returns the log file used by full-screen commands, defaulting
// to $XDG_STATE_HOME/gratitude/gratitude.log.
func (c *Config) LogFilePath() (string, error) {
	if c.Log.File != "" {
		return ExpandPath(c.Log.File)
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "gratitude", "gratitude.log"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "gratitude", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk and applies environment overrides. A missing
// file yields the defaults.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for key, suffix := range envBindings {
		if err := v.BindEnv(key, EnvPrefix+"_"+suffix); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s_%s: %w", EnvPrefix, suffix, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Secrets may be mounted as files (GRATITUDE_API_KEY_FILE).
	if key, ok := readSecretFile(EnvPrefix + "_API_KEY_FILE"); ok {
		cfg.API.Key = key
	}
	return &cfg, nil
}

// readSecretFile reads the file named by envVar, if set and readable.
func readSecretFile(envVar string) (string, bool) {
	filePath := os.Getenv(envVar)
	if filePath == "" {
		return "", false
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
