package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/plantimer-auth0"
	configFileName = "config.yaml"
)

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Load loads configuration from config.yaml in the given directory.
// A missing file is not an error; defaults are returned so the caller can
// fail later with a precise ConfigError for whichever field is needed.
func Load(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)

	var cfg Config
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no config.yaml found, using defaults", "path", configFilePath)
			cfg.Auth0 = cfg.Auth0.WithDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config from %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from %s: %w", configFilePath, err)
	}

	cfg.Auth0 = cfg.Auth0.WithDefaults()
	slog.Debug("loaded configuration", "path", configFilePath)
	return cfg, nil
}
