package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"wfm-sync/pkg/logger"
)

// initializeConfig creates or loads the configuration.
func initializeConfig(providedPath string, defaultPath string, configDir string, log *logger.Logger) (*Config, error) {
	// Try provided path first if specified
	if providedPath != "" {
		config, err := loadConfigFromPath(providedPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from provided path: %w", err)
		}
		return config, nil
	}

	// Try default path, create if doesn't exist
	if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
		config := DefaultConfig(configDir, log)
		if err := config.writeDefault(defaultPath); err != nil {
			return nil, err
		}
		log.Info("Wrote default configuration", "path", defaultPath)
		return config, nil
	}

	config, err := loadConfigFromPath(defaultPath, log)
	if err != nil {
		log.Warn("Falling back to default configuration", "path", defaultPath, "error", err.Error())
		return DefaultConfig(configDir, log), nil
	}
	return config, nil
}

// FindConfig locates and initializes the configuration.
func FindConfig(providedPath string, log *logger.Logger) (*Config, error) {
	log.Info("Looking for configuration", "provided_path", providedPath)

	// Get user config directory
	homeConfigDir, err := os.UserConfigDir()
	if err != nil {
		log.Error("Failed to get user config directory", err)
		return nil, err
	}

	return findConfigIn(providedPath, filepath.Join(homeConfigDir, appDirName), log)
}

func findConfigIn(providedPath string, configDir string, log *logger.Logger) (*Config, error) {
	defaultConfigPath := filepath.Join(configDir, configFileName)
	defaultLogsDir := filepath.Join(configDir, "logs")

	log.Debug("Configuration paths",
		"config_dir", configDir,
		"config_path", defaultConfigPath,
		"logs_dir", defaultLogsDir)

	// Create directory structure
	for _, dir := range []string{configDir, defaultLogsDir} {
		log.Debug("Ensuring directory exists", "path", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error("Failed to create directory", err, "path", dir)
			return nil, err
		}
	}

	config, err := initializeConfig(providedPath, defaultConfigPath, configDir, log)
	if err != nil {
		return nil, err
	}

	config.configDir = configDir
	config.applyEnvOverrides()
	config.fillPaths()

	if err := config.Validate(); err != nil {
		log.Error("Invalid configuration", err)
		return nil, err
	}

	log.Info("Configuration loaded",
		"ee_log_path", config.eeLogPath,
		"state_path", config.statePath,
		"journal_path", config.journalPath,
		"has_cookie", config.cookie != "")

	return config, nil
}

// fillPaths derives unset state and journal paths from the config directory.
func (c *Config) fillPaths() {
	if c.configDir == "" {
		return
	}
	if c.statePath == "" {
		c.statePath = filepath.Join(c.configDir, stateFileName)
	}
	if c.journalPath == "" {
		c.journalPath = filepath.Join(c.configDir, journalFileName)
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []string

	if u, err := url.Parse(c.apiURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api_url must be an http(s) URL, got %q", c.apiURL))
	}
	if c.platform == "" {
		errs = append(errs, "platform must not be empty")
	}
	if c.mutationDelay < 0 {
		errs = append(errs, "mutation_delay must not be negative")
	}
	if c.requestsPerSecond <= 0 {
		errs = append(errs, "requests_per_second must be positive")
	}
	if c.journalRetention < 0 {
		errs = append(errs, "journal_retention must not be negative")
	}
	if err := c.markers.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
