package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"wfm-sync/pkg/logger"
)

// LoadFromFile loads the configuration from a JSON file, or a TOML file when
// the path ends in ".toml". Missing keys keep their defaults.
func (c *Config) LoadFromFile(path string, log *logger.Logger) error {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read config file", err, "path", path)
		return err
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	temp := defaultFileConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &temp); err != nil {
			log.Error("Failed to parse config TOML", err)
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, &temp); err != nil {
		log.Error("Failed to parse config JSON", err)
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	log.Debug("Config parsed successfully")

	c.apply(temp)
	return nil
}

// loadConfigFromPath loads the configuration from a file.
func loadConfigFromPath(path string, log *logger.Logger) (*Config, error) {
	config := New(log)
	if err := config.LoadFromFile(path, log); err != nil {
		return nil, err
	}
	return config, nil
}

// writeDefault writes c to path as indented JSON. The cookie is never written.
func (c *Config) writeDefault(path string) error {
	data, err := json.MarshalIndent(c.toFile(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}
