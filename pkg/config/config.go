package config

import (
	"time"

	"wfm-sync/pkg/logger"
)

// Config holds the application configuration.
type Config struct {
	// Configurable via config file or WFM_* environment (private fields to enforce immutability)
	eeLogPath         string
	statePath         string
	journalPath       string
	journalRetention  time.Duration
	apiURL            string
	platform          string
	crossplay         bool
	cookie            string
	mutationDelay     time.Duration
	requestsPerSecond float64
	markers           Markers
	notifyCommand     string
	desktopNotify     bool

	// Internal fields
	configDir string
	log       *logger.Logger
}

// New creates a Config holding the built-in defaults.
func New(log *logger.Logger) *Config {
	c := &Config{log: log}
	c.apply(defaultFileConfig())
	return c
}

// GetEELogPath returns the configured EE.log path, empty when it should be
// resolved per platform.
func (c *Config) GetEELogPath() string {
	return c.eeLogPath
}

// GetStatePath returns the path of the persisted read position document.
func (c *Config) GetStatePath() string {
	return c.statePath
}

// GetJournalPath returns the path of the sqlite sync journal.
func (c *Config) GetJournalPath() string {
	return c.journalPath
}

// GetJournalRetention returns how long journal rows are kept.
func (c *Config) GetJournalRetention() time.Duration {
	return c.journalRetention
}

// GetAPIURL returns the marketplace API root.
func (c *Config) GetAPIURL() string {
	return c.apiURL
}

// GetPlatform returns the marketplace platform header value.
func (c *Config) GetPlatform() string {
	return c.platform
}

// GetCrossplay reports whether crossplay listings are requested.
func (c *Config) GetCrossplay() bool {
	return c.crossplay
}

// GetCookie returns the raw cookie header used for authenticated calls.
func (c *Config) GetCookie() string {
	return c.cookie
}

// GetMutationDelay returns the pause applied after each listing mutation.
func (c *Config) GetMutationDelay() time.Duration {
	return c.mutationDelay
}

// GetRequestsPerSecond returns the API request pacing.
func (c *Config) GetRequestsPerSecond() float64 {
	return c.requestsPerSecond
}

// GetMarkers returns the log markers used by the trade parser.
func (c *Config) GetMarkers() Markers {
	return c.markers
}

// GetNotifyCommand returns the notify command.
func (c *Config) GetNotifyCommand() string {
	return c.notifyCommand
}

// GetDesktopNotify reports whether system notification tools may be used.
func (c *Config) GetDesktopNotify() bool {
	return c.desktopNotify
}

// GetConfigDir returns the directory holding config, state and journal files.
func (c *Config) GetConfigDir() string {
	return c.configDir
}
