package config

import (
	"time"

	"wfm-sync/pkg/logger"
)

const (
	DefaultAPIURL            = "https://api.warframe.market"
	DefaultPlatform          = "pc"
	DefaultMutationDelay     = 500 * time.Millisecond
	DefaultRequestsPerSecond = 3
	DefaultJournalRetention  = 30 * 24 * time.Hour

	appDirName      = "wfm-sync"
	configFileName  = "config.json"
	stateFileName   = "sync_state.json"
	journalFileName = "sync.db"
)

// Duration decodes from strings such as "500ms" in both JSON and TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// fileConfig is the on-disk shape of Config.
type fileConfig struct {
	EELogPath         string   `json:"ee_log_path" toml:"ee_log_path"`
	StatePath         string   `json:"state_path" toml:"state_path"`
	JournalPath       string   `json:"journal_path" toml:"journal_path"`
	JournalRetention  Duration `json:"journal_retention" toml:"journal_retention"`
	APIURL            string   `json:"api_url" toml:"api_url"`
	Platform          string   `json:"platform" toml:"platform"`
	Crossplay         bool     `json:"crossplay" toml:"crossplay"`
	Cookie            string   `json:"cookie" toml:"cookie"`
	MutationDelay     Duration `json:"mutation_delay" toml:"mutation_delay"`
	RequestsPerSecond float64  `json:"requests_per_second" toml:"requests_per_second"`
	Markers           Markers  `json:"markers" toml:"markers"`
	NotifyCommand     string   `json:"notify_command" toml:"notify_command"`
	DesktopNotify     bool     `json:"desktop_notify" toml:"desktop_notify"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		JournalRetention:  Duration{DefaultJournalRetention},
		APIURL:            DefaultAPIURL,
		Platform:          DefaultPlatform,
		Crossplay:         true,
		MutationDelay:     Duration{DefaultMutationDelay},
		RequestsPerSecond: DefaultRequestsPerSecond,
		Markers:           DefaultMarkers(),
	}
}

// DefaultConfig creates a default configuration rooted at configDir.
func DefaultConfig(configDir string, log *logger.Logger) *Config {
	log.Debug("Creating default configuration", "config_dir", configDir)

	config := New(log)
	config.configDir = configDir
	config.fillPaths()

	log.Info("Created default configuration",
		"state_path", config.statePath,
		"journal_path", config.journalPath,
		"api_url", config.apiURL)

	return config
}

func (c *Config) apply(fc fileConfig) {
	c.eeLogPath = fc.EELogPath
	c.statePath = fc.StatePath
	c.journalPath = fc.JournalPath
	c.journalRetention = fc.JournalRetention.Duration
	c.apiURL = fc.APIURL
	c.platform = fc.Platform
	c.crossplay = fc.Crossplay
	c.cookie = fc.Cookie
	c.mutationDelay = fc.MutationDelay.Duration
	c.requestsPerSecond = fc.RequestsPerSecond
	c.markers = fc.Markers.withDefaults()
	c.notifyCommand = fc.NotifyCommand
	c.desktopNotify = fc.DesktopNotify
}

// toFile is the inverse of apply, used when writing the default config.
func (c *Config) toFile() fileConfig {
	return fileConfig{
		EELogPath:         c.eeLogPath,
		StatePath:         c.statePath,
		JournalPath:       c.journalPath,
		JournalRetention:  Duration{c.journalRetention},
		APIURL:            c.apiURL,
		Platform:          c.platform,
		Crossplay:         c.crossplay,
		MutationDelay:     Duration{c.mutationDelay},
		RequestsPerSecond: c.requestsPerSecond,
		Markers:           c.markers,
		NotifyCommand:     c.notifyCommand,
		DesktopNotify:     c.desktopNotify,
	}
}
