package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// applyEnvOverrides loads a .env file when present and lets WFM_* variables
// override the file values. Secrets such as the cookie normally arrive here.
func (c *Config) applyEnvOverrides() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		c.log.Warn("Failed to load .env file", "error", err.Error())
	}

	setStr(&c.eeLogPath, "WFM_EE_LOG_PATH")
	setStr(&c.statePath, "WFM_STATE_PATH")
	setStr(&c.journalPath, "WFM_JOURNAL_PATH")
	c.setDuration(&c.journalRetention, "WFM_JOURNAL_RETENTION")
	setStr(&c.apiURL, "WFM_API_URL")
	setStr(&c.platform, "WFM_PLATFORM")
	c.setBool(&c.crossplay, "WFM_CROSSPLAY")
	setStr(&c.cookie, "WFM_COOKIE")
	c.setDuration(&c.mutationDelay, "WFM_MUTATION_DELAY")
	c.setFloat64(&c.requestsPerSecond, "WFM_REQUESTS_PER_SECOND")
	setStr(&c.notifyCommand, "WFM_NOTIFY_COMMAND")
	c.setBool(&c.desktopNotify, "WFM_DESKTOP_NOTIFY")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.warnInvalidEnv(key, v, err)
			return
		}
		*dst = b
	}
}

func (c *Config) setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.warnInvalidEnv(key, v, err)
			return
		}
		*dst = f
	}
}

func (c *Config) setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			c.warnInvalidEnv(key, v, err)
			return
		}
		*dst = d
	}
}

func (c *Config) warnInvalidEnv(key, value string, err error) {
	c.log.Warn("Ignoring invalid environment value", "key", key, "value", value, "error", err.Error())
}
