package config

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"wfm-sync/pkg/logger"
)

// platformProbe gathers what the EE.log lookup needs to know about the host.
type platformProbe struct {
	goos        string
	home        func() (string, error)
	procVersion func() (string, error)
	whoami      func() (string, error)
}

func hostProbe() platformProbe {
	return platformProbe{
		goos: runtime.GOOS,
		home: os.UserHomeDir,
		procVersion: func() (string, error) {
			data, err := os.ReadFile("/proc/version")
			return string(data), err
		},
		whoami: func() (string, error) {
			out, err := exec.Command("whoami.exe").Output()
			return string(out), err
		},
	}
}

// ResolveEELogPath returns the configured EE.log path or the default
// location for this platform.
func (c *Config) ResolveEELogPath() (string, error) {
	if c.eeLogPath != "" {
		return c.eeLogPath, nil
	}
	return defaultEELogPath(hostProbe(), c.log)
}

func defaultEELogPath(p platformProbe, log *logger.Logger) (string, error) {
	home, err := p.home()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch p.goos {
	case "windows":
		return windowsEELogPath(home), nil
	case "linux":
		if version, err := p.procVersion(); err == nil && strings.Contains(strings.ToLower(version), "microsoft") {
			out, err := p.whoami()
			if err != nil {
				return "", fmt.Errorf("failed to resolve windows user under WSL: %w", err)
			}
			// whoami.exe prints DOMAIN\user
			parts := strings.Split(strings.TrimSpace(out), `\`)
			user := parts[len(parts)-1]
			log.Debug("Resolved EE.log under WSL", "windows_user", user)
			return wslEELogPath(user), nil
		}
		return protonEELogPath(home), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", p.goos)
	}
}
