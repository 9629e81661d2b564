package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName        = "srt2vtt"
	configFileName = "config.toml"
)

// DefaultConfigDirFor returns the per-user configuration directory for goos.
func DefaultConfigDirFor(goos, homeDir, xdgConfigHome, appData string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		if xdgConfigHome != "" {
			return filepath.Join(xdgConfigHome, appName), nil
		}
		return filepath.Join(homeDir, ".config", appName), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appName), nil
	case "windows":
		if appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appName), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}

// ResolveConfigPath returns override when set, otherwise the default config
// file location for the running OS.
func ResolveConfigPath(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	dir, err := DefaultConfigDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_CONFIG_HOME"), os.Getenv("APPDATA"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
