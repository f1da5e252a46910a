package buildinfo

import (
	"os"
	"path/filepath"
)

// AppName is the application name used for directories and display.
const AppName = "trombinoscope"

// CacheDir returns the cache directory using XDG standard (~/.cache/trombinoscope/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ConfigDir returns the configuration directory (~/.config/trombinoscope/).
// The employee file and config.toml live here by default.
func ConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}
