package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// LogDirectory returns the log directory used when file logging is enabled
// without an explicit path.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\csvdesk\logs
//   - Unix: ~/.config/csvdesk/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "csvdesk-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "csvdesk", "logs")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "csvdesk-logs")
		}
		return filepath.Join(homeDir, ".config", "csvdesk", "logs")
	}
	return filepath.Join(configDir, "csvdesk", "logs")
}

// DefaultLogFile is the log file path used by --log-file without a value.
func DefaultLogFile() string {
	return filepath.Join(LogDirectory(), "csvdesk.log")
}

// EnsureLogDirectory creates the directory for path with owner-only permissions.
func EnsureLogDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0700)
}
