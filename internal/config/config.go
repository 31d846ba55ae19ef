// Package config provides configuration management for csvdesk.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/csvdesk/csvdesk/internal/constants"
	"github.com/csvdesk/csvdesk/internal/pathutil"
)

// Config is the full client configuration.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\csvdesk\config
//   - Unix: ~/.config/csvdesk/config
//
// INI format:
//
//	[server]
//	base_url = http://localhost:8000
//
//	[proxy]
//	mode = no-proxy        ; no-proxy | system | basic | ntlm
//	host = proxy.corp
//	port = 8080
//	user = jdoe
//	no_proxy = localhost,10.0.0.0/8
//	warmup = false
//
//	[notifications]
//	enabled = true
//	desktop = false
//
//	[downloads]
//	directory = ~/Downloads
//
//	[logging]
//	file = ~/.config/csvdesk/logs/csvdesk.log
type Config struct {
	// APIBaseURL is the scheme+host prefix for every REST call.
	APIBaseURL string

	// Proxy settings
	ProxyMode     string // "no-proxy", "ntlm", "basic", "system"
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string // read from file or env, never written back
	NoProxy       string // Comma-separated list of hosts to bypass proxy
	ProxyWarmup   bool

	Notifications NotificationConfig

	// DownloadDir is where downloads are saved. Empty means the current directory.
	DownloadDir string

	// LogFile enables rotating file logging when non-empty.
	LogFile string
}

// NotificationConfig controls the notification sink.
type NotificationConfig struct {
	// Enabled turns every notification off when false (log output still happens).
	Enabled bool

	// Desktop additionally raises OS desktop notifications.
	Desktop bool
}

// Validation errors
var (
	ErrMissingBaseURL   = errors.New("base_url is required")
	ErrInvalidBaseURL   = errors.New("base_url must be an absolute http(s) URL")
	ErrInvalidProxyMode = errors.New("proxy mode must be one of no-proxy, system, basic, ntlm")
	ErrMissingProxyHost = errors.New("proxy host is required for basic and ntlm modes")
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		APIBaseURL: constants.DefaultServerURL,
		ProxyMode:  "no-proxy",
		Notifications: NotificationConfig{
			Enabled: true,
			Desktop: false,
		},
	}
}

// DefaultPath returns the default path for the config file.
func DefaultPath() (string, error) {
	dir, err := Directory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// Directory returns the csvdesk configuration directory.
// - Windows: %USERPROFILE%\.config\csvdesk
// - Unix: ~/.config/csvdesk
func Directory() (string, error) {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		return filepath.Join(userProfile, ".config", "csvdesk"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "csvdesk"), nil
}

// Load loads configuration from an INI file.
// If the file doesn't exist, returns a config with default values and no error.
// If the file exists but is invalid, returns an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil // Return defaults if we can't determine path
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	server := iniFile.Section("server")
	cfg.APIBaseURL = server.Key("base_url").MustString(cfg.APIBaseURL)

	proxy := iniFile.Section("proxy")
	cfg.ProxyMode = proxy.Key("mode").MustString(cfg.ProxyMode)
	cfg.ProxyHost = proxy.Key("host").String()
	cfg.ProxyPort = proxy.Key("port").MustInt(0)
	cfg.ProxyUser = proxy.Key("user").String()
	cfg.ProxyPassword = proxy.Key("password").String()
	cfg.NoProxy = proxy.Key("no_proxy").String()
	cfg.ProxyWarmup = proxy.Key("warmup").MustBool(false)

	notify := iniFile.Section("notifications")
	cfg.Notifications.Enabled = notify.Key("enabled").MustBool(true)
	cfg.Notifications.Desktop = notify.Key("desktop").MustBool(false)

	cfg.DownloadDir = pathutil.ExpandHome(iniFile.Section("downloads").Key("directory").String())
	cfg.LogFile = pathutil.ExpandHome(iniFile.Section("logging").Key("file").String())

	return cfg, nil
}

// Save writes the configuration to an INI file.
// Creates parent directories if they don't exist. The proxy password is never persisted.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	server, err := iniFile.NewSection("server")
	if err != nil {
		return fmt.Errorf("failed to create server section: %w", err)
	}
	server.Key("base_url").SetValue(cfg.APIBaseURL)

	proxy, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	proxy.Key("mode").SetValue(cfg.ProxyMode)
	proxy.Key("host").SetValue(cfg.ProxyHost)
	proxy.Key("port").SetValue(fmt.Sprintf("%d", cfg.ProxyPort))
	proxy.Key("user").SetValue(cfg.ProxyUser)
	proxy.Key("no_proxy").SetValue(cfg.NoProxy)
	proxy.Key("warmup").SetValue(fmt.Sprintf("%t", cfg.ProxyWarmup))

	notify, err := iniFile.NewSection("notifications")
	if err != nil {
		return fmt.Errorf("failed to create notifications section: %w", err)
	}
	notify.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.Notifications.Enabled))
	notify.Key("desktop").SetValue(fmt.Sprintf("%t", cfg.Notifications.Desktop))

	downloads, err := iniFile.NewSection("downloads")
	if err != nil {
		return fmt.Errorf("failed to create downloads section: %w", err)
	}
	downloads.Key("directory").SetValue(cfg.DownloadDir)

	logging, err := iniFile.NewSection("logging")
	if err != nil {
		return fmt.Errorf("failed to create logging section: %w", err)
	}
	logging.Key("file").SetValue(cfg.LogFile)

	// Temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is usable for API calls.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	switch strings.ToLower(cfg.ProxyMode) {
	case "", "no-proxy", "system":
	case "basic", "ntlm":
		if strings.TrimSpace(cfg.ProxyHost) == "" {
			return ErrMissingProxyHost
		}
	default:
		return ErrInvalidProxyMode
	}

	return nil
}

// ApplyEnv overrides fields from environment variables.
// CSVDESK_API_URL replaces the base URL; CSVDESK_PROXY_PASSWORD supplies the proxy password.
func (cfg *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("CSVDESK_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CSVDESK_PROXY_PASSWORD"); v != "" {
		cfg.ProxyPassword = v
	}
}
