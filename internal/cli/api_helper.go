package cli

import (
	"fmt"

	"github.com/csvdesk/csvdesk/internal/api"
	"github.com/csvdesk/csvdesk/internal/config"
	"github.com/csvdesk/csvdesk/internal/notify"
)

// configPath returns --config or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

// loadConfig loads the config file and applies overrides.
// Priority: flags > environment > config file > defaults
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getAPIClient loads configuration and creates an API client.
// This is the standard way to get an API client in CLI commands.
func getAPIClient() (*api.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := api.NewClient(cfg, GetLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, cfg, nil
}

// newNotifier builds the CLI notification sink: log lines plus optional
// desktop notifications.
func newNotifier(cfg *config.Config) *notify.Notifier {
	return notify.NewNotifier(&notify.Config{
		Enabled: cfg.Notifications.Enabled,
		Desktop: cfg.Notifications.Desktop,
	}, nil, GetLogger())
}
