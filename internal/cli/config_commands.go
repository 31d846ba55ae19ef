package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/csvdesk/csvdesk/internal/api"
	"github.com/csvdesk/csvdesk/internal/config"
	"github.com/csvdesk/csvdesk/internal/constants"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage csvdesk configuration",
		Long: `Configuration management commands for csvdesk.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  check - Check the service is reachable
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigCheckCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for csvdesk.

The configuration will be saved to ~/.config/csvdesk/config

Use --force to overwrite existing configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			return runConfigInit(bufio.NewReader(os.Stdin), cmd.OutOrStdout(), path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(reader *bufio.Reader, out io.Writer, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
			fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
			return nil
		}
	}

	fmt.Fprintln(out, "csvdesk Configuration Setup")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out)

	cfg := config.New()
	cfg.APIBaseURL = promptString(reader, out, "API Base URL", constants.DefaultServerURL)

	fmt.Fprintln(out)
	useProxy, err := promptYesNo(reader, out, "Configure proxy?")
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	if useProxy {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Proxy modes: no-proxy, system, basic, ntlm")
		cfg.ProxyMode = promptString(reader, out, "Proxy mode", "system")
		if cfg.ProxyMode == "basic" || cfg.ProxyMode == "ntlm" {
			cfg.ProxyHost = promptString(reader, out, "Proxy host", "")
			cfg.ProxyPort = 8080
			if v, err := strconv.Atoi(promptString(reader, out, "Proxy port", "8080")); err == nil && v > 0 {
				cfg.ProxyPort = v
			}
			cfg.ProxyUser = promptString(reader, out, "Proxy user", "")
		}
	}

	fmt.Fprintln(out)
	cfg.DownloadDir = promptString(reader, out, "Download directory (empty for current directory)", "")
	cfg.Notifications.Desktop, err = promptYesNo(reader, out, "Desktop notifications?")
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}
	GetLogger().Info().Str("path", path).Msg("Configuration saved")

	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Configuration saved to: %s\n", path)
	if useProxy && (cfg.ProxyMode == "basic" || cfg.ProxyMode == "ntlm") {
		fmt.Fprintln(out, "The proxy password is not stored; set CSVDESK_PROXY_PASSWORD.")
	}
	fmt.Fprintln(out, "Check your configuration with: csvdesk config check")

	return nil
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/csvdesk/config)
  2. Environment variables (CSVDESK_API_URL, CSVDESK_PROXY_PASSWORD)
  3. Command-line flags (--api-url)

Priority: flags > environment > config file > defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ApplyEnv()
			if apiBaseURL != "" {
				cfg.APIBaseURL = apiBaseURL
			}
			showConfig(cmd.OutOrStdout(), cfg, path)
			return nil
		},
	}

	return cmd
}

func showConfig(out io.Writer, cfg *config.Config, path string) {
	fmt.Fprintln(out, "Current Configuration")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Server:")
	fmt.Fprintf(out, "  API Base URL: %s\n", cfg.APIBaseURL)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Proxy Settings:")
	fmt.Fprintf(out, "  Proxy Mode: %s\n", cfg.ProxyMode)
	if cfg.ProxyHost != "" {
		fmt.Fprintf(out, "  Proxy Host: %s\n", cfg.ProxyHost)
		fmt.Fprintf(out, "  Proxy Port: %d\n", cfg.ProxyPort)
	}
	if cfg.ProxyUser != "" {
		fmt.Fprintf(out, "  Proxy User: %s\n", cfg.ProxyUser)
	}
	if cfg.ProxyPassword != "" {
		fmt.Fprintln(out, "  Proxy Password: <set>")
	}
	if cfg.NoProxy != "" {
		fmt.Fprintf(out, "  No Proxy:   %s\n", cfg.NoProxy)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Notifications:")
	fmt.Fprintf(out, "  Enabled: %t\n", cfg.Notifications.Enabled)
	fmt.Fprintf(out, "  Desktop: %t\n", cfg.Notifications.Desktop)
	fmt.Fprintln(out)

	downloadDir := cfg.DownloadDir
	if downloadDir == "" {
		downloadDir = "(current directory)"
	}
	fmt.Fprintf(out, "Download directory: %s\n", downloadDir)
	if cfg.LogFile != "" {
		fmt.Fprintf(out, "Log file:           %s\n", cfg.LogFile)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Configuration file: %s\n", path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "  (file does not exist - using defaults)")
	}
}

// newConfigCheckCmd creates the 'config check' command.
func newConfigCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the service is reachable",
		Long: `Call the service health endpoint with the current configuration.

Use this to verify the base URL and proxy settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := getAPIClient()
			if err != nil {
				return err
			}
			return runConfigCheck(GetContext(), client, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runConfigCheck(ctx context.Context, client *api.Client, out io.Writer) error {
	logger := GetLogger()

	fmt.Fprintf(out, "API URL: %s\n", client.BaseURL())
	fmt.Fprintln(out, "Checking connection...")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Connection check failed")
		fmt.Fprintln(out, "✗ Connection FAILED")
		fmt.Fprintf(out, "  Error: %v\n", err)
		return fmt.Errorf("connection check failed")
	}

	logger.Info().Str("status", health.Status).Msg("Connection check successful")
	fmt.Fprintln(out, "✓ Connection SUCCESSFUL")
	if health.Status != "" {
		fmt.Fprintf(out, "  Server status: %s\n", strings.TrimSpace(health.Status))
	}
	return nil
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path, err := configPath()
			if err != nil {
				return err
			}
			if cfgFile == "" {
				fmt.Fprintln(out, "Default configuration path:")
			} else {
				fmt.Fprintln(out, "Configuration path (from --config flag):")
			}
			fmt.Fprintf(out, "  %s\n", path)
			fmt.Fprintln(out)

			if info, err := os.Stat(path); err == nil {
				fmt.Fprintln(out, "Status: ✓ File exists")
				fmt.Fprintf(out, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintln(out, "Status: File does not exist")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Create a configuration file with: csvdesk config init")
			}
			return nil
		},
	}

	return cmd
}
