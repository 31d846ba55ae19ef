// Package cli provides the command-line interface for csvdesk.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/csvdesk/csvdesk/internal/config"
	"github.com/csvdesk/csvdesk/internal/logging"
	"github.com/csvdesk/csvdesk/internal/version"
)

var (
	// Global flags
	cfgFile    string
	apiBaseURL string
	logFile    string
	verbose    bool
	debug      bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command for CLI mode.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csvdesk",
		Short: "csvdesk - browse, upload and download files on a CSV file service",
		Long: `csvdesk ` + version.Version + ` - Built: ` + version.BuildTime + `
Client for a CSV file-upload service.

Interactive mode:
  csvdesk browse      paginated, searchable file table with upload,
                      download and delete

Scripted mode:
  csvdesk files ...   list, upload, download and delete from the shell`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logging.Options{
				Mode:    logging.ModeCLI,
				LogFile: resolveLogFile(),
			})
			logging.SetVerbose(verbose || debug)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "Service base URL (overrides config and CSVDESK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file (rotated)")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = config.DefaultLogFile()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for csvdesk.

QUICK TEST (current session only):
  source <(csvdesk completion bash)
  source <(csvdesk completion zsh)
  csvdesk completion fish | source`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell %q", args[0])
			}
		},
	}
	rootCmd.AddCommand(completionCmd)

	// Disable default completion command (we're adding our own above)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Loop so repeated Ctrl+C presses don't hit a closed handler.
	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := executeCommand(rootContext, rootCmd)

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// executeCommand runs rootCmd and closes the log file afterwards. cobra skips
// PersistentPostRun when RunE fails, so the close cannot live there.
func executeCommand(ctx context.Context, rootCmd *cobra.Command) error {
	defer closeLogger()
	return rootCmd.ExecuteContext(ctx)
}

func closeLogger() {
	if logger == nil {
		return
	}
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
	logger = nil
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newConfigCmd())

	// Add shortcuts for convenience
	AddShortcuts(rootCmd)
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// resolveLogFile picks the log file from --log-file, then the config file.
func resolveLogFile() string {
	path := logFile
	if path == "" {
		cfgPath, err := configPath()
		if err != nil {
			return ""
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return ""
		}
		path = cfg.LogFile
	}
	if path == "" {
		return ""
	}
	if err := config.EnsureLogDirectory(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return ""
	}
	return path
}
