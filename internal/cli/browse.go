package cli

import (
	"github.com/spf13/cobra"

	"github.com/csvdesk/csvdesk/internal/api"
	"github.com/csvdesk/csvdesk/internal/logging"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/tui"
)

// newBrowseCmd creates the 'browse' command.
func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse files interactively",
		Long: `Open the interactive file browser.

Keys:
  ←/→ or h/l   previous / next page
  ↑/↓ or k/j   select a row
  /            search by filename
  d            download the selected file
  x            delete the selected file (asks y/n)
  u            upload a CSV file (type its path, Enter to send)
  r            refresh
  ?            more help
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Console logging would corrupt the full-screen UI.
			tuiLogger := logging.NewLogger(logging.Options{
				Mode:    logging.ModeTUI,
				LogFile: resolveLogFile(),
			})
			defer tuiLogger.Close()

			client, err := api.NewClient(cfg, tuiLogger)
			if err != nil {
				return err
			}

			return tui.Run(GetContext(), tui.RunOptions{
				Service: client,
				Notifications: &notify.Config{
					Enabled: cfg.Notifications.Enabled,
					Desktop: cfg.Notifications.Desktop,
				},
				DownloadDir: cfg.DownloadDir,
				Title:       "csvdesk · " + client.BaseURL(),
				Logger:      tuiLogger,
			})
		},
	}

	return cmd
}
