package cli

import (
	"github.com/spf13/cobra"
)

// AddShortcuts adds shortcut commands to the root command.
func AddShortcuts(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newUploadShortcut())
	rootCmd.AddCommand(newDownloadShortcut())
	rootCmd.AddCommand(newLsShortcut())
}

// newUploadShortcut creates the 'upload' shortcut command.
// Shortcut for: files upload
func newUploadShortcut() *cobra.Command {
	cmd := newFilesUploadCmd()
	cmd.Short = "Upload a CSV file (shortcut for 'files upload')"
	cmd.Long = `Shortcut for uploading a CSV file.

Equivalent to: csvdesk files upload <file.csv>

Examples:
  csvdesk upload data.csv`
	return cmd
}

// newDownloadShortcut creates the 'download' shortcut command.
// Shortcut for: files download
func newDownloadShortcut() *cobra.Command {
	cmd := newFilesDownloadCmd()
	cmd.Short = "Download files (shortcut for 'files download')"
	cmd.Long = `Shortcut for downloading files.

Equivalent to: csvdesk files download <file-id> [file-id...]

Examples:
  csvdesk download 3f0c...
  csvdesk download 3f0c... --outdir ./exports`
	return cmd
}

// newLsShortcut creates the 'ls' shortcut command.
// Shortcut for: files list
func newLsShortcut() *cobra.Command {
	cmd := newFilesListCmd()
	cmd.Use = "ls"
	cmd.Short = "List files (shortcut for 'files list')"
	cmd.Long = `Shortcut for listing files.

Equivalent to: csvdesk files list

Examples:
  csvdesk ls
  csvdesk ls --search sales --page 2`
	return cmd
}
