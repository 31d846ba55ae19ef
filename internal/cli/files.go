package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/csvdesk/csvdesk/internal/listing"
	"github.com/csvdesk/csvdesk/internal/models"
	"github.com/csvdesk/csvdesk/internal/notify"
)

// newFilesCmd creates the 'files' command group.
func newFilesCmd() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "File operations (list, upload, download, delete)",
		Long:  `Commands for managing CSV files on the service.`,
	}

	filesCmd.AddCommand(newFilesListCmd())
	filesCmd.AddCommand(newFilesUploadCmd())
	filesCmd.AddCommand(newFilesDownloadCmd())
	filesCmd.AddCommand(newFilesDeleteCmd())

	return filesCmd
}

// listOptions are the flags of 'files list'.
type listOptions struct {
	Search string
	Page   int
	Format string
	Wide   bool
	All    bool
}

// newFilesListCmd creates the 'files list' command.
func newFilesListCmd() *cobra.Command {
	opts := listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded files, five per page",
		Long: `List the files on the service, filtered by filename and paginated
five per page.

Examples:
  # First page
  csvdesk files list

  # Files whose name contains "sales" (case-insensitive), second page
  csvdesk files list --search sales --page 2

  # Every matching file as CSV, e.g. for a spreadsheet
  csvdesk files list --all --output csv > files.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}
			return executeFilesList(GetContext(), client, newNotifier(cfg), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Only files whose name contains this text")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page number")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", formatTable, "Output format: table, csv or json")
	cmd.Flags().BoolVar(&opts.Wide, "wide", false, "Include the field names of each file")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Print every matching file instead of one page")

	return cmd
}

func executeFilesList(ctx context.Context, svc listing.FileService, sink notify.Sink, opts listOptions, out io.Writer) error {
	lc := listing.New(listing.Options{
		Service: svc,
		Sink:    sink,
		Logger:  GetLogger(),
	})

	if err := lc.Refresh(ctx); err != nil {
		return err
	}
	lc.SetSearchQuery(opts.Search)

	if opts.All {
		return writeRecords(out, opts.Format, listing.Filter(lc.Snapshot(), opts.Search), opts.Wide)
	}

	if opts.Page != 1 && !lc.GoToPage(opts.Page) {
		return fmt.Errorf("page %d out of range (1-%d)", opts.Page, lc.View().Last)
	}

	page := lc.View()
	records := make([]models.FileRecord, 0, len(page.Rows))
	for _, r := range page.Rows {
		records = append(records, r.Record)
	}

	if err := writeRecords(out, opts.Format, records, opts.Wide); err != nil {
		return err
	}

	if opts.Format == formatTable {
		footer := page.Info()
		if page.Query != "" {
			footer += fmt.Sprintf(" (%s of %s files match %q)",
				humanize.Comma(int64(page.Filtered)), humanize.Comma(int64(page.Total)), page.Query)
		} else {
			footer += fmt.Sprintf(" (%s files)", humanize.Comma(int64(page.Total)))
		}
		fmt.Fprintln(out, footer)
	}
	return nil
}

// newFilesUploadCmd creates the 'files upload' command.
func newFilesUploadCmd() *cobra.Command {
	var idField string

	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a CSV file",
		Long: `Upload one CSV file (at most 50 MiB) with a progress bar.

The name must end in .csv (lowercase). The file is streamed, never
loaded into memory, and sent exactly once.

Examples:
  csvdesk files upload data.csv

  # Start a new record at every "id" row
  csvdesk files upload data.csv --id-field id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}
			return executeFileUpload(GetContext(), args[0], idField, client, newNotifier(cfg), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&idField, "id-field", "", "Field that starts a new record (server default: a repeated field)")

	return cmd
}

// newFilesDownloadCmd creates the 'files download' command.
func newFilesDownloadCmd() *cobra.Command {
	var outputDir string
	var name string

	cmd := &cobra.Command{
		Use:   "download <file-id> [file-id...]",
		Short: "Download files by ID",
		Long: `Download one or more files.

Each file is saved under its original name in the output directory. An
existing file is never overwritten; "name (1).csv" is used instead.

Examples:
  # Download to the configured download directory (or the current one)
  csvdesk files download 3f0c...

  # Choose directory and name
  csvdesk files download 3f0c... --outdir ./exports --name latest.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single file ID")
			}
			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.DownloadDir
			}
			return executeFileDownload(GetContext(), args, name, outputDir, client, newNotifier(cfg), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputDir, "outdir", "o", "", "Output directory (default: configured download directory or .)")
	cmd.Flags().StringVar(&name, "name", "", "Save under this filename instead of the original")

	return cmd
}

// newFilesDeleteCmd creates the 'files delete' command.
func newFilesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <file-id> [file-id...]",
		Short: "Delete files by ID",
		Long: `Delete files from the service. Each deletion asks "Are you sure?"
unless --yes is given.

Examples:
  csvdesk files delete 3f0c...
  csvdesk files delete 3f0c... 9a12... --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}
			return executeFileDelete(GetContext(), args, client, newNotifier(cfg), newStdinConfirmer(yes), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func executeFileDelete(ctx context.Context, ids []string, svc listing.FileService, sink notify.Sink, confirmer listing.Confirmer, out io.Writer) error {
	lc := listing.New(listing.Options{
		Service:   svc,
		Sink:      sink,
		Confirmer: confirmer,
		Logger:    GetLogger(),
	})

	var failed int
	for _, id := range ids {
		deleted, err := lc.Delete(ctx, id)
		switch {
		case err != nil:
			failed++
			if hint := failureHint(err); hint != "" {
				fmt.Fprintf(out, "✗ %s: %s\n", id, hint)
			} else {
				fmt.Fprintf(out, "✗ %s: %v\n", id, err)
			}
		case deleted:
			fmt.Fprintf(out, "✓ Deleted %s\n", id)
		default:
			fmt.Fprintf(out, "Skipped %s\n", id)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(ids))
	}
	return nil
}
