package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/csvdesk/csvdesk/internal/api"
	"github.com/csvdesk/csvdesk/internal/diskspace"
	"github.com/csvdesk/csvdesk/internal/listing"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/pathutil"
	"github.com/csvdesk/csvdesk/internal/progress"
)

// downloadObserver shows an mpb bar per download.
type downloadObserver struct {
	ui *progress.DownloadUI
}

func (o downloadObserver) Begin(id, remoteName, localPath string, size int64) listing.DownloadTracker {
	return o.ui.AddFileBar(id, remoteName, localPath, size)
}

// executeFileDownload - common download logic for both files download and the download shortcut
func executeFileDownload(ctx context.Context, ids []string, name, outputDir string, svc listing.FileService, sink notify.Sink, out io.Writer) error {
	if len(ids) == 0 {
		return fmt.Errorf("at least one file ID is required")
	}
	outputDir, err := pathutil.Resolve(outputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	GetLogger().Debug().
		Int("count", len(ids)).
		Str("outdir", outputDir).
		Msg("Starting file download")

	ui := progress.NewDownloadUI()
	lc := listing.New(listing.Options{
		Service:     svc,
		Sink:        sink,
		DownloadDir: outputDir,
		Observer:    downloadObserver{ui: ui},
		Logger:      GetLogger(),
	})

	var failed []error
	var failedIDs []string
	for _, id := range ids {
		if _, err := lc.Download(ctx, id, name); err != nil {
			failed = append(failed, err)
			failedIDs = append(failedIDs, id)
		}
	}
	ui.Wait()

	for i, err := range failed {
		if hint := failureHint(err); hint != "" {
			fmt.Fprintf(out, "✗ %s: %s\n", failedIDs[i], hint)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d downloads failed", len(failed), len(ids))
	}
	return nil
}

// failureHint explains the failures a user can act on; other errors get "".
func failureHint(err error) string {
	switch {
	case api.IsNotFound(err):
		return "no file with this ID on the server (see 'csvdesk ls')"
	case diskspace.IsInsufficientSpaceError(err):
		return "not enough free disk space; pick another directory with --outdir"
	}
	return ""
}
