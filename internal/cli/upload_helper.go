package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/csvdesk/csvdesk/internal/listing"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/progress"
	"github.com/csvdesk/csvdesk/internal/upload"
)

// uploadService is what an upload needs: the multipart call plus the
// listing it refreshes afterwards.
type uploadService interface {
	listing.FileService
	upload.Uploader
}

// executeFileUpload - common upload logic for both files upload and the upload shortcut
func executeFileUpload(ctx context.Context, path, idField string, svc uploadService, sink notify.Sink, out io.Writer) error {
	logger := GetLogger()

	sel, err := upload.SelectionFromPath(path)
	if err != nil {
		return err
	}
	sel.IDField = idField

	var indicator progress.Indicator = progress.NoOp{}
	var bar *progress.BarIndicator
	if upload.Validate(sel) == nil {
		bar = progress.NewBarIndicator("Uploading " + sel.Name)
		indicator = bar
	}

	lc := listing.New(listing.Options{Service: svc, Sink: sink, Logger: logger})
	uc := upload.New(upload.Options{
		Service:   svc,
		Sink:      sink,
		Indicator: indicator,
		Refresher: lc,
		Logger:    logger,
	})

	result, err := uc.Submit(ctx, sel)
	if bar != nil {
		if err != nil {
			bar.Abandon()
		} else {
			bar.Finish()
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Uploaded %s (%s)\n", sel.Name, humanize.IBytes(uint64(sel.Size)))
	if result.ID != "" {
		fmt.Fprintf(out, "  ID:      %s\n", result.ID)
		fmt.Fprintf(out, "  Status:  %s\n", result.Status)
		fmt.Fprintf(out, "  Records: %s\n", humanize.Comma(int64(result.RecordsCount)))
	}
	fmt.Fprintf(out, "  %d files on the server\n", len(lc.Snapshot()))

	return nil
}
