// Package listing owns the client-side view of the remote file collection:
// a wholesale-replaced snapshot, a filename filter and fixed-size pagination,
// plus the download and delete actions on individual rows.
package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/csvdesk/csvdesk/internal/api"
	"github.com/csvdesk/csvdesk/internal/constants"
	"github.com/csvdesk/csvdesk/internal/diskspace"
	"github.com/csvdesk/csvdesk/internal/events"
	"github.com/csvdesk/csvdesk/internal/logging"
	"github.com/csvdesk/csvdesk/internal/models"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/util/buffers"
	"github.com/csvdesk/csvdesk/internal/util/paths"
	"github.com/csvdesk/csvdesk/internal/util/sanitize"
	"github.com/csvdesk/csvdesk/internal/validation"
)

// DeletePrompt is the question asked before deleting a file.
const DeletePrompt = "Are you sure?"

// FileService is the subset of the API the listing needs.
type FileService interface {
	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	DownloadFile(ctx context.Context, id string) (*api.Download, error)
	DeleteFile(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question without blocking the caller.
// The returned channel yields exactly one answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) <-chan bool
}

// DownloadTracker follows the bytes of one download.
type DownloadTracker interface {
	ProxyReader(r io.Reader) io.Reader
	Complete(written int64, err error)
}

// DownloadObserver starts a tracker per download (progress bars).
type DownloadObserver interface {
	Begin(id, remoteName, localPath string, size int64) DownloadTracker
}

// Renderer receives every page the controller renders.
type Renderer func(Page)

// Options configures a Controller.
type Options struct {
	Service   FileService
	Sink      notify.Sink
	Confirmer Confirmer

	// DownloadDir receives downloaded files; empty means the working directory.
	DownloadDir string

	Renderer Renderer
	Observer DownloadObserver
	Bus      *events.EventBus
	Logger   *logging.Logger
}

// Controller is the Listing Controller. It is safe for concurrent use; network
// calls run outside the lock.
type Controller struct {
	svc         FileService
	sink        notify.Sink
	confirmer   Confirmer
	downloadDir string
	renderer    Renderer
	observer    DownloadObserver
	bus         *events.EventBus
	logger      *logging.Logger

	mu       sync.Mutex
	snapshot []models.FileRecord
	page     int
	query    string
}

// New creates a Controller with an empty snapshot on page 1.
// A nil Confirmer declines every deletion.
func New(opts Options) *Controller {
	c := &Controller{
		svc:         opts.Service,
		sink:        opts.Sink,
		confirmer:   opts.Confirmer,
		downloadDir: opts.DownloadDir,
		renderer:    opts.Renderer,
		observer:    opts.Observer,
		bus:         opts.Bus,
		logger:      opts.Logger,
		page:        1,
	}
	if c.sink == nil {
		c.sink = notify.SinkFunc(func(notify.Level, string) {})
	}
	if c.confirmer == nil {
		c.confirmer = declineAll{}
	}
	if c.logger == nil {
		c.logger = logging.NewNopLogger()
	}
	return c
}

// Refresh fetches the whole collection and replaces the snapshot. On failure
// the previous snapshot is kept and the error is reported to the sink.
func (c *Controller) Refresh(ctx context.Context) error {
	files, err := c.svc.ListFiles(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Listing refresh failed")
		c.sink.Notify(notify.Error, "Failed to load files: "+errorDetail(err))
		return fmt.Errorf("refresh listing: %w", err)
	}

	c.mu.Lock()
	c.snapshot = files
	// A shrunken result set can leave the page past the end.
	if last := LastPage(len(Filter(c.snapshot, c.query)), constants.PageSize); c.page > last {
		c.page = last
	}
	c.mu.Unlock()

	c.logger.Debug().Int("files", len(files)).Msg("Listing refreshed")
	c.Render()
	return nil
}

// SetSearchQuery filters by filename and returns to page 1.
func (c *Controller) SetSearchQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.page = 1
	c.mu.Unlock()

	c.Render()
}

// NextPage advances one page. It is a no-op returning false on the last page.
func (c *Controller) NextPage() bool {
	return c.move(+1)
}

// PreviousPage goes back one page. It is a no-op returning false on page 1.
func (c *Controller) PreviousPage() bool {
	return c.move(-1)
}

func (c *Controller) move(delta int) bool {
	c.mu.Lock()
	target := c.page + delta
	if !c.inRangeLocked(target) {
		c.mu.Unlock()
		return false
	}
	c.page = target
	c.mu.Unlock()

	c.Render()
	return true
}

// GoToPage jumps to page n if it exists; otherwise nothing changes.
func (c *Controller) GoToPage(n int) bool {
	c.mu.Lock()
	if !c.inRangeLocked(n) {
		c.mu.Unlock()
		return false
	}
	c.page = n
	c.mu.Unlock()

	c.Render()
	return true
}

func (c *Controller) inRangeLocked(page int) bool {
	last := LastPage(len(Filter(c.snapshot, c.query)), constants.PageSize)
	return page >= 1 && page <= last
}

// View computes the current page without notifying the renderer.
func (c *Controller) View() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Paginate(c.snapshot, c.query, c.page, constants.PageSize)
}

// Render computes the current page and hands it to the renderer.
func (c *Controller) Render() Page {
	p := c.View()

	if c.renderer != nil {
		c.renderer(p)
	}
	if c.bus != nil {
		c.bus.Publish(&events.ListingChangedEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventListingChanged, Time: time.Now()},
			Total:     p.Total,
			Filtered:  p.Filtered,
			Page:      p.Number,
			LastPage:  p.Last,
			Query:     p.Query,
		})
	}
	return p
}

// Snapshot returns a copy of the current snapshot.
func (c *Controller) Snapshot() []models.FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileRecord(nil), c.snapshot...)
}

// Lookup finds a record in the snapshot by id.
func (c *Controller) Lookup(id string) (models.FileRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.snapshot {
		if r.ID == id {
			return r, true
		}
	}
	return models.FileRecord{}, false
}

// Download fetches the content of id and saves it under filename inside the
// download directory. An existing file is never overwritten: "name (1).csv"
// and so on are tried instead. Returns the path written.
func (c *Controller) Download(ctx context.Context, id, filename string) (string, error) {
	path, err := c.download(ctx, id, filename)
	if err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("Download failed")
		c.sink.Notify(notify.Error, "Download failed: "+errorDetail(err))
		return "", err
	}

	c.logger.Info().Str("id", id).Str("path", path).Msg("Downloaded file")
	c.sink.Notify(notify.Success, "Saved "+notify.ShortenPath(path))
	return path, nil
}

func (c *Controller) download(ctx context.Context, id, filename string) (path string, err error) {
	dl, err := c.svc.DownloadFile(ctx, id)
	if err != nil {
		return "", err
	}
	defer dl.Body.Close()

	fallback := sanitize.FileName(dl.Filename, id+constants.RequiredExtension)
	name := sanitize.FileName(filename, fallback)

	dir := c.downloadDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	target, err := validation.JoinInDirectory(dir, name)
	if err != nil {
		return "", err
	}

	if dl.Size > 0 {
		if err := diskspace.CheckAvailableSpace(target, dl.Size, constants.DiskSpaceSafetyMargin); err != nil {
			return "", err
		}
	}

	f, path, err := createUnique(target)
	if err != nil {
		return "", err
	}

	var tracker DownloadTracker
	var src io.Reader = dl.Body
	if c.observer != nil {
		tracker = c.observer.Begin(id, name, path, dl.Size)
		src = tracker.ProxyReader(src)
	}

	buf := buffers.GetCopyBuffer()
	written, copyErr := io.CopyBuffer(f, src, *buf)
	buffers.PutCopyBuffer(buf)
	closeErr := f.Close()

	if copyErr == nil {
		copyErr = closeErr
	}
	if tracker != nil {
		tracker.Complete(written, copyErr)
	}
	if copyErr != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), copyErr)
	}

	return path, nil
}

// createUnique opens a new file at target or its first free " (N)" variant.
func createUnique(target string) (*os.File, string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		path, err := paths.UniquePath(target)
		if err != nil {
			return nil, "", err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", filepath.Base(path), err)
		}
		// Another writer took the name between the check and the open.
	}
	return nil, "", fmt.Errorf("create %s: %w", filepath.Base(target), paths.ErrNoFreeName)
}

// Delete asks for confirmation and, if given, deletes id and refreshes.
// It reports whether the file was deleted. A declined confirmation issues
// no request and is not an error.
func (c *Controller) Delete(ctx context.Context, id string) (bool, error) {
	var confirmed bool
	select {
	case confirmed = <-c.confirmer.Confirm(ctx, DeletePrompt):
	case <-ctx.Done():
		return false, ctx.Err()
	}
	if !confirmed {
		c.logger.Debug().Str("id", id).Msg("Delete declined")
		return false, nil
	}

	if err := c.svc.DeleteFile(ctx, id); err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("Delete failed")
		c.sink.Notify(notify.Error, "Delete failed")
		return false, fmt.Errorf("delete %s: %w", id, err)
	}

	c.sink.Notify(notify.Success, "File deleted")
	// A failed refresh is already reported to the sink; the delete itself succeeded.
	_ = c.Refresh(ctx)
	return true, nil
}

// errorDetail is the server's response text when there is one. Only the line
// break a JSON encoder appends is dropped; the text is otherwise as sent.
func errorDetail(err error) string {
	if body := strings.TrimRight(api.ResponseBody(err), "\r\n"); body != "" {
		return body
	}
	return err.Error()
}

type declineAll struct{}

func (declineAll) Confirm(context.Context, string) <-chan bool {
	ch := make(chan bool, 1)
	ch <- false
	return ch
}
