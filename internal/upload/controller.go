// Package upload validates and sends a single CSV file to the service,
// reporting progress and refreshing the listing afterwards.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/csvdesk/csvdesk/internal/api"
	"github.com/csvdesk/csvdesk/internal/constants"
	"github.com/csvdesk/csvdesk/internal/events"
	"github.com/csvdesk/csvdesk/internal/logging"
	"github.com/csvdesk/csvdesk/internal/models"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/progress"
)

// User-facing messages.
const (
	MsgNoFile     = "Please select a file"
	MsgNotCSV     = "Only CSV files allowed"
	MsgTooLarge   = "File too large (max 50MB)"
	MsgSuccess    = "File uploaded successfully!"
	MsgInProgress = "Upload already in progress"
	failedPrefix  = "Upload failed: "
)

// ErrUploadInProgress is returned when Submit is called while another
// submission has not finished.
var ErrUploadInProgress = errors.New("upload already in progress")

// ValidationError is a selection rejected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Uploader sends the multipart request.
type Uploader interface {
	UploadFile(ctx context.Context, ur api.UploadRequest) (*models.UploadResult, error)
}

// Clearer resets the file selection control.
type Clearer interface {
	ClearSelection()
}

// ClearerFunc adapts a function to Clearer.
type ClearerFunc func()

// ClearSelection calls f.
func (f ClearerFunc) ClearSelection() { f() }

// Refresher reloads the listing. *listing.Controller satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// fileIndicator is an Indicator that wants to know what it is tracking.
type fileIndicator interface {
	SetFile(name string, size int64)
}

// Options configures a Controller.
type Options struct {
	Service   Uploader
	Sink      notify.Sink
	Indicator progress.Indicator
	Clearer   Clearer
	Refresher Refresher
	Bus       *events.EventBus
	Logger    *logging.Logger
}

// Controller is the Upload Controller.
type Controller struct {
	svc       Uploader
	sink      notify.Sink
	indicator progress.Indicator
	clearer   Clearer
	refresher Refresher
	bus       *events.EventBus
	logger    *logging.Logger

	mu    sync.Mutex
	state State
}

// New creates an idle Controller.
func New(opts Options) *Controller {
	c := &Controller{
		svc:       opts.Service,
		sink:      opts.Sink,
		indicator: opts.Indicator,
		clearer:   opts.Clearer,
		refresher: opts.Refresher,
		bus:       opts.Bus,
		logger:    opts.Logger,
	}
	if c.sink == nil {
		c.sink = notify.SinkFunc(func(notify.Level, string) {})
	}
	if c.indicator == nil {
		c.indicator = progress.NoOp{}
	}
	if c.logger == nil {
		c.logger = logging.NewNopLogger()
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Validate checks sel against the upload policy without touching the network.
func Validate(sel *Selection) error {
	switch {
	case sel == nil || sel.Name == "":
		return &ValidationError{Message: MsgNoFile}
	case !strings.HasSuffix(sel.Name, constants.RequiredExtension):
		return &ValidationError{Message: MsgNotCSV}
	case sel.Size > constants.MaxUploadSize:
		return &ValidationError{Message: MsgTooLarge}
	}
	return nil
}

// Submit validates sel and, if it passes, uploads it in a single attempt.
// The controller is back in StateIdle when Submit returns.
func (c *Controller) Submit(ctx context.Context, sel *Selection) (*models.UploadResult, error) {
	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		c.sink.Notify(notify.Error, MsgInProgress)
		return nil, ErrUploadInProgress
	}
	c.state = StateValidating
	c.mu.Unlock()

	name := ""
	if sel != nil {
		name = sel.Name
	}
	c.publish(StateIdle, StateValidating, name, "")

	if err := Validate(sel); err != nil {
		c.logger.Debug().Str("file", name).Str("reason", err.Error()).Msg("Upload rejected")
		c.sink.Notify(notify.Error, err.Error())
		c.transition(StateValidating, StateIdle, name, err.Error())
		return nil, err
	}

	contentType := c.detectContentType(sel)

	c.transition(StateValidating, StateUploading, name, "")
	c.logger.Info().Str("file", name).Int64("size", sel.Size).Str("content_type", contentType).Msg("Uploading file")

	if fi, ok := c.indicator.(fileIndicator); ok {
		fi.SetFile(name, sel.Size)
	}
	c.indicator.SetPercent(0)

	result, err := c.send(ctx, sel, contentType)
	if err != nil {
		c.logger.Error().Err(err).Str("file", name).Msg("Upload failed")
		c.transition(StateUploading, StateFailed, name, err.Error())
		c.sink.Notify(notify.Error, failedPrefix+failureDetail(err))
		c.transition(StateFailed, StateIdle, name, "")
		return nil, err
	}

	c.transition(StateUploading, StateSucceeded, name, "")
	c.sink.Notify(notify.Success, MsgSuccess)
	if c.clearer != nil {
		c.clearer.ClearSelection()
	}
	c.indicator.SetPercent(0)
	if c.refresher != nil {
		// Refresh failures are reported by the listing itself.
		_ = c.refresher.Refresh(ctx)
	}
	c.transition(StateSucceeded, StateIdle, name, "")

	return result, nil
}

func (c *Controller) send(ctx context.Context, sel *Selection, contentType string) (*models.UploadResult, error) {
	rc, err := sel.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", sel.Name, err)
	}
	defer rc.Close()

	return c.svc.UploadFile(ctx, api.UploadRequest{
		Name:        sel.Name,
		IDField:     sel.IDField,
		Body:        rc,
		ContentType: contentType,
		OnProgress: func(sent int64) {
			if pct, ok := progress.Percent(sent, sel.Size); ok {
				c.indicator.SetPercent(pct)
			}
		},
	})
}

// detectContentType sniffs the head of the file. The service only accepts
// text/csv and application/vnd.ms-excel, so anything else is sent as text/csv.
func (c *Controller) detectContentType(sel *Selection) string {
	rc, err := sel.Open()
	if err != nil {
		return constants.UploadContentType
	}
	defer rc.Close()

	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return constants.UploadContentType
	}
	if mt.Is("application/vnd.ms-excel") {
		return "application/vnd.ms-excel"
	}
	if !isText(mt) {
		c.logger.Warn().Str("file", sel.Name).Str("detected", mt.String()).Msg("File content does not look like text")
	}
	return constants.UploadContentType
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func (c *Controller) transition(from, to State, name, errMsg string) {
	c.mu.Lock()
	c.state = to
	c.mu.Unlock()
	c.publish(from, to, name, errMsg)
}

func (c *Controller) publish(from, to State, name, errMsg string) {
	if c.bus != nil {
		c.bus.PublishUploadState(from.String(), to.String(), name, errMsg)
	}
}

// failureDetail is the raw response text when the server answered, else the error.
func failureDetail(err error) string {
	if api.StatusCode(err) != 0 {
		return strings.TrimRight(api.ResponseBody(err), "\r\n")
	}
	return err.Error()
}
