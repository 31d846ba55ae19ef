package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/csvdesk/csvdesk/internal/constants"
	"github.com/csvdesk/csvdesk/internal/events"
)

// BarIndicator renders upload percentage as a progress bar on stderr.
type BarIndicator struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewBarIndicator creates a 100-step bar with the given description.
func NewBarIndicator(description string) *BarIndicator {
	return newBarIndicator(os.Stderr, description)
}

func newBarIndicator(w io.Writer, description string) *BarIndicator {
	return &BarIndicator{
		out: w,
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(50),
			progressbar.OptionThrottle(constants.ProgressRefreshRate),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(w, "\n")
			}),
			progressbar.OptionSetRenderBlankState(true),
		),
	}
}

// SetPercent implements Indicator. Once the bar has completed, further
// updates (such as the reset after a successful upload) are ignored so the
// finished bar stays on screen.
func (b *BarIndicator) SetPercent(percent float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar.IsFinished() {
		return
	}
	_ = b.bar.Set(int(Clamp(percent)))
}

// Finish completes the bar if it has not completed already.
func (b *BarIndicator) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bar.IsFinished() {
		_ = b.bar.Finish()
	}
}

// Abandon stops the bar where it is, leaving it on screen (failed uploads).
func (b *BarIndicator) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bar.IsFinished() {
		_ = b.bar.Exit()
		fmt.Fprintln(b.out)
	}
}

// BusIndicator publishes upload progress on the event bus.
type BusIndicator struct {
	bus      *events.EventBus
	fileName string
	total    int64
	mu       sync.Mutex
}

// NewBusIndicator creates an indicator that publishes UploadProgressEvents.
func NewBusIndicator(bus *events.EventBus) *BusIndicator {
	return &BusIndicator{bus: bus}
}

// SetFile sets the name and size attached to subsequent events.
func (b *BusIndicator) SetFile(name string, size int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fileName = name
	b.total = size
}

// SetPercent implements Indicator.
func (b *BusIndicator) SetPercent(percent float64) {
	b.mu.Lock()
	name, total := b.fileName, b.total
	b.mu.Unlock()

	percent = Clamp(percent)
	b.bus.PublishUploadProgress(name, percent, int64(percent/100*float64(total)), total)
}

// Reader wraps an io.Reader and reports the running byte count after every read.
type Reader struct {
	reader  io.Reader
	onRead  func(current int64)
	current int64
}

// NewReader creates a progress-reporting reader.
func NewReader(reader io.Reader, onRead func(current int64)) *Reader {
	return &Reader{
		reader: reader,
		onRead: onRead,
	}
}

// Read implements io.Reader with progress reporting.
func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.current += int64(n)
		if pr.onRead != nil {
			pr.onRead(pr.current)
		}
	}
	return n, err
}

// Current returns the number of bytes read so far.
func (pr *Reader) Current() int64 {
	return pr.current
}
