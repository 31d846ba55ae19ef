package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/csvdesk/csvdesk/internal/constants"
)

// DownloadUI renders a download progress bar on stderr using mpb.
// Without a terminal no bar is drawn and only start/finish lines are printed.
type DownloadUI struct {
	progress    *mpb.Progress
	out         io.Writer
	isTerminal  bool
	refreshRate time.Duration
}

// DownloadBar tracks one file download.
type DownloadBar struct {
	bar        *mpb.Bar
	ui         *DownloadUI
	fileID     string
	remoteName string
	localPath  string
	size       int64
	startTime  time.Time
}

// NewDownloadUI creates a download UI bound to stderr.
func NewDownloadUI() *DownloadUI {
	return newDownloadUI(os.Stderr, IsTerminal(os.Stderr))
}

func newDownloadUI(out io.Writer, isTerminal bool) *DownloadUI {
	refresh := constants.ProgressRefreshRate
	var p *mpb.Progress
	if isTerminal {
		if f, ok := out.(*os.File); ok {
			enableANSIOnWindows(f)
		}
		p = mpb.New(
			mpb.WithOutput(out),
			mpb.WithRefreshRate(refresh),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &DownloadUI{
		progress:    p,
		out:         out,
		isTerminal:  isTerminal,
		refreshRate: refresh,
	}
}

// AddFileBar creates the bar for a download. size <= 0 means unknown.
func (u *DownloadUI) AddFileBar(fileID, remoteName, localPath string, size int64) *DownloadBar {
	fb := &DownloadBar{
		ui:         u,
		fileID:     fileID,
		remoteName: remoteName,
		localPath:  localPath,
		size:       size,
		startTime:  time.Now(),
	}

	if u.isTerminal {
		// A non-positive total leaves the bar open-ended until Complete calls SetTotal.
		fb.bar = u.progress.New(size,
			mpb.BarStyle().
				Lbound("[").
				Filler("█").
				Tip("█").
				Padding("░").
				Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(truncatePath(localPath, 2)+" ← "+remoteName, decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Name("  "),
				decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 60, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		sizeText := "unknown size"
		if size > 0 {
			sizeText = humanize.IBytes(uint64(size))
		}
		fmt.Fprintf(u.out, "Downloading %s (%s) ← %s\n", truncatePath(localPath, 2), sizeText, remoteName)
	}

	return fb
}

// ProxyReader wraps r so bytes read advance the bar.
func (f *DownloadBar) ProxyReader(r io.Reader) io.Reader {
	if f.bar == nil {
		return r
	}
	return f.bar.ProxyReader(r)
}

// Complete marks the download as finished and prints a summary line.
func (f *DownloadBar) Complete(written int64, err error) {
	elapsed := time.Since(f.startTime)

	var msg string
	if err == nil {
		if f.bar != nil {
			f.bar.SetTotal(written, true)
		}
		msg = fmt.Sprintf("✓ %s ← %s (%s, %s)\n",
			f.localPath,
			f.remoteName,
			humanize.IBytes(uint64(written)),
			elapsed.Round(time.Millisecond))
	} else {
		if f.bar != nil {
			f.bar.Abort(false)
		}
		msg = fmt.Sprintf("✗ %s ← %s: %v\n", truncatePath(f.localPath, 2), f.remoteName, err)
	}

	if f.ui.isTerminal {
		_, _ = f.ui.progress.Write([]byte(msg))
	} else {
		fmt.Fprint(f.ui.out, msg)
	}
}

// Wait blocks until the bars have finished rendering.
func (u *DownloadUI) Wait() {
	u.progress.Wait()
}

// truncatePath keeps only the last maxComponents path elements.
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= maxComponents {
		return filepath.Base(path)
	}
	relevant := parts[len(parts)-maxComponents:]
	return "…/" + strings.Join(relevant, "/")
}
