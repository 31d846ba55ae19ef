// Package notify delivers user-facing notifications ("File deleted",
// "Upload failed: ...") to the log, the event bus and, optionally, the desktop.
// Desktop delivery uses github.com/gen2brain/beeep.
package notify

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/gen2brain/beeep"

	"github.com/csvdesk/csvdesk/internal/events"
	"github.com/csvdesk/csvdesk/internal/logging"
)

// Level is the severity of a notification.
type Level = events.Severity

const (
	Info    = events.SeverityInfo
	Success = events.SeveritySuccess
	Error   = events.SeverityError
)

// Sink receives notifications from the controllers.
type Sink interface {
	Notify(level Level, message string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(level Level, message string)

// Notify calls f.
func (f SinkFunc) Notify(level Level, message string) { f(level, message) }

// Config holds notification configuration.
type Config struct {
	// Enabled determines if notifications are delivered at all.
	Enabled bool

	// Desktop also raises OS desktop notifications.
	Desktop bool
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Desktop: false,
	}
}

// Notifier is the application Sink. Every notification is logged; enabled
// notifications are also published on the bus and, when configured, shown
// on the desktop.
type Notifier struct {
	logger  *logging.Logger
	bus     *events.EventBus
	enabled bool
	desktop bool

	// replaced in tests
	send  func(title, message string) error
	alert func(title, message string) error
}

// NewNotifier creates a new notifier with the given configuration.
// bus and logger may be nil.
func NewNotifier(cfg *Config, bus *events.EventBus, logger *logging.Logger) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Notifier{
		logger:  logger,
		bus:     bus,
		enabled: cfg.Enabled,
		desktop: cfg.Desktop,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		alert: func(title, message string) error {
			return beeep.Alert(title, message, "")
		},
	}
}

// Notify implements Sink.
func (n *Notifier) Notify(level Level, message string) {
	switch level {
	case Error:
		n.logger.Error().Msg(message)
	default:
		n.logger.Info().Str("level", level.String()).Msg(message)
	}

	if !n.enabled {
		return
	}

	if n.bus != nil {
		n.bus.PublishNotification(level, message)
	}

	if n.desktop {
		n.deliverDesktop(level, truncate(message, 200))
	}
}

func (n *Notifier) deliverDesktop(level Level, message string) {
	title := "csvdesk"
	if level == Error {
		// Alert is more prominent on some platforms; fall back to a regular toast.
		if err := n.alert(title, message); err == nil {
			return
		}
	}
	if err := n.send(title, message); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send desktop notification")
	}
}

// Multi fans a notification out to several sinks in order.
type Multi []Sink

// Notify implements Sink.
func (m Multi) Notify(level Level, message string) {
	for _, s := range m {
		if s != nil {
			s.Notify(level, message)
		}
	}
}

// truncate shortens s to at most maxLen bytes, adding "..." if truncated.
// The cut never splits a multi-byte rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// ShortenPath abbreviates a long path for display in notifications.
func ShortenPath(path string) string {
	const maxLen = 60

	if len(path) <= maxLen {
		return path
	}

	_, file := filepath.Split(path)
	parentDir := filepath.Base(filepath.Dir(path))

	short := filepath.Join("...", parentDir, file)

	vol := filepath.VolumeName(path)
	if vol != "" && len(vol)+len(short)+1 <= maxLen {
		short = vol + string(filepath.Separator) + short
	}

	if len(short) > maxLen {
		return "..." + path[len(path)-(maxLen-3):]
	}

	return short
}
