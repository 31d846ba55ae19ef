package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csvdesk/csvdesk/internal/events"
	"github.com/csvdesk/csvdesk/internal/listing"
	"github.com/csvdesk/csvdesk/internal/logging"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/progress"
	"github.com/csvdesk/csvdesk/internal/upload"
)

// Service is what the browser needs from the API client.
type Service interface {
	listing.FileService
	upload.Uploader
}

// RunOptions configures Run.
type RunOptions struct {
	Service       Service
	Notifications *notify.Config
	DownloadDir   string
	Title         string
	Logger        *logging.Logger
}

// sender forwards messages into the program once it exists.
type sender struct {
	mu sync.Mutex
	p  *tea.Program
}

func (s *sender) set(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
}

func (s *sender) Send(msg tea.Msg) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Run starts the interactive browser and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	bus := events.NewEventBus(0)
	defer closeBus(bus, logger)
	sub := bus.Subscribe(
		events.EventNotification,
		events.EventUploadState,
		events.EventUploadProgress,
		events.EventListingChanged,
	)

	// The status line always shows notifications; the notifier adds logging
	// and optional desktop delivery.
	sink := notify.Multi{
		notify.NewNotifier(opts.Notifications, nil, logger),
		notify.SinkFunc(bus.PublishNotification),
	}

	confirmer := NewConfirmer()
	send := &sender{}

	lc := listing.New(listing.Options{
		Service:     opts.Service,
		Sink:        sink,
		Confirmer:   confirmer,
		DownloadDir: opts.DownloadDir,
		Bus:         bus,
		Logger:      logger,
	})
	uc := upload.New(upload.Options{
		Service:   opts.Service,
		Sink:      sink,
		Indicator: progress.NewBusIndicator(bus),
		Clearer:   upload.ClearerFunc(func() { send.Send(clearSelectionMsg{}) }),
		Refresher: lc,
		Bus:       bus,
		Logger:    logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, Options{
		Listing:   lc,
		Upload:    uc,
		Confirmer: confirmer,
		Sink:      sink,
		Events:    sub,
		Title:     opts.Title,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	send.set(p)

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Debug().Msg("Starting file browser")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("file browser failed: %w", err)
	}
	return nil
}

// closeBus shuts the bus down and records how many updates the screen missed.
func closeBus(bus *events.EventBus, logger *logging.Logger) {
	bus.Close()
	if n := bus.DroppedEvents(); n > 0 {
		logger.Debug().Int64("dropped", n).Msg("Event bus dropped updates")
	}
}
