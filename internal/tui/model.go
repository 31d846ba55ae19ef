// Package tui is the interactive front end: a bubbletea program that drives
// the listing and upload controllers from the keyboard.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	pbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/csvdesk/csvdesk/internal/constants"
	"github.com/csvdesk/csvdesk/internal/events"
	"github.com/csvdesk/csvdesk/internal/listing"
	"github.com/csvdesk/csvdesk/internal/localfs"
	"github.com/csvdesk/csvdesk/internal/notify"
	"github.com/csvdesk/csvdesk/internal/pathutil"
	"github.com/csvdesk/csvdesk/internal/upload"
)

// --- Messages ---

type refreshedMsg struct{ err error }
type downloadedMsg struct {
	path string
	err  error
}
type deletedMsg struct {
	deleted bool
	err     error
}
type uploadedMsg struct{ err error }
type busEventMsg struct{ event events.Event }
type busClosedMsg struct{}
type confirmRequestMsg confirmRequest
type statusExpiredMsg struct{ seq int }
type clearSelectionMsg struct{}

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeUploadPath
	modeConfirm
)

// Options wires a Model to its controllers.
type Options struct {
	Listing   *listing.Controller
	Upload    *upload.Controller
	Confirmer *Confirmer
	// Sink receives errors the model detects itself, such as an unreadable path.
	Sink notify.Sink
	// Events is a bus subscription; notifications, progress, upload state
	// and listing changes arrive through it.
	Events <-chan events.Event
	Title  string
}

// Model is the bubbletea model for `csvdesk browse`.
type Model struct {
	ctx       context.Context
	listing   *listing.Controller
	upload    *upload.Controller
	confirmer *Confirmer
	sink      notify.Sink
	events    <-chan events.Event
	title     string

	keys    keyMap
	help    help.Model
	search  textinput.Model
	path    textinput.Model
	table   table.Model
	bar     pbar.Model
	spinner spinner.Model

	mode        mode
	page        listing.Page
	loading     bool
	uploading   bool
	uploadName  string
	percent     float64
	status      string
	statusLevel events.Severity
	statusSeq   int
	pending     *confirmRequest
	candidates  []string
}

// New creates the model. ctx bounds every controller call it starts.
func New(ctx context.Context, opts Options) *Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "filename"
	search.CharLimit = 128

	path := textinput.New()
	path.Prompt = "Upload: "
	path.Placeholder = "path/to/file.csv"

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Filename", Width: 36},
			{Title: "Status", Width: 12},
			{Title: "Records", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(constants.PageSize+2),
	)
	t.SetStyles(tableStyles())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Theme.Help

	title := opts.Title
	if title == "" {
		title = "csvdesk"
	}
	sink := opts.Sink
	if sink == nil {
		sink = notify.SinkFunc(func(notify.Level, string) {})
	}

	m := &Model{
		ctx:       ctx,
		listing:   opts.Listing,
		upload:    opts.Upload,
		confirmer: opts.Confirmer,
		sink:      sink,
		events:    opts.Events,
		title:     title,
		keys:      defaultKeyMap(),
		help:      help.New(),
		search:    search,
		path:      path,
		table:     t,
		bar:       pbar.New(pbar.WithDefaultGradient(), pbar.WithWidth(40)),
		spinner:   s,
		loading:   true,
	}
	m.syncPage()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd(), m.spinner.Tick}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	if m.confirmer != nil {
		cmds = append(cmds, waitForConfirm(m.confirmer))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if w := msg.Width - 20; w > 10 && w < 60 {
			m.bar.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshedMsg:
		m.loading = false
		m.syncPage()
		return m, nil

	case downloadedMsg, deletedMsg:
		m.syncPage()
		return m, nil

	case uploadedMsg:
		return m, nil

	case clearSelectionMsg:
		m.path.Reset()
		return m, nil

	case confirmRequestMsg:
		req := confirmRequest(msg)
		m.pending = &req
		m.mode = modeConfirm
		m.search.Blur()
		m.path.Blur()
		return m, nil

	case busEventMsg:
		cmd := m.handleEvent(msg.event)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case busClosedMsg:
		return m, nil

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.answerPending(false)
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeUploadPath:
		return m.handleUploadKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)
	case key.Matches(msg, m.keys.PrevPage):
		if m.listing.PreviousPage() {
			m.syncPage()
			m.table.SetCursor(0)
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.listing.NextPage() {
			m.syncPage()
			m.table.SetCursor(0)
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Upload):
		m.mode = modeUploadPath
		return m, m.path.Focus()
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Download):
		if row, ok := m.selected(); ok {
			return m, m.downloadCmd(row.Record.ID, row.Record.Filename)
		}
	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selected(); ok {
			return m, m.deleteCmd(row.Record.ID)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.mode = modeNormal
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.listing.SetSearchQuery(q)
		m.syncPage()
		m.table.SetCursor(0)
	}
	return m, cmd
}

// maxCandidates bounds the completion hint line.
const maxCandidates = 6

func (m *Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.candidates = nil
	switch msg.Type {
	case tea.KeyTab:
		completed, matches := localfs.Complete(m.path.Value(), constants.RequiredExtension, pathutil.ExpandHome)
		m.path.SetValue(completed)
		m.path.CursorEnd()
		if len(matches) > 1 {
			for i, e := range matches {
				if i == maxCandidates {
					m.candidates = append(m.candidates, "…")
					break
				}
				m.candidates = append(m.candidates, e.Name)
			}
		}
		return m, nil
	case tea.KeyEsc:
		m.mode = modeNormal
		m.path.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.path.Blur()
		return m, m.uploadCmd(strings.TrimSpace(m.path.Value()))
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.answerPending(true)
	case "n", "esc", "q":
		m.answerPending(false)
	default:
		return m, nil
	}
	m.mode = modeNormal
	return m, waitForConfirm(m.confirmer)
}

func (m *Model) answerPending(answer bool) {
	if m.pending == nil {
		return
	}
	m.pending.reply <- answer
	m.pending = nil
}

func (m *Model) handleEvent(e events.Event) tea.Cmd {
	switch ev := e.(type) {
	case *events.NotificationEvent:
		return m.setStatus(ev.Severity, ev.Message)
	case *events.UploadProgressEvent:
		m.percent = ev.Percent
	case *events.UploadStateEvent:
		state := ev.NewState
		m.uploading = state == upload.StateValidating.String() || state == upload.StateUploading.String()
		m.uploadName = ev.FileName
		m.keys.Upload.SetEnabled(!m.uploading)
		if !m.uploading {
			m.percent = 0
		}
	case *events.ListingChangedEvent:
		m.syncPage()
	}
	return nil
}

func (m *Model) setStatus(level events.Severity, text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusLevel = level
	seq := m.statusSeq
	return tea.Tick(constants.NotificationTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// syncPage pulls the current page from the listing into the table.
func (m *Model) syncPage() {
	if m.listing == nil {
		return
	}
	m.page = m.listing.View()

	rows := make([]table.Row, 0, len(m.page.Rows))
	for _, r := range m.page.Rows {
		rows = append(rows, table.Row{
			r.Record.Filename,
			r.Record.Status,
			humanize.Comma(int64(r.Record.RecordsCount)),
		})
	}
	m.table.SetRows(rows)

	// An empty table leaves the cursor at -1; put it back on a row once rows exist.
	switch c := m.table.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) selected() (listing.Row, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.page.Rows) {
		return listing.Row{}, false
	}
	return m.page.Rows[c], true
}

// --- Commands ---

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.listing.Refresh(m.ctx)}
	}
}

func (m *Model) downloadCmd(id, filename string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.listing.Download(m.ctx, id, filename)
		return downloadedMsg{path: path, err: err}
	}
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		deleted, err := m.listing.Delete(m.ctx, id)
		return deletedMsg{deleted: deleted, err: err}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		var sel *upload.Selection
		if path != "" {
			s, err := upload.SelectionFromPath(path)
			if err != nil {
				m.sink.Notify(notify.Error, "Cannot read "+path+": "+err.Error())
				return uploadedMsg{err: err}
			}
			sel = s
		}
		_, err := m.upload.Submit(m.ctx, sel)
		return uploadedMsg{err: err}
	}
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return busClosedMsg{}
		}
		return busEventMsg{event: e}
	}
}

func waitForConfirm(c *Confirmer) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return confirmRequestMsg(<-c.requests)
	}
}

// --- Getters ---

// Page returns the page currently displayed.
func (m *Model) Page() listing.Page {
	return m.page
}

// Candidates returns the completion hints from the last Tab press.
func (m *Model) Candidates() []string { return m.candidates }

// Status returns the status line text.
func (m *Model) Status() string {
	return m.status
}

// Uploading reports whether an upload is in flight.
func (m *Model) Uploading() bool {
	return m.uploading
}

// Cursor returns the selected row index on the current page.
func (m *Model) Cursor() int {
	return m.table.Cursor()
}
