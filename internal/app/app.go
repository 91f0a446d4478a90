// Package app is the event loop of rsync-tui: it routes keys to the
// browser or the transfer queue, feeds runner events back into the queue
// and projects the result onto the ui panes.
package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/rsync-tui/internal/browser"
	"github.com/zhubert/rsync-tui/internal/config"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/remote"
	"github.com/zhubert/rsync-tui/internal/transfer"
	"github.com/zhubert/rsync-tui/internal/ui"
)

// TickInterval is how often the queue promotes Pending jobs and the
// throughput meter is sampled.
const TickInterval = 250 * time.Millisecond

// Focus represents which panel is focused
type Focus int

const (
	FocusBrowser Focus = iota
	FocusLog
)

// Mode is the controller state. Exiting is terminal.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeConfirmingDownload
	ModeTransferring
	ModeExiting
)

// String returns a human-readable name for the mode
func (s Mode) String() string {
	switch s {
	case ModeBrowsing:
		return "Browsing"
	case ModeConfirmingDownload:
		return "ConfirmingDownload"
	case ModeTransferring:
		return "Transferring"
	case ModeExiting:
		return "Exiting"
	default:
		return "Unknown"
	}
}

// Options carries the collaborators built at startup.
type Options struct {
	Target   config.Target
	Lister   remote.Lister
	Queue    *transfer.Queue
	StartDir string // remote directory shown first; "/" when empty
	Version  string

	// Clipboard copies text to the system clipboard. When nil or failing,
	// the terminal clipboard (OSC 52) is used.
	Clipboard func(text string) error
	// Notify announces a drained queue. nil disables notifications.
	Notify func(completed, failed int) error
}

// Model is the main Bubble Tea model
type Model struct {
	config *config.Config
	opts   Options

	nav   *browser.Navigator
	sel   *browser.Selection
	queue *transfer.Queue

	header    *ui.Header
	footer    *ui.Footer
	browser   *ui.BrowserPane
	transfers *ui.TransfersPane
	logPane   *ui.LogPane
	modal     *ui.Modal

	width  int
	height int
	focus  Focus
	mode   Mode

	// loading is the directory being listed, "" when none is in flight.
	loading string

	// a batch runs from the first enqueue until the queue drains
	inBatch        bool
	batchCompleted int
	batchFailed    int

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new app model
func New(cfg *config.Config, opts Options) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}
	if opts.StartDir == "" {
		opts.StartDir = "/"
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config:    cfg,
		opts:      opts,
		nav:       browser.New(opts.Lister),
		sel:       browser.NewSelection(),
		queue:     opts.Queue,
		header:    ui.NewHeader(),
		footer:    ui.NewFooter(),
		browser:   ui.NewBrowserPane(),
		transfers: ui.NewTransfersPane(),
		logPane:   ui.NewLogPane(),
		modal:     ui.NewModal(),
		focus:     FocusBrowser,
		mode:      ModeBrowsing,
		ctx:       ctx,
		cancel:    cancel,
	}
	m.header.SetTarget(opts.Target.String())
	m.syncPanes()
	return m
}

// Mode returns the controller state.
func (m *Model) Mode() Mode { return m.mode }

// setMode transitions to a new mode with logging
func (m *Model) setMode(next Mode) {
	if m.mode == next || m.mode == ModeExiting {
		return
	}
	logger.WithComponent("app").Debug("mode transition", "from", m.mode.String(), "to", next.String())
	m.mode = next
}

// Init lists the start directory and starts the queue tick and the runner
// event listener.
func (m *Model) Init() tea.Cmd {
	logger.WithComponent("app").Info("session started",
		"version", m.opts.Version,
		"target", m.opts.Target.String(),
		"start", m.opts.StartDir,
		"concurrency", m.queue.Limit(),
	)
	m.loading = m.opts.StartDir
	m.syncPanes()
	return tea.Batch(
		m.listDir(m.opts.StartDir, "", listStart),
		tickCmd(),
		listenForEvents(m.queue.Events()),
	)
}

// Close releases the model's background work. The queue is shut down by
// the caller, which owns it.
func (m *Model) Close() {
	m.cancel()
}
