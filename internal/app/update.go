package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/rsync-tui/internal/errors"
	"github.com/zhubert/rsync-tui/internal/keys"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/transfer"
	"github.com/zhubert/rsync-tui/internal/ui"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	m.syncPanes()
	return model, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case ListingMsg:
		return m.handleListing(msg)

	case TransferEventMsg:
		return m.handleTransferEvent(msg.Event)

	case TickMsg:
		return m.handleTick()

	case ui.FlashTickMsg:
		m.footer.ClearIfExpired()
		if m.footer.HasFlash() {
			return m, ui.FlashTick()
		}
		return m, nil
	}

	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.mode == ModeExiting {
		if key == keys.CtrlC {
			logger.WithComponent("app").Warn("forced quit", "running", m.queue.Active())
			return m, tea.Quit
		}
		return m, nil
	}

	if m.modal.IsVisible() {
		if key == keys.CtrlC {
			m.modal.Hide()
			return m, m.beginExit()
		}
		return m.handleModalKey(msg)
	}

	model, cmd, _ := m.ExecuteShortcut(key)
	return model, cmd
}

// handleListing installs a finished listing. Results for a directory the
// operator has already left are dropped.
func (m *Model) handleListing(msg ListingMsg) (tea.Model, tea.Cmd) {
	if msg.Dir == m.loading {
		m.loading = ""
	}
	log := logger.WithComponent("app")

	if msg.Err != nil {
		log.Warn("listing failed", "dir", msg.Dir, "error", msg.Err)
		if msg.Kind == listStart && msg.Dir != "/" {
			m.loading = "/"
			return m, tea.Batch(
				m.ShowFlashWarning(errors.Message(msg.Err)+", showing /"),
				m.listDir("/", "", listStart),
			)
		}
		return m, m.ShowFlashError(errors.Message(msg.Err))
	}

	switch msg.Kind {
	case listStart:
		m.nav.Reset(msg.Dir, msg.Entries)
	case listEnter:
		if m.nav.Path() != msg.From {
			log.Debug("dropping stale listing", "dir", msg.Dir)
			return m, nil
		}
		m.nav.Commit(msg.Dir, msg.Entries)
	case listRefresh:
		if m.nav.Path() != msg.Dir {
			return m, nil
		}
		m.nav.Reset(msg.Dir, msg.Entries)
	}
	log.Debug("listing installed", "dir", msg.Dir, "entries", len(msg.Entries))
	return m, nil
}

// handleTransferEvent folds one runner event into the queue. The listener
// is always re-armed, including while exiting, so every exit is observed.
func (m *Model) handleTransferEvent(ev transfer.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{listenForEvents(m.queue.Events())}

	j, finished := m.queue.Apply(ev)
	if finished && j.Status == transfer.StatusFailed && m.mode != ModeExiting {
		cmds = append(cmds, m.ShowFlashError(jobLabel(j)+" failed: "+j.Reason))
	}
	if finished {
		// a freed slot is refilled right away instead of on the next tick
		if m.mode != ModeExiting {
			m.queue.Tick()
		}
		cmds = append(cmds, m.checkDrained())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.mode == ModeExiting {
		return m, tea.Batch(tickCmd(), m.checkDrained())
	}
	failedBefore := m.queue.Counts()[transfer.StatusFailed]
	m.queue.Tick()
	cmds := []tea.Cmd{tickCmd()}
	if n := m.queue.Counts()[transfer.StatusFailed] - failedBefore; n > 0 {
		cmds = append(cmds, m.ShowFlashError(ui.Pluralize(n, "transfer")+" could not start"))
	}
	cmds = append(cmds, m.checkDrained())
	return m, tea.Batch(cmds...)
}

// startBatch opens a batch if none is running and enters Transferring.
// The counts at that moment are what the drain notification is measured
// from.
func (m *Model) startBatch() {
	if !m.inBatch {
		counts := m.queue.Counts()
		m.batchCompleted = counts[transfer.StatusCompleted]
		m.batchFailed = counts[transfer.StatusFailed]
		m.inBatch = true
	}
	m.setMode(ModeTransferring)
}

// idleMode is the mode to return to when no modal is open.
func (m *Model) idleMode() Mode {
	if m.inBatch {
		return ModeTransferring
	}
	return ModeBrowsing
}

// checkDrained closes the batch once nothing is Pending or Running, and
// quits when exiting.
func (m *Model) checkDrained() tea.Cmd {
	if !m.queue.Idle() {
		return nil
	}
	if m.mode == ModeExiting {
		logger.WithComponent("app").Info("all transfers stopped, quitting")
		return tea.Quit
	}
	if !m.inBatch {
		return nil
	}
	m.inBatch = false
	if m.mode == ModeTransferring {
		m.setMode(ModeBrowsing)
	}

	counts := m.queue.Counts()
	completed := counts[transfer.StatusCompleted] - m.batchCompleted
	failed := counts[transfer.StatusFailed] - m.batchFailed
	logger.WithComponent("app").Info("queue drained", "completed", completed, "failed", failed)
	if m.opts.Notify == nil || !m.config.GetNotificationsEnabled() {
		return nil
	}
	notify := m.opts.Notify
	return func() tea.Msg {
		if err := notify(completed, failed); err != nil {
			logger.WithComponent("app").Warn("notification failed", "error", err)
		}
		return nil
	}
}

// beginExit cancels every job and quits once all processes have exited.
func (m *Model) beginExit() tea.Cmd {
	if m.mode == ModeExiting {
		return nil
	}
	logger.WithComponent("app").Info("exiting", "from", m.mode.String())
	m.mode = ModeExiting
	m.cancel()
	m.modal.Hide()
	m.footer.ClearFlash()
	if n := m.queue.CancelAll(); n > 0 {
		logger.WithComponent("app").Info("waiting for transfers to stop", "count", n)
	}
	return m.checkDrained()
}

func jobLabel(j *transfer.Job) string {
	return "[" + j.ShortID() + "] " + j.Source
}
