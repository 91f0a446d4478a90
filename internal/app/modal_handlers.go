package app

import (
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/rsync-tui/internal/keys"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/ui"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *ui.ConfirmDownloadState:
		return m.handleConfirmDownloadModal(key, msg, s)
	case *ui.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleConfirmDownloadModal(key string, msg tea.KeyPressMsg, state *ui.ConfirmDownloadState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		m.setMode(m.idleMode())
		return m, nil
	case keys.Enter:
		if err := state.Validate(); err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		dest, err := expandDestination(state.GetDestination())
		if err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		return m.confirmDownload(state.Sources, state.GetDestination(), dest)
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// confirmDownload queues sources under dest and remembers typed as the
// next default destination.
func (m *Model) confirmDownload(sources []string, typed, dest string) (tea.Model, tea.Cmd) {
	log := logger.WithComponent("app")

	ids := m.queue.Enqueue(sources, dest)
	log.Info("download confirmed", "sources", len(sources), "queued", len(ids), "dest", dest)

	if m.config.SetDestination(typed) {
		if err := m.config.Save(); err != nil {
			log.Warn("failed to save destination", "error", err)
		}
	}

	m.sel.Clear()
	m.modal.Hide()
	if len(ids) > 0 {
		m.startBatch()
		m.queue.Tick()
	} else {
		m.setMode(m.idleMode())
	}

	text := "Queued " + ui.Pluralize(len(ids), "transfer") + " to " + dest
	if skipped := len(sources) - len(ids); skipped > 0 {
		text += " (" + ui.Pluralize(skipped, "already queued path") + " skipped)"
	}
	return m, tea.Batch(m.ShowFlashSuccess(text), m.checkDrained())
}

func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *ui.HelpState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// expandDestination resolves "~" and relative paths against the local
// working directory.
func expandDestination(dest string) (string, error) {
	if dest == "~" || strings.HasPrefix(dest, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dest = filepath.Join(home, strings.TrimPrefix(dest, "~"))
	}
	return filepath.Abs(dest)
}
