package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/rsync-tui/internal/transfer"
	"github.com/zhubert/rsync-tui/internal/ui"
)

func (m *Model) updateSizes() {
	l := ui.ComputeLayout(m.width, m.height)
	m.header.SetWidth(l.Width)
	m.footer.SetWidth(l.Width)
	m.browser.SetSize(l.BrowserWidth, l.ContentHeight)
	m.transfers.SetSize(l.SideWidth, l.TransfersHeight)
	m.logPane.SetSize(l.SideWidth, l.LogHeight)
}

// syncPanes copies model state into the panes. It runs at the end of
// every Update so View only reads.
func (m *Model) syncPanes() {
	counts := m.queue.Counts()
	stats := m.queue.Stats()

	m.header.SetPath(m.nav.Path())
	m.header.SetStats(ui.HeaderStats{
		RateBps: stats.RateBps,
		Running: counts[transfer.StatusRunning],
		Pending: counts[transfer.StatusPending],
		Failed:  counts[transfer.StatusFailed],
	})

	m.browser.SetFocused(m.focus == FocusBrowser)
	m.browser.SetListing(m.nav.Path(), m.nav.Entries(), m.nav.Cursor(), m.sel.Has, m.sel.Len())
	if m.loading != "" {
		m.browser.SetLoading("listing " + m.loading + "...")
	} else {
		m.browser.SetLoading("")
	}

	m.transfers.SetJobs(m.queue.Jobs(), m.queue.Active(), m.queue.Limit())

	m.logPane.SetFocused(m.focus == FocusLog)
	m.logPane.SetLines(m.queue.Logs(), m.queue.LogSeq())

	m.footer.SetContext(ui.FooterContext{
		Confirming:   m.mode == ModeConfirmingDownload,
		LogFocused:   m.focus == FocusLog,
		HasSelection: m.sel.Len() > 0,
		HasFailed:    m.hasRetryable(),
		Exiting:      m.mode == ModeExiting,
		Cancelling:   m.queue.Active(),
	})
}

func (m *Model) hasRetryable() bool {
	counts := m.queue.Counts()
	return counts[transfer.StatusFailed]+counts[transfer.StatusCancelled] > 0
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
// This is useful for testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	side := lipgloss.JoinVertical(lipgloss.Left, m.transfers.View(), m.logPane.View())
	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.browser.View(), side)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)
}
