package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/ui"
)

// flash puts text in the footer and arms the dismiss timer. Every flash
// is mirrored to the log so transient messages can be found afterwards.
func (m *Model) flash(kind ui.FlashType, text string) tea.Cmd {
	logger.WithComponent("flash").Debug(text, "kind", int(kind))
	m.footer.SetFlash(text, kind)
	return ui.FlashTick()
}

func (m *Model) ShowFlashError(text string) tea.Cmd   { return m.flash(ui.FlashError, text) }
func (m *Model) ShowFlashWarning(text string) tea.Cmd { return m.flash(ui.FlashWarning, text) }
func (m *Model) ShowFlashInfo(text string) tea.Cmd    { return m.flash(ui.FlashInfo, text) }
func (m *Model) ShowFlashSuccess(text string) tea.Cmd { return m.flash(ui.FlashSuccess, text) }
