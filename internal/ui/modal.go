package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/rsync-tui/internal/ui/modals"
)

// Re-exported so the app layer only imports ui.
type (
	ModalState           = modals.ModalState
	HelpState            = modals.HelpState
	HelpSection          = modals.HelpSection
	HelpShortcut         = modals.HelpShortcut
	ConfirmDownloadState = modals.ConfirmDownloadState
)

var (
	NewHelpStateFromSections = modals.NewHelpStateFromSections
	NewConfirmDownloadState  = modals.NewConfirmDownloadState
)

// Modal hosts at most one dialog. State is nil while nothing is open.
type Modal struct {
	State ModalState
	err   string
}

// RefreshModalStyles pushes the current theme into the modals package.
// SetTheme calls it after regenerating the styles.
func RefreshModalStyles() {
	modals.SetStyles(modals.Palette{
		Title:          ModalTitleStyle,
		Help:           ModalHelpStyle,
		Primary:        ColorPrimary,
		Secondary:      ColorSecondary,
		Text:           ColorText,
		Muted:          ColorTextMuted,
		Directory:      ColorDirectory,
		Warning:        ColorWarning,
		InputWidth:     ModalInputWidth,
		InputCharLimit: ModalInputCharLimit,
		Width:          ModalWidth,
		HelpRows:       HelpModalMaxVisible,
	})
}

func NewModal() *Modal { return &Modal{} }

// Show opens state, replacing any open dialog and its error line.
func (m *Modal) Show(state ModalState) { m.State, m.err = state, "" }

func (m *Modal) Hide() { m.State, m.err = nil, "" }

func (m *Modal) IsVisible() bool { return m.State != nil }

// SetError shows a validation message under the dialog until the next
// Show or Hide.
func (m *Modal) SetError(msg string) { m.err = msg }

func (m *Modal) Err() string { return m.err }

// Update forwards msg to the open dialog.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	next, cmd := m.State.Update(msg)
	m.State = next
	return m, cmd
}

// View centers the dialog on a screenWidth x screenHeight canvas.
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}
	if s, ok := m.State.(modals.ModalWithSize); ok {
		s.SetSize(ModalWidth-6, screenHeight-8)
	}

	body := m.State.Render()
	if m.err != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, StatusErrorStyle.Render(m.err))
	}
	return lipgloss.Place(screenWidth, screenHeight, lipgloss.Center, lipgloss.Center, ModalStyle.Render(body))
}
