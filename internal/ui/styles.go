package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette colors, filled from the active Theme by applyTheme.
var (
	ColorPrimary, ColorSecondary  color.Color
	ColorMuted, ColorTextMuted    color.Color
	ColorText                     color.Color
	ColorBorder, ColorBorderFocus color.Color
	ColorDirectory, ColorLink     color.Color
	ColorMarked                   color.Color
	ColorInfo, ColorSuccess       color.Color
	ColorWarning, ColorError      color.Color
)

var (
	HeaderStyle     lipgloss.Style
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style

	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style

	// Browser rows. EntryCursorStyle paints the whole cursor line.
	EntryStyle       lipgloss.Style
	EntryDirStyle    lipgloss.Style
	EntryLinkStyle   lipgloss.Style
	EntryMarkedStyle lipgloss.Style
	EntryCursorStyle lipgloss.Style
	EntrySizeStyle   lipgloss.Style

	JobRunningStyle     lipgloss.Style
	JobPendingStyle     lipgloss.Style
	JobCompletedStyle   lipgloss.Style
	JobFailedStyle      lipgloss.Style
	JobCancelledStyle   lipgloss.Style
	ProgressFilledStyle lipgloss.Style
	ProgressEmptyStyle  lipgloss.Style

	LogJobStyle   lipgloss.Style
	LogTextStyle  lipgloss.Style
	LogErrorStyle lipgloss.Style

	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	StatusLoadingStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	EmptyStyle         lipgloss.Style

	FlashInfoStyle    lipgloss.Style
	FlashSuccessStyle lipgloss.Style
	FlashWarningStyle lipgloss.Style
	FlashErrorStyle   lipgloss.Style
)

func init() {
	SetTheme(DefaultTheme)
}

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func border(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// applyTheme rebuilds every color and style from t.
func applyTheme(t Theme) {
	c := lipgloss.Color
	ColorPrimary, ColorSecondary = c(t.Primary), c(t.Secondary)
	ColorMuted, ColorTextMuted = c(t.TextMuted), c(t.TextMuted)
	ColorText = c(t.Text)
	ColorBorder, ColorBorderFocus = c(t.Border), c(t.GetBorderFocus())
	ColorDirectory, ColorLink, ColorMarked = c(t.Directory), c(t.Link), c(t.Marked)
	ColorInfo, ColorSuccess = c(t.Info), c(t.Success)
	ColorWarning, ColorError = c(t.Warning), c(t.Error)

	HeaderStyle = fg(ColorText).Background(ColorPrimary).Bold(true).Padding(0, 1)
	FooterStyle = fg(ColorTextMuted).Padding(0, 1)
	FooterKeyStyle = fg(ColorSecondary).Bold(true)
	FooterDescStyle = fg(ColorTextMuted)

	PanelStyle = border(ColorBorder)
	PanelFocusedStyle = border(ColorBorderFocus)
	PanelTitleStyle = fg(ColorPrimary).Bold(true)

	EntryStyle = lipgloss.NewStyle()
	EntryDirStyle = fg(ColorDirectory).Bold(true)
	EntryLinkStyle = fg(ColorLink)
	EntryMarkedStyle = fg(ColorMarked).Bold(true).Underline(true)
	EntryCursorStyle = fg(c(t.Text)).Background(c(t.GetBgSelected())).Bold(true)
	EntrySizeStyle = fg(ColorTextMuted)

	JobRunningStyle = fg(ColorSecondary)
	JobPendingStyle = fg(ColorMuted)
	JobCompletedStyle = fg(ColorSuccess)
	JobFailedStyle = fg(ColorError).Bold(true)
	JobCancelledStyle = fg(ColorWarning)
	ProgressFilledStyle = fg(ColorPrimary)
	ProgressEmptyStyle = fg(ColorBorder)

	LogJobStyle = fg(ColorMuted)
	LogTextStyle = fg(ColorText)
	LogErrorStyle = fg(ColorError)

	ModalStyle = border(ColorPrimary).Padding(1, 2).Width(ModalWidth)
	ModalTitleStyle = fg(ColorPrimary).Bold(true).MarginBottom(1)
	ModalHelpStyle = fg(ColorTextMuted).Italic(true).MarginTop(1)

	StatusLoadingStyle = fg(ColorSecondary).Italic(true)
	StatusErrorStyle = fg(ColorError).Bold(true)
	EmptyStyle = fg(ColorTextMuted).Italic(true)

	FlashInfoStyle = fg(ColorInfo)
	FlashSuccessStyle = fg(ColorSuccess).Bold(true)
	FlashWarningStyle = fg(ColorWarning).Bold(true)
	FlashErrorStyle = fg(ColorError).Bold(true)
}
