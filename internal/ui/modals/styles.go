package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette carries the theme-dependent styles and sizes the modals render
// with. The ui package owns the theme and pushes a Palette on every change.
type Palette struct {
	Title, Help lipgloss.Style

	Primary, Secondary, Text, Muted, Directory, Warning color.Color

	InputWidth, InputCharLimit int
	Width                      int
	HelpRows                   int
}

var (
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	ColorPrimary   color.Color
	ColorSecondary color.Color
	ColorText      color.Color
	ColorTextMuted color.Color
	ColorDirectory color.Color
	ColorWarning   color.Color

	ModalInputWidth     int
	ModalInputCharLimit int
	ModalWidth          int
	HelpModalMaxVisible int
)

// SetStyles installs p. Must run before any modal renders.
func SetStyles(p Palette) {
	ModalTitleStyle, ModalHelpStyle = p.Title, p.Help
	ColorPrimary, ColorSecondary = p.Primary, p.Secondary
	ColorText, ColorTextMuted = p.Text, p.Muted
	ColorDirectory, ColorWarning = p.Directory, p.Warning
	ModalInputWidth, ModalInputCharLimit = p.InputWidth, p.InputCharLimit
	ModalWidth, HelpModalMaxVisible = p.Width, p.HelpRows
}
