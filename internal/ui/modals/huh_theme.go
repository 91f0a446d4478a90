package modals

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/rsync-tui/internal/keys"
)

// newForm wraps fields in a single-group form styled for modals and
// initialized so its first render is complete.
func newForm(width int, fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(width)
	form.Init()
	return form
}

// formUpdate forwards msg to form. Enter and Escape are left to the app
// layer, which confirms or aborts the modal.
func formUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		if s := k.String(); s == keys.Enter || s == keys.Escape {
			return form, nil
		}
	}
	m, cmd := form.Update(msg)
	return m.(*huh.Form), cmd
}

// ModalTheme builds the huh theme from the current palette. It is called
// per form so theme switches apply to the next modal.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		focused := &t.Focused
		focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		focused.Card = focused.Base
		focused.Title = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted)
		focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" !")
		focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)
		focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
		focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
		focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
		focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		return t
	})
}
