// Package modals holds the dialogs drawn over the main view. The app layer
// type-switches on the concrete state to route keys.
package modals

import (
	tea "charm.land/bubbletea/v2"
)

// ModalState is one open dialog. Only types in this package implement it.
type ModalState interface {
	modalState()
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// ModalWithSize is implemented by modals that lay out to the space they get.
type ModalWithSize interface {
	ModalState
	SetSize(width, height int)
}

// HelpShortcut is one row of the help sheet.
type HelpShortcut struct {
	Key  string
	Desc string
}

// HelpSection groups rows under a title.
type HelpSection struct {
	Title     string
	Shortcuts []HelpShortcut
}
