// Package keys names the key strings the TUI matches on. Each value is
// produced by tea.KeyPressMsg.String so it always agrees with what Bubble
// Tea reports at runtime. Printable single-character keys are matched as
// literals instead.
package keys

import tea "charm.land/bubbletea/v2"

func named(code rune) string { return tea.KeyPressMsg{Code: code}.String() }

// Cursor movement in the browser, log and help sheet.
var (
	Up     = named(tea.KeyUp)
	Down   = named(tea.KeyDown)
	Left   = named(tea.KeyLeft)
	Right  = named(tea.KeyRight)
	Home   = named(tea.KeyHome)
	End    = named(tea.KeyEnd)
	PgUp   = named(tea.KeyPgUp)
	PgDown = named(tea.KeyPgDown)
)

var (
	Enter     = named(tea.KeyEnter)
	Tab       = named(tea.KeyTab)
	Space     = named(tea.KeySpace)
	Backspace = named(tea.KeyBackspace)
	Escape    = named(tea.KeyEscape)

	// CtrlC quits, and a second press while draining forces the exit.
	CtrlC = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}.String()
)
