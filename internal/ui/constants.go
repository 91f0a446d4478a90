package ui

// Layout
const (
	HeaderHeight = 1
	FooterHeight = 1
	BorderSize   = 2 // rounded border, one cell per side

	BrowserWidthPercent    = 55 // of the terminal width
	TransfersHeightPercent = 40 // of the right column; the log takes the rest

	// Smaller terminals are laid out as if they were this size.
	MinTerminalWidth  = 60
	MinTerminalHeight = 12

	// PageSize is the browser cursor step for pgup/pgdown.
	PageSize = 20
)

// Modals
const (
	ModalWidth          = 60
	ModalInputWidth     = 50
	ModalInputCharLimit = 1024
	HelpModalMaxVisible = 16 // help sheet rows before it scrolls
)
