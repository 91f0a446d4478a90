// Package ui provides the user interface components for rsync-tui.
//
// # Overview
//
// The ui package implements the visual components using the Bubble Tea
// framework and Lipgloss styling library. Components hold only what they
// need to draw; the app package owns the navigation, selection and queue
// state and pushes snapshots into them before each render.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├──────────────────────────┬──────────────────────────┤
//	│                          │  Transfers               │
//	│   Browser                ├──────────────────────────┤
//	│   (55% width)            │  Log                     │
//	│                          │                          │
//	├──────────────────────────┴──────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// Layout: Pure pane geometry computed from the terminal size on resize.
//
// Header: Application title, connection target and aggregate throughput
// on a gradient background.
//
// Footer: Context-aware keyboard shortcuts, replaced for a few seconds by
// flash messages.
//
// Browser: The remote directory listing with cursor and selection marks.
//
// Transfers: One row per transfer job with a progress bar.
//
// LogPane: A scrolling viewport over the retained transfer output.
//
// Modal: Popup dialogs (download confirmation, shortcut help) whose
// states live in the modals subpackage.
//
// # Focus System
//
// Tab toggles focus between the browser and the log pane. Navigation keys
// scroll whichever pane is focused; every other shortcut works from both.
package ui
