package app

import (
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/rsync-tui/internal/browser"
	"github.com/zhubert/rsync-tui/internal/keys"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/ui"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key         string   // The key binding (e.g., "D", "pgup")
	Aliases     []string // Other keys bound to the same action
	DisplayKey  string   // Display name in help; defaults to Key
	Description string
	Category    string

	RequiresBrowser bool // browser pane focused
	RequiresLog     bool // log pane focused

	Handler   func(m *Model) (tea.Model, tea.Cmd)
	Condition func(m *Model) bool // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryBrowser   = "Browser"
	CategoryTransfers = "Transfers"
	CategoryLog       = "Log (when focused)"
	CategoryGeneral   = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryBrowser,
	CategoryTransfers,
	CategoryLog,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// A key may appear more than once with different guards; the first entry
// whose guards pass wins.
var ShortcutRegistry = []Shortcut{
	// Browser
	{
		Key:             keys.Up,
		Aliases:         []string{"k"},
		DisplayKey:      "↑/k",
		Description:     "Move cursor up",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         moveBy(-1),
	},
	{
		Key:             keys.Down,
		Aliases:         []string{"j"},
		DisplayKey:      "↓/j",
		Description:     "Move cursor down",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         moveBy(1),
	},
	{
		Key:             keys.PgUp,
		DisplayKey:      "PgUp",
		Description:     "Page up",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         moveBy(-ui.PageSize),
	},
	{
		Key:             keys.PgDown,
		DisplayKey:      "PgDn",
		Description:     "Page down",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         moveBy(ui.PageSize),
	},
	{
		Key:             keys.Home,
		Aliases:         []string{"g"},
		DisplayKey:      "Home",
		Description:     "First entry",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutTop,
	},
	{
		Key:             keys.End,
		Aliases:         []string{"G"},
		DisplayKey:      "End",
		Description:     "Last entry",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutBottom,
	},
	{
		Key:             keys.Enter,
		Aliases:         []string{keys.Right, "l"},
		DisplayKey:      "Enter/→",
		Description:     "Open directory",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutEnter,
	},
	{
		Key:             keys.Left,
		Aliases:         []string{keys.Backspace, "h"},
		DisplayKey:      "←/Bksp",
		Description:     "Back to previous directory",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutGoUp,
	},
	{
		Key:             keys.Space,
		DisplayKey:      "Space",
		Description:     "Select / unselect entry",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutToggle,
	},
	{
		Key:             "c",
		Description:     "Clear selection",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutClearSelection,
		Condition:       func(m *Model) bool { return m.sel.Len() > 0 },
	},
	{
		Key:             "r",
		Description:     "Refresh directory",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutRefresh,
	},
	{
		Key:             "y",
		Description:     "Copy remote path",
		Category:        CategoryBrowser,
		RequiresBrowser: true,
		Handler:         shortcutYank,
	},

	// Transfers
	{
		Key:         "D",
		Aliases:     []string{"d"},
		Description: "Download selection",
		Category:    CategoryTransfers,
		Handler:     shortcutDownload,
		Condition:   func(m *Model) bool { return m.sel.Len() > 0 },
	},
	{
		Key:         "R",
		Description: "Retry failed and cancelled jobs",
		Category:    CategoryTransfers,
		Handler:     shortcutRetry,
		Condition:   func(m *Model) bool { return m.hasRetryable() },
	},

	// Log
	{
		Key:         keys.Up,
		Aliases:     []string{"k"},
		DisplayKey:  "↑/k",
		Description: "Scroll up",
		Category:    CategoryLog,
		RequiresLog: true,
		Handler:     func(m *Model) (tea.Model, tea.Cmd) { m.logPane.ScrollUp(1); return m, nil },
	},
	{
		Key:         keys.Down,
		Aliases:     []string{"j"},
		DisplayKey:  "↓/j",
		Description: "Scroll down",
		Category:    CategoryLog,
		RequiresLog: true,
		Handler:     func(m *Model) (tea.Model, tea.Cmd) { m.logPane.ScrollDown(1); return m, nil },
	},
	{
		Key:         keys.PgUp,
		DisplayKey:  "PgUp",
		Description: "Page up",
		Category:    CategoryLog,
		RequiresLog: true,
		Handler:     func(m *Model) (tea.Model, tea.Cmd) { m.logPane.PageUp(); return m, nil },
	},
	{
		Key:         keys.PgDown,
		DisplayKey:  "PgDn",
		Description: "Page down",
		Category:    CategoryLog,
		RequiresLog: true,
		Handler:     func(m *Model) (tea.Model, tea.Cmd) { m.logPane.PageDown(); return m, nil },
	},
	{
		Key:         keys.Home,
		Aliases:     []string{"g"},
		DisplayKey:  "Home",
		Description: "Oldest line",
		Category:    CategoryLog,
		RequiresLog: true,
		Handler:     func(m *Model) (tea.Model, tea.Cmd) { m.logPane.Top(); return m, nil },
	},
	{
		Key:         keys.End,
		Aliases:     []string{"G", "f"},
		DisplayKey:  "End/f",
		Description: "Follow new output",
		Category:    CategoryLog,
		RequiresLog: true,
		Handler:     func(m *Model) (tea.Model, tea.Cmd) { m.logPane.Follow(); return m, nil },
	},

	// General
	// Note: "?" (help) is handled specially in ExecuteShortcut to avoid init cycle
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between browser and log",
		Category:    CategoryGeneral,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:         "q",
		Aliases:     []string{"Q", keys.CtrlC},
		DisplayKey:  "q/Q",
		Description: "Cancel all transfers and quit",
		Category:    CategoryGeneral,
		Handler:     shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid initialization cycle.
// It references ShortcutRegistry, so it can't be in the registry itself.
var helpShortcut = Shortcut{
	Key:         "?",
	Description: "Show this help",
	Category:    CategoryGeneral,
}

func (s Shortcut) matches(key string) bool {
	if s.Key == key {
		return true
	}
	for _, a := range s.Aliases {
		if a == key {
			return true
		}
	}
	return false
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
// This is used to filter which shortcuts appear in the help modal.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresBrowser && m.focus != FocusBrowser {
		return false
	}
	if s.RequiresLog && m.focus != FocusLog {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if a shortcut was found and its guards passed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	if key == helpShortcut.Key {
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if !s.matches(key) {
			continue
		}
		if !m.isShortcutApplicable(s) {
			logger.WithComponent("app").Debug("shortcut guard failed", "key", key, "category", s.Category)
			continue
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections builds the help modal from shortcuts whose
// guards pass in the current state.
func (m *Model) getApplicableHelpSections(registry []Shortcut) []ui.HelpSection {
	categories := make(map[string][]ui.HelpShortcut)
	for _, s := range append(registry, helpShortcut) {
		if !m.isShortcutApplicable(s) {
			continue
		}
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], ui.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	var sections []ui.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok {
			sections = append(sections, ui.HelpSection{Title: cat, Shortcuts: shortcuts})
		}
	}
	return sections
}

func moveBy(delta int) func(m *Model) (tea.Model, tea.Cmd) {
	return func(m *Model) (tea.Model, tea.Cmd) {
		m.nav.MoveCursor(delta)
		return m, nil
	}
}

func shortcutTop(m *Model) (tea.Model, tea.Cmd) {
	m.nav.SetCursor(0)
	return m, nil
}

func shortcutBottom(m *Model) (tea.Model, tea.Cmd) {
	m.nav.SetCursor(len(m.nav.Entries()) - 1)
	return m, nil
}

// shortcutEnter opens the entry under the cursor. Uncached directories are
// listed off the loop and committed when the listing arrives.
func shortcutEnter(m *Model) (tea.Model, tea.Cmd) {
	if m.loading != "" {
		return m, nil
	}
	dir := m.nav.Open(m.nav.Cursor())
	if dir == "" {
		return m, nil
	}
	m.loading = dir
	return m, m.listDir(dir, m.nav.Path(), listEnter)
}

func shortcutGoUp(m *Model) (tea.Model, tea.Cmd) {
	m.nav.GoUp()
	return m, nil
}

func shortcutToggle(m *Model) (tea.Model, tea.Cmd) {
	e, ok := m.nav.Current()
	if !ok || browser.IsParent(e) {
		return m, nil
	}
	m.sel.Toggle(e.RemotePath)
	m.nav.MoveCursor(1)
	return m, nil
}

func shortcutClearSelection(m *Model) (tea.Model, tea.Cmd) {
	n := m.sel.Len()
	m.sel.Clear()
	return m, m.ShowFlashInfo("Cleared " + strconv.Itoa(n) + " selected")
}

func shortcutRefresh(m *Model) (tea.Model, tea.Cmd) {
	if m.loading != "" {
		return m, nil
	}
	dir := m.nav.Path()
	m.loading = dir
	return m, m.listDir(dir, dir, listRefresh)
}

func shortcutYank(m *Model) (tea.Model, tea.Cmd) {
	e, ok := m.nav.Current()
	if !ok {
		return m, nil
	}
	text := m.opts.Target.SSHDestination() + ":" + e.RemotePath
	flash := m.ShowFlashSuccess("Copied " + text)
	if m.opts.Clipboard != nil {
		err := m.opts.Clipboard(text)
		if err == nil {
			return m, flash
		}
		logger.WithComponent("app").Debug("system clipboard unavailable, using OSC 52", "error", err)
	}
	return m, tea.Batch(tea.SetClipboard(text), flash)
}

func shortcutDownload(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(ui.NewConfirmDownloadState(m.sel.Roots(), m.config.GetDestination()))
	m.setMode(ModeConfirmingDownload)
	return m, nil
}

func shortcutRetry(m *Model) (tea.Model, tea.Cmd) {
	ids := m.queue.Retry()
	if len(ids) == 0 {
		return m, nil
	}
	m.startBatch()
	m.queue.Tick()
	return m, m.ShowFlashInfo("Retrying " + ui.Pluralize(len(ids), "transfer"))
}

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	if m.focus == FocusBrowser {
		m.focus = FocusLog
	} else {
		m.focus = FocusBrowser
	}
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(ui.NewHelpStateFromSections(m.getApplicableHelpSections(ShortcutRegistry)))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, m.beginExit()
}
