package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// DefaultFlashDuration is how long a flash message replaces the bindings.
const DefaultFlashDuration = 4 * time.Second

// FlashType is the severity of a flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

func (t FlashType) icon() string {
	switch t {
	case FlashSuccess:
		return "✓"
	case FlashWarning:
		return "⚠"
	case FlashError:
		return "✕"
	default:
		return "ℹ"
	}
}

func (t FlashType) style() lipgloss.Style {
	switch t {
	case FlashSuccess:
		return FlashSuccessStyle
	case FlashWarning:
		return FlashWarningStyle
	case FlashError:
		return FlashErrorStyle
	default:
		return FlashInfoStyle
	}
}

// FlashMessage is a transient footer message.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has been shown long enough.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg asks the app to clear expired flash messages.
type FlashTickMsg time.Time

// FlashTick schedules the next expiry check.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FooterContext is the app state that decides which bindings are shown.
type FooterContext struct {
	Confirming   bool // download modal open
	LogFocused   bool
	HasSelection bool
	HasFailed    bool
	Exiting      bool
	Cancelling   int // processes still shutting down
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	bindings     []KeyBinding
	context      FooterContext
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "↑/↓", Desc: "move"},
			{Key: "space", Desc: "select"},
			{Key: "enter", Desc: "open"},
			{Key: "←", Desc: "up"},
			{Key: "D", Desc: "download"},
			{Key: "R", Desc: "retry failed"},
			{Key: "tab", Desc: "log"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(c FooterContext) {
	f.context = c
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows text for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

// SetFlashWithDuration shows text for d.
func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{Text: text, Type: t, CreatedAt: time.Now(), Duration: d}
}

// ClearFlash removes the flash message.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired drops an expired flash and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

func (f *Footer) activeBindings() []KeyBinding {
	c := f.context
	switch {
	case c.Confirming:
		return []KeyBinding{
			{Key: "enter", Desc: "start download"},
			{Key: "esc", Desc: "cancel"},
		}
	case c.LogFocused:
		return []KeyBinding{
			{Key: "↑/↓", Desc: "scroll"},
			{Key: "pgup/dn", Desc: "page"},
			{Key: "end", Desc: "follow"},
			{Key: "tab", Desc: "browser"},
			{Key: "q", Desc: "quit"},
		}
	}
	var out []KeyBinding
	for _, b := range f.bindings {
		if b.Key == "D" && !c.HasSelection {
			continue
		}
		if b.Key == "R" && !c.HasFailed {
			continue
		}
		out = append(out, b)
	}
	return out
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		st := f.flashMessage.Type.style()
		content := st.Render(f.flashMessage.Type.icon() + " " + f.flashMessage.Text)
		return FooterStyle.Width(f.width).Render(content)
	}

	if f.context.Exiting {
		msg := "Cancelling transfers..."
		if f.context.Cancelling > 0 {
			msg = "Waiting for " + Pluralize(f.context.Cancelling, "transfer") + " to stop..."
		}
		return FooterStyle.Width(f.width).Render(StatusLoadingStyle.Render(msg))
	}

	var parts []string
	for _, b := range f.activeBindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}
	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
