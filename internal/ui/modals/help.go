package modals

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// helpOverhead is the title and help line plus their margins.
const helpOverhead = 4

// HelpState is a scrollable cheat sheet of the shortcuts that apply
// right now. The app layer builds the sections.
type HelpState struct {
	sections []HelpSection
	keyWidth int
	vp       viewport.Model
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.vp.TotalLineCount() > s.vp.Height() {
		return "↑/↓ PgUp/PgDn: scroll  Esc or ?: close"
	}
	return "Esc or ?: close"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.vp.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

// Update scrolls the sheet.
func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

// SetSize fits the sheet into the space the modal gets, capped at
// HelpModalMaxVisible rows.
func (s *HelpState) SetSize(width, height int) {
	rows := height - helpOverhead
	if rows > HelpModalMaxVisible {
		rows = HelpModalMaxVisible
	}
	if rows < 1 {
		rows = 1
	}
	if width != s.vp.Width() {
		s.vp.SetWidth(width)
		s.vp.SetContent(s.content(width))
	}
	s.vp.SetHeight(rows)
}

// content renders every section, keys in one aligned column.
func (s *HelpState) content(width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Width(s.keyWidth + 2)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)
	titleStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)

	var lines []string
	for i, section := range s.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, titleStyle.Render(section.Title))
		for _, sc := range section.Shortcuts {
			desc := sc.Desc
			if room := width - s.keyWidth - 4; room > 0 {
				desc = ansi.Truncate(desc, room, "…")
			}
			lines = append(lines, "  "+keyStyle.Render(sc.Key)+descStyle.Render(desc))
		}
	}
	return strings.Join(lines, "\n")
}

// NewHelpStateFromSections creates a HelpState listing sections in order.
func NewHelpStateFromSections(sections []HelpSection) *HelpState {
	s := &HelpState{sections: sections}
	for _, section := range sections {
		for _, sc := range section.Shortcuts {
			if w := ansi.StringWidth(sc.Key); w > s.keyWidth {
				s.keyWidth = w
			}
		}
	}
	s.vp = viewport.New()
	s.vp.SoftWrap = false
	s.SetSize(ModalWidth, HelpModalMaxVisible+helpOverhead)
	return s
}
