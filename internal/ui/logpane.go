package ui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/rsync-tui/internal/transfer"
)

// LogPane shows raw transfer output, newest at the bottom. It follows the
// tail until the operator scrolls up, and again once they return to the end.
type LogPane struct {
	width, height int
	focused       bool
	viewport      viewport.Model
	followTail    bool
	count         int
	seq           uint64
}

func NewLogPane() *LogPane {
	vp := viewport.New()
	vp.SoftWrap = false
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return &LogPane{viewport: vp, followTail: true}
}

// SetSize sets the outer size including borders.
func (l *LogPane) SetSize(width, height int) {
	l.width, l.height = width, height
	l.viewport.SetWidth(max(1, width-BorderSize))
	l.viewport.SetHeight(max(1, height-BorderSize-1))
	if l.followTail {
		l.viewport.GotoBottom()
	}
}

func (l *LogPane) SetFocused(focused bool) {
	l.focused = focused
}

// SetLines replaces the content with lines. seq identifies the content;
// an unchanged seq leaves the viewport as it is.
func (l *LogPane) SetLines(lines []transfer.LogLine, seq uint64) {
	if seq == l.seq && len(lines) == l.count {
		return
	}
	l.seq = seq
	l.count = len(lines)
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(highlightLogLine(line))
	}
	l.viewport.SetContent(sb.String())
	if l.followTail {
		l.viewport.GotoBottom()
	}
}

// highlightLogLine renders "[shortid] text", coloring error lines.
func highlightLogLine(line transfer.LogLine) string {
	id := line.JobID
	if len(id) > 8 {
		id = id[:8]
	}
	textStyle := LogTextStyle
	if strings.HasPrefix(line.Text, "error") || strings.HasPrefix(line.Text, "rsync error") ||
		strings.HasPrefix(line.Text, "rsync:") {
		textStyle = LogErrorStyle
	}
	return LogJobStyle.Render("["+id+"]") + " " + textStyle.Render(line.Text)
}

// ScrollUp moves n lines toward older output and stops following.
func (l *LogPane) ScrollUp(n int) {
	l.viewport.ScrollUp(n)
	l.followTail = l.viewport.AtBottom()
}

// ScrollDown moves n lines toward newer output, resuming follow at the end.
func (l *LogPane) ScrollDown(n int) {
	l.viewport.ScrollDown(n)
	l.followTail = l.viewport.AtBottom()
}

func (l *LogPane) PageUp() {
	l.viewport.PageUp()
	l.followTail = l.viewport.AtBottom()
}

func (l *LogPane) PageDown() {
	l.viewport.PageDown()
	l.followTail = l.viewport.AtBottom()
}

// Follow jumps to the newest line and keeps following.
func (l *LogPane) Follow() {
	l.followTail = true
	l.viewport.GotoBottom()
}

// Top jumps to the oldest retained line.
func (l *LogPane) Top() {
	l.viewport.GotoTop()
	l.followTail = l.viewport.AtBottom()
}

func (l *LogPane) FollowingTail() bool { return l.followTail }

func (l *LogPane) title(width int) string {
	left := PanelTitleStyle.Render("Log")
	if l.count == 0 {
		return left
	}
	indicator := lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Render("[follow]")
	if !l.followTail {
		indicator = lipgloss.NewStyle().Foreground(ColorTextMuted).Render("[end: follow]")
	}
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(indicator))
	return left + strings.Repeat(" ", gap) + indicator
}

// View renders the pane.
func (l *LogPane) View() string {
	style := PanelStyle
	if l.focused {
		style = PanelFocusedStyle
	}
	inner := max(1, l.width-BorderSize)
	innerHeight := max(1, l.height-BorderSize)

	body := l.viewport.View()
	if l.count == 0 {
		body = EmptyStyle.Render("  Transfer output appears here")
	}
	content := lipgloss.NewStyle().
		MaxHeight(innerHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, l.title(inner), body))
	return style.Width(l.width).Height(l.height).Render(content)
}
