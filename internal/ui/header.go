package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HeaderStats is the aggregate transfer state shown on the right of the header.
type HeaderStats struct {
	RateBps float64
	Running int
	Pending int
	Failed  int
}

// Header is the one-line title bar: program name, target, current remote
// directory and, on the right, the transfer summary.
type Header struct {
	width  int
	target string
	path   string
	stats  HeaderStats
}

func NewHeader() *Header { return &Header{} }

func (h *Header) SetWidth(width int)      { h.width = width }
func (h *Header) SetTarget(target string) { h.target = target }
func (h *Header) SetPath(path string)     { h.path = path }
func (h *Header) SetStats(s HeaderStats)  { h.stats = s }

func (h *Header) rightText() string {
	s := h.stats
	if s.Running == 0 && s.Pending == 0 && s.Failed == 0 {
		return ""
	}
	parts := []string{"↓ " + FormatRate(s.RateBps)}
	if s.Running > 0 {
		parts = append(parts, fmt.Sprintf("%d running", s.Running))
	}
	if s.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d queued", s.Pending))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	return strings.Join(parts, " · ") + " "
}

func (h *Header) View() string {
	title := " rsync-tui"
	left := title
	if h.target != "" {
		left += "  " + h.target
	}
	right := h.rightText()

	// The path gets whatever room is left and loses its head first.
	if h.path != "" {
		room := h.width - len([]rune(left)) - len([]rune(right)) - 3
		if room > 3 {
			left += ":" + TruncateLeft(h.path, room)
		}
	}

	return h.renderGradient(JoinEdges(left, right, h.width), len([]rune(title)))
}

// gradientStop parses a theme hex color, falling back to black.
func gradientStop(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// renderGradient paints content over a background blended from the primary
// color into the theme background. The first boldLen runes are the title;
// the trailing "N failed" counter is drawn in the error color.
func (h *Header) renderGradient(content string, boldLen int) string {
	runes := []rune(content)
	if len(runes) == 0 {
		return ""
	}

	theme := CurrentTheme()
	from, to := gradientStop(theme.Primary), gradientStop(theme.Bg)
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text))

	failAt := len(runes)
	if h.stats.Failed > 0 {
		if idx := strings.LastIndex(content, fmt.Sprintf("%d failed", h.stats.Failed)); idx >= 0 {
			failAt = len([]rune(content[:idx]))
		}
	}

	var b strings.Builder
	for i, r := range runes {
		st := base.Background(from.BlendLab(to, float64(i)/float64(len(runes))).Clamped())
		switch {
		case i >= failAt:
			st = st.Foreground(lipgloss.Color(theme.Error)).Bold(true)
		case i < boldLen:
			st = st.Bold(true)
		}
		b.WriteString(st.Render(string(r)))
	}
	return b.String()
}
