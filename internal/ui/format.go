package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Pluralize renders a count with its noun ("1 transfer", "3 transfers").
func Pluralize(n int, noun string) string {
	return english.Plural(n, noun, "")
}

// FormatBytes renders a byte count in binary units ("1.2 GiB").
func FormatBytes(n int64) string {
	if n < 0 {
		return "?"
	}
	return humanize.IBytes(uint64(n))
}

// FormatRate renders a throughput, or a dash when idle.
func FormatRate(bps float64) string {
	if bps <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(bps)) + "/s"
}

// FormatETA renders d as m:ss or h:mm:ss.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	s := int(d.Round(time.Second) / time.Second)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ProgressBar draws a width-cell bar filled to pct percent.
func ProgressBar(width, pct int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(100, pct))
	filled := width * pct / 100
	return ProgressFilledStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// Truncate shortens s to width cells, ending with an ellipsis. s may
// contain ANSI styling.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// TruncateLeft keeps the tail of plain text s, which is the informative
// end of a path, prefixing an ellipsis when anything was cut.
func TruncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var clusters []string
	var widths []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
		widths = append(widths, g.Width())
	}
	used := 1 // ellipsis
	start := len(clusters)
	for start > 0 && used+widths[start-1] <= width {
		start--
		used += widths[start]
	}
	return "…" + strings.Join(clusters[start:], "")
}

// JoinEdges places left and right on one line of width cells, truncating
// left when they do not fit.
func JoinEdges(left, right string, width int) string {
	rw := runewidth.StringWidth(right)
	avail := width - rw - 1
	if avail < 1 {
		return Truncate(left, width)
	}
	left = Truncate(left, avail)
	gap := width - runewidth.StringWidth(left) - rw
	return left + strings.Repeat(" ", max(1, gap)) + right
}
