package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zhubert/rsync-tui/internal/transfer"
)

func testLogLines(n int) []transfer.LogLine {
	lines := make([]transfer.LogLine, n)
	for i := range lines {
		lines[i] = transfer.LogLine{JobID: "0123456789abcdef", Text: fmt.Sprintf("line %03d", i)}
	}
	return lines
}

func TestLogPane_FollowsTail(t *testing.T) {
	l := NewLogPane()
	l.SetSize(60, 10)
	l.SetLines(testLogLines(50), 50)

	view := stripANSI(l.View())
	if !strings.Contains(view, "line 049") {
		t.Errorf("newest line should be visible:\n%s", view)
	}
	if strings.Contains(view, "line 000") {
		t.Error("oldest line should be scrolled away")
	}
	if !strings.Contains(view, "[01234567] line 049") {
		t.Error("lines should carry the short job id")
	}
	if !strings.Contains(view, "[follow]") {
		t.Error("follow indicator missing")
	}
}

func TestLogPane_ScrollStopsFollowing(t *testing.T) {
	l := NewLogPane()
	l.SetSize(60, 10)
	l.SetLines(testLogLines(50), 50)

	l.ScrollUp(5)
	if l.FollowingTail() {
		t.Fatal("scrolling up should stop following")
	}
	l.SetLines(testLogLines(60), 60)
	if strings.Contains(stripANSI(l.View()), "line 059") {
		t.Error("new lines must not yank the view while scrolled up")
	}

	l.Follow()
	if !l.FollowingTail() || !strings.Contains(stripANSI(l.View()), "line 059") {
		t.Error("Follow should jump to the newest line")
	}

	l.Top()
	if !strings.Contains(stripANSI(l.View()), "line 000") {
		t.Error("Top should show the oldest line")
	}
	l.PageDown()
	l.ScrollDown(1000)
	if !l.FollowingTail() {
		t.Error("reaching the end should resume following")
	}
}

func TestLogPane_SameSeqSkipsRebuild(t *testing.T) {
	l := NewLogPane()
	l.SetSize(60, 10)
	l.SetLines(testLogLines(5), 5)

	changed := testLogLines(5)
	changed[4].Text = "rewritten"
	l.SetLines(changed, 5)
	if strings.Contains(stripANSI(l.View()), "rewritten") {
		t.Error("content rebuilt although seq did not change")
	}
	l.SetLines(changed, 6)
	if !strings.Contains(stripANSI(l.View()), "rewritten") {
		t.Error("new seq should rebuild the content")
	}
}

func TestLogPane_Empty(t *testing.T) {
	l := NewLogPane()
	l.SetSize(60, 8)
	if !strings.Contains(stripANSI(l.View()), "Transfer output appears here") {
		t.Error("empty placeholder missing")
	}
}

func TestHighlightLogLine(t *testing.T) {
	got := stripANSI(highlightLogLine(transfer.LogLine{JobID: "abc", Text: "rsync error: timeout"}))
	if got != "[abc] rsync error: timeout" {
		t.Errorf("highlightLogLine() = %q", got)
	}
}
