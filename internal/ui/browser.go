package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/rsync-tui/internal/browser"
	"github.com/zhubert/rsync-tui/internal/remote"
)

const (
	cursorMark = "➤ "
	markedMark = "[*] "
	plainMark  = "[ ] "
)

// BrowserPane renders one remote directory listing. It keeps its own
// scroll offset; everything else is copied in by the app on each change.
type BrowserPane struct {
	width, height int
	focused       bool

	path          string
	entries       []remote.Entry
	cursor        int
	offset        int
	marked        func(remotePath string) bool
	selectedCount int

	loading string
}

// NewBrowserPane creates an empty pane.
func NewBrowserPane() *BrowserPane {
	return &BrowserPane{focused: true}
}

// SetSize sets the outer size including borders.
func (b *BrowserPane) SetSize(width, height int) {
	b.width, b.height = width, height
	b.scrollToCursor()
}

func (b *BrowserPane) SetFocused(focused bool) {
	b.focused = focused
}

// SetListing replaces what is shown. marked reports selection membership
// and may be nil.
func (b *BrowserPane) SetListing(path string, entries []remote.Entry, cursor int, marked func(string) bool, selectedCount int) {
	if path != b.path {
		b.offset = 0
	}
	b.path = path
	b.entries = entries
	b.cursor = cursor
	b.marked = marked
	b.selectedCount = selectedCount
	b.scrollToCursor()
}

// SetLoading shows msg in the title while a listing is in flight; "" clears it.
func (b *BrowserPane) SetLoading(msg string) {
	b.loading = msg
}

// Offset is the index of the first visible row.
func (b *BrowserPane) Offset() int { return b.offset }

func (b *BrowserPane) visibleRows() int {
	return max(1, b.height-BorderSize-1)
}

// scrollToCursor moves the window the minimum needed to show the cursor.
func (b *BrowserPane) scrollToCursor() {
	rows := b.visibleRows()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+rows {
		b.offset = b.cursor - rows + 1
	}
	b.offset = max(0, min(b.offset, len(b.entries)-rows))
}

func (b *BrowserPane) title(width int) string {
	right, rightStyle := "", EntrySizeStyle
	if b.selectedCount > 0 {
		right, rightStyle = fmt.Sprintf("%d selected", b.selectedCount), EntryMarkedStyle
	}
	if b.loading != "" {
		right, rightStyle = b.loading, StatusLoadingStyle
	}
	rw := runewidth.StringWidth(right)
	left := TruncateLeft(b.path, max(1, width-rw-1))
	gap := max(1, width-runewidth.StringWidth(left)-rw)
	return PanelTitleStyle.Render(left) + strings.Repeat(" ", gap) + rightStyle.Render(right)
}

func (b *BrowserPane) row(e remote.Entry, index, width int) string {
	isCursor := index == b.cursor
	isMarked := !browser.IsParent(e) && b.marked != nil && b.marked(e.RemotePath)

	prefix := "  "
	if isCursor {
		prefix = cursorMark
	}
	mark := plainMark
	if isMarked {
		mark = markedMark
	}
	if browser.IsParent(e) {
		mark = strings.Repeat(" ", len(plainMark))
	}

	name := e.Name
	size := ""
	style := EntryStyle
	switch {
	case e.IsDir():
		name += "/"
		style = EntryDirStyle
	default:
		size = FormatBytes(e.Size)
	}
	if e.IsLink {
		style = EntryLinkStyle
		if e.LinkTarget != "" {
			name += " -> " + e.LinkTarget
		}
	}
	if isMarked {
		style = EntryMarkedStyle
	}

	left := prefix + mark + name
	sizeWidth := runewidth.StringWidth(size)
	left = Truncate(left, max(1, width-sizeWidth-1))
	gap := max(1, width-runewidth.StringWidth(left)-sizeWidth)

	if isCursor && b.focused {
		return EntryCursorStyle.Render(left + strings.Repeat(" ", gap) + size)
	}
	return style.Render(left) + strings.Repeat(" ", gap) + EntrySizeStyle.Render(size)
}

// View renders the pane.
func (b *BrowserPane) View() string {
	style := PanelStyle
	if b.focused {
		style = PanelFocusedStyle
	}
	inner := max(1, b.width-BorderSize)

	lines := []string{b.title(inner)}
	end := min(len(b.entries), b.offset+b.visibleRows())
	for i := b.offset; i < end; i++ {
		lines = append(lines, b.row(b.entries[i], i, inner))
	}
	if b.loading == "" && !hasChildren(b.entries) {
		lines = append(lines, EmptyStyle.Render("  (empty directory)"))
	}

	content := lipgloss.NewStyle().
		MaxHeight(max(1, b.height-BorderSize)).
		Render(strings.Join(lines, "\n"))
	return style.Width(b.width).Height(b.height).Render(content)
}

func hasChildren(entries []remote.Entry) bool {
	for _, e := range entries {
		if !browser.IsParent(e) {
			return true
		}
	}
	return false
}
