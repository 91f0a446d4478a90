package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zhubert/rsync-tui/internal/browser"
	"github.com/zhubert/rsync-tui/internal/remote"
)

func testEntries(n int) []remote.Entry {
	entries := []remote.Entry{{Name: browser.ParentName, Kind: remote.KindDirectory, RemotePath: "/"}}
	entries = append(entries, remote.Entry{Name: "photos", Kind: remote.KindDirectory, RemotePath: "/srv/photos"})
	for i := 0; len(entries) < n; i++ {
		entries = append(entries, remote.Entry{
			Name:       fmt.Sprintf("file%02d.bin", i),
			Kind:       remote.KindFile,
			Size:       int64(1024 * (i + 1)),
			RemotePath: fmt.Sprintf("/srv/file%02d.bin", i),
		})
	}
	return entries
}

func TestBrowserPane_RendersEntries(t *testing.T) {
	b := NewBrowserPane()
	b.SetSize(60, 12)
	marked := func(p string) bool { return p == "/srv/file00.bin" }
	b.SetListing("/srv", testEntries(4), 1, marked, 1)

	view := stripANSI(b.View())
	for _, want := range []string{"/srv", "1 selected", "➤ [ ] photos/", "[*] file00.bin", "1.0 KiB", "2.0 KiB"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "[ ] ..") || strings.Contains(view, "[*] ..") {
		t.Error("parent entry should not carry a selection mark")
	}
}

func TestBrowserPane_ScrollFollowsCursor(t *testing.T) {
	b := NewBrowserPane()
	b.SetSize(60, 10) // 7 visible rows
	entries := testEntries(30)

	b.SetListing("/srv", entries, 0, nil, 0)
	if b.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", b.Offset())
	}

	b.SetListing("/srv", entries, 20, nil, 0)
	rows := b.visibleRows()
	if b.Offset() != 20-rows+1 {
		t.Errorf("offset = %d, want %d", b.Offset(), 20-rows+1)
	}
	if !strings.Contains(stripANSI(b.View()), "➤ [ ] "+entries[20].Name) {
		t.Error("cursor row should be visible")
	}

	// moving up inside the window keeps the offset
	prev := b.Offset()
	b.SetListing("/srv", entries, prev+1, nil, 0)
	if b.Offset() != prev {
		t.Errorf("offset moved to %d, want %d", b.Offset(), prev)
	}

	b.SetListing("/srv", entries, 2, nil, 0)
	if b.Offset() != 2 {
		t.Errorf("offset = %d, want 2", b.Offset())
	}

	b.SetListing("/other", entries[:3], 0, nil, 0)
	if b.Offset() != 0 {
		t.Errorf("new directory should reset offset, got %d", b.Offset())
	}
}

func TestBrowserPane_EmptyDirectory(t *testing.T) {
	b := NewBrowserPane()
	b.SetSize(40, 8)
	b.SetListing("/srv/empty", testEntries(1), 0, nil, 0)

	view := stripANSI(b.View())
	if !strings.Contains(view, "(empty directory)") {
		t.Errorf("expected empty marker:\n%s", view)
	}
	if !strings.Contains(view, "..") {
		t.Error("parent entry should still be listed")
	}
}

func TestBrowserPane_Loading(t *testing.T) {
	b := NewBrowserPane()
	b.SetSize(40, 8)
	b.SetLoading("listing…")
	view := stripANSI(b.View())
	if !strings.Contains(view, "listing…") {
		t.Error("loading text missing")
	}
	if strings.Contains(view, "(empty directory)") {
		t.Error("should not claim empty while loading")
	}
}

func TestBrowserPane_SymlinkAndTruncation(t *testing.T) {
	b := NewBrowserPane()
	b.SetSize(30, 8)
	entries := []remote.Entry{
		{Name: "current", Kind: remote.KindFile, IsLink: true, LinkTarget: "releases/2024", RemotePath: "/srv/current"},
		{Name: strings.Repeat("x", 80), Kind: remote.KindFile, Size: 5, RemotePath: "/srv/long"},
	}
	b.SetListing("/srv", entries, 0, nil, 0)

	view := stripANSI(b.View())
	if !strings.Contains(view, "current -> ") {
		t.Errorf("link target missing:\n%s", view)
	}
	if !strings.Contains(view, "…") {
		t.Error("long name should be truncated")
	}
	for _, line := range strings.Split(view, "\n") {
		if w := len([]rune(line)); w > 30 {
			t.Errorf("line wider than pane (%d): %q", w, line)
		}
	}
}
