package browser

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/zhubert/rsync-tui/internal/remote"
)

// fakeLister serves a fixed tree and counts calls per path.
type fakeLister struct {
	tree  map[string][]remote.Entry
	fail  map[string]error
	calls map[string]int
}

func (f *fakeLister) List(_ context.Context, dir string) ([]remote.Entry, error) {
	f.calls[dir]++
	if err := f.fail[dir]; err != nil {
		return nil, err
	}
	return f.tree[dir], nil
}

func dir(parent, name string) remote.Entry {
	return remote.Entry{Name: name, Kind: remote.KindDirectory, RemotePath: remote.Join(parent, name)}
}

func file(parent, name string, size int64) remote.Entry {
	return remote.Entry{Name: name, Kind: remote.KindFile, Size: size, RemotePath: remote.Join(parent, name)}
}

func newTestNavigator(t *testing.T) (*Navigator, *fakeLister) {
	t.Helper()
	l := &fakeLister{
		tree: map[string][]remote.Entry{
			"/":        {dir("/", "a"), dir("/", "srv")},
			"/a":       {file("/a", "b.txt", 10), dir("/a", "c"), dir("/a", "empty")},
			"/a/c":     {file("/a/c", "d.bin", 20)},
			"/srv":     {file("/srv", "x", 1)},
			"/a/empty": {},
		},
		fail:  map[string]error{},
		calls: map[string]int{},
	}
	n := New(l)
	entries, err := n.Fetch(context.Background(), "/a")
	if err != nil {
		t.Fatal(err)
	}
	n.Reset("/a", entries)
	return n, l
}

func indexOf(n *Navigator, name string) int {
	for i, e := range n.Entries() {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// enter runs Open, Fetch and Commit synchronously.
func enter(ctx context.Context, n *Navigator, index int) error {
	dir := n.Open(index)
	if dir == "" {
		return nil
	}
	entries, err := n.Fetch(ctx, dir)
	if err != nil {
		return err
	}
	n.Commit(dir, entries)
	return nil
}

func TestNavigator_ParentEntry(t *testing.T) {
	n, _ := newTestNavigator(t)

	first, _ := n.At(0)
	if !IsParent(first) || first.RemotePath != "/" || !first.IsDir() {
		t.Errorf("first entry = %+v, want .. pointing at /", first)
	}
	if len(n.Entries()) != 4 {
		t.Errorf("entries = %d, want 4", len(n.Entries()))
	}

	n.Reset("/", []remote.Entry{dir("/", "a")})
	if e, _ := n.At(0); IsParent(e) {
		t.Error("root must not have a parent entry")
	}
}

func TestNavigator_EnterAndGoUp(t *testing.T) {
	n, l := newTestNavigator(t)
	ctx := context.Background()

	n.SetCursor(indexOf(n, "c"))
	if err := enter(ctx, n, n.Cursor()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if n.Path() != "/a/c" || n.Cursor() != 0 || n.Depth() != 1 {
		t.Errorf("after enter: path=%s cursor=%d depth=%d", n.Path(), n.Cursor(), n.Depth())
	}

	if !n.GoUp() {
		t.Fatal("GoUp returned false")
	}
	if n.Path() != "/a" {
		t.Errorf("path after GoUp = %s", n.Path())
	}
	if e, _ := n.Current(); e.Name != "c" {
		t.Errorf("cursor should return to c, got %q", e.Name)
	}

	// second visit is served from cache
	if err := enter(ctx, n, indexOf(n, "c")); err != nil {
		t.Fatal(err)
	}
	if l.calls["/a/c"] != 1 {
		t.Errorf("lister called %d times for /a/c", l.calls["/a/c"])
	}
}

func TestNavigator_EnterFileIsNoop(t *testing.T) {
	n, l := newTestNavigator(t)
	if err := enter(context.Background(), n, indexOf(n, "b.txt")); err != nil {
		t.Fatal(err)
	}
	if n.Path() != "/a" || n.Depth() != 0 {
		t.Errorf("entering a file moved to %s", n.Path())
	}
	if err := enter(context.Background(), n, 99); err != nil {
		t.Fatal(err)
	}
	if len(l.calls) != 1 {
		t.Errorf("unexpected listings: %v", l.calls)
	}
}

func TestNavigator_EnterParentEntry(t *testing.T) {
	n, _ := newTestNavigator(t)
	if err := enter(context.Background(), n, 0); err != nil {
		t.Fatal(err)
	}
	if n.Path() != "/" {
		t.Fatalf("path = %s, want /", n.Path())
	}
	n.GoUp()
	if n.Path() != "/a" {
		t.Errorf("GoUp after .. returned to %s", n.Path())
	}
}

func TestNavigator_EnterFailureLeavesState(t *testing.T) {
	n, l := newTestNavigator(t)
	l.fail["/a/c"] = errors.New("permission denied")
	n.SetCursor(indexOf(n, "c"))
	before := n.Cursor()

	if err := enter(context.Background(), n, before); err == nil {
		t.Fatal("expected error")
	}
	if n.Path() != "/a" || n.Cursor() != before || n.Depth() != 0 {
		t.Errorf("state changed on failure: path=%s cursor=%d depth=%d", n.Path(), n.Cursor(), n.Depth())
	}
	if _, ok := n.Cached("/a/c"); ok {
		t.Error("failed listing must not be cached")
	}
}

func TestNavigator_GoUpWithoutHistory(t *testing.T) {
	n, _ := newTestNavigator(t)
	if n.GoUp() {
		t.Error("GoUp with empty history should report false")
	}
	if n.Path() != "/a" {
		t.Errorf("path = %s", n.Path())
	}
}

func TestNavigator_EmptyDirectory(t *testing.T) {
	n, _ := newTestNavigator(t)
	if err := enter(context.Background(), n, indexOf(n, "empty")); err != nil {
		t.Fatal(err)
	}
	if len(n.Entries()) != 1 || !IsParent(n.Entries()[0]) {
		t.Errorf("empty dir entries = %+v", n.Entries())
	}
	n.MoveCursor(5)
	if n.Cursor() != 0 {
		t.Errorf("cursor = %d", n.Cursor())
	}
}

func TestNavigator_MoveCursorClamps(t *testing.T) {
	n, _ := newTestNavigator(t)
	tests := []struct {
		delta int
		want  int
	}{
		{1, 1},
		{10, 3},
		{1, 3},
		{-2, 1},
		{-10, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		n.MoveCursor(tt.delta)
		if n.Cursor() != tt.want {
			t.Errorf("MoveCursor(%d) -> %d, want %d", tt.delta, n.Cursor(), tt.want)
		}
	}
}

func TestNavigator_ResetClampsCursor(t *testing.T) {
	n, _ := newTestNavigator(t)
	n.SetCursor(3)
	n.Reset("/a", []remote.Entry{file("/a", "only", 1)})
	if n.Cursor() != 1 {
		t.Errorf("cursor after shrinking refresh = %d, want 1", n.Cursor())
	}
	if n.Depth() != 0 {
		t.Error("Reset must not push history")
	}
}

func TestNavigator_ParentEntryPopsHistory(t *testing.T) {
	n, l := newTestNavigator(t)
	ctx := context.Background()
	n.SetCursor(indexOf(n, "c"))
	if err := enter(ctx, n, n.Cursor()); err != nil {
		t.Fatal(err)
	}

	if dir := n.Open(0); dir != "" {
		t.Fatalf("Open(..) asked to fetch %s", dir)
	}
	if n.Path() != "/a" || n.Depth() != 0 {
		t.Errorf("after ..: path=%s depth=%d", n.Path(), n.Depth())
	}
	if e, _ := n.Current(); e.Name != "c" {
		t.Errorf("cursor should return to c, got %q", e.Name)
	}
	if l.calls["/a"] != 1 {
		t.Errorf("/a listed %d times", l.calls["/a"])
	}
}

func TestNavigator_OpenReportsUncached(t *testing.T) {
	n, _ := newTestNavigator(t)
	if dir := n.Open(indexOf(n, "c")); dir != "/a/c" {
		t.Fatalf("Open = %q, want /a/c", dir)
	}
	if n.Path() != "/a" || n.Depth() != 0 {
		t.Error("Open must not move before the listing is committed")
	}
	if dir := n.Open(indexOf(n, "b.txt")); dir != "" {
		t.Errorf("Open(file) = %q", dir)
	}
}

// Any sequence of enter/goUp pairs must bring the path back.
func TestNavigator_RoundTrip(t *testing.T) {
	n, _ := newTestNavigator(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	for step := 0; step < 500; step++ {
		if rng.Intn(3) == 0 {
			n.GoUp()
			continue
		}
		var dirs []int
		for i, e := range n.Entries() {
			if e.IsDir() && !IsParent(e) {
				dirs = append(dirs, i)
			}
		}
		if len(dirs) == 0 {
			continue
		}
		before, depth := n.Path(), n.Depth()
		if err := enter(ctx, n, dirs[rng.Intn(len(dirs))]); err != nil {
			t.Fatal(err)
		}
		if !n.GoUp() {
			t.Fatalf("step %d: GoUp failed after enter", step)
		}
		if n.Path() != before || n.Depth() != depth {
			t.Fatalf("step %d: round trip %s -> %s (depth %d -> %d)", step, before, n.Path(), depth, n.Depth())
		}
		enter(ctx, n, dirs[rng.Intn(len(dirs))])
	}
}
