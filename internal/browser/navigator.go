// Package browser holds the navigation and selection state of the remote
// file browser. It performs no rendering and, apart from Fetch, no I/O.
package browser

import (
	"context"
	"path"

	"github.com/zhubert/rsync-tui/internal/remote"
)

// ParentName is the synthesized entry that leads to the parent directory.
const ParentName = ".."

// frame remembers where the cursor was in a directory we left.
type frame struct {
	path   string
	cursor int
}

// Navigator tracks the current remote directory, its entries, the cursor
// and the trail of directories entered to get here. Listings are cached
// per path for the lifetime of the session.
//
// Entering a directory is split in three steps so the listing can run off
// the event loop: Open resolves what to list, Fetch lists it, and Commit
// installs the result.
type Navigator struct {
	lister  remote.Lister
	current string
	history []frame
	entries []remote.Entry
	cursor  int
	cache   map[string][]remote.Entry
}

// New returns a navigator that has not loaded anything yet. Call Reset
// with the listing of the start directory.
func New(lister remote.Lister) *Navigator {
	return &Navigator{
		lister: lister,
		cache:  make(map[string][]remote.Entry),
	}
}

// Path is the current remote directory.
func (n *Navigator) Path() string { return n.current }

// Entries is the current listing, including the ".." entry when the
// current directory has a parent.
func (n *Navigator) Entries() []remote.Entry { return n.entries }

// Cursor is the highlighted index into Entries.
func (n *Navigator) Cursor() int { return n.cursor }

// Depth is how many directories goUp can return through.
func (n *Navigator) Depth() int { return len(n.history) }

// Current returns the entry under the cursor.
func (n *Navigator) Current() (remote.Entry, bool) {
	return n.At(n.cursor)
}

// At returns the entry at index.
func (n *Navigator) At(index int) (remote.Entry, bool) {
	if index < 0 || index >= len(n.entries) {
		return remote.Entry{}, false
	}
	return n.entries[index], true
}

// IsParent reports whether e is the synthesized ".." entry.
func IsParent(e remote.Entry) bool {
	return e.Name == ParentName
}

// Target resolves the directory Enter(index) would move to. ok is false
// for files and out-of-range indexes.
func (n *Navigator) Target(index int) (dir string, ok bool) {
	e, ok := n.At(index)
	if !ok || !e.IsDir() {
		return "", false
	}
	return e.RemotePath, true
}

// Cached returns the remembered listing of dir.
func (n *Navigator) Cached(dir string) ([]remote.Entry, bool) {
	entries, ok := n.cache[dir]
	return entries, ok
}

// Fetch lists dir through the lister. It touches no navigator state and is
// safe to call from another goroutine.
func (n *Navigator) Fetch(ctx context.Context, dir string) ([]remote.Entry, error) {
	return n.lister.List(ctx, dir)
}

// Commit moves into dir with the given listing, remembering the current
// directory and cursor for GoUp.
func (n *Navigator) Commit(dir string, entries []remote.Entry) {
	if n.current != "" {
		n.history = append(n.history, frame{path: n.current, cursor: n.cursor})
	}
	n.install(dir, entries)
	n.cursor = 0
}

// Reset shows dir without touching history. Used for the start directory
// and for refreshes of the current one.
func (n *Navigator) Reset(dir string, entries []remote.Entry) {
	n.install(dir, entries)
	n.clamp()
}

func (n *Navigator) install(dir string, entries []remote.Entry) {
	n.cache[dir] = entries
	n.current = dir
	n.entries = withParent(dir, entries)
}

// Open acts on the entry at index the way pressing enter does. ".."
// returns to the previous directory when there is history, and a cached
// directory is entered at once. Otherwise Open changes nothing and returns
// the directory to Fetch and then Commit. Files and out-of-range indexes
// return "".
func (n *Navigator) Open(index int) (fetch string) {
	dir, ok := n.Target(index)
	if !ok {
		return ""
	}
	if e, _ := n.At(index); IsParent(e) && n.GoUp() {
		return ""
	}
	if entries, hit := n.Cached(dir); hit {
		n.Commit(dir, entries)
		return ""
	}
	return dir
}

// GoUp returns to the directory entered from, restoring its cursor. With
// no history it does nothing and returns false.
func (n *Navigator) GoUp() bool {
	if len(n.history) == 0 {
		return false
	}
	f := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]

	n.current = f.path
	n.entries = withParent(f.path, n.cache[f.path])
	n.cursor = f.cursor
	n.clamp()
	return true
}

// MoveCursor moves by delta, clamped to the listing. No wraparound.
func (n *Navigator) MoveCursor(delta int) {
	n.cursor += delta
	n.clamp()
}

// SetCursor jumps to index, clamped to the listing.
func (n *Navigator) SetCursor(index int) {
	n.cursor = index
	n.clamp()
}

func (n *Navigator) clamp() {
	if n.cursor >= len(n.entries) {
		n.cursor = len(n.entries) - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
}

// withParent prepends ".." unless dir is the root.
func withParent(dir string, entries []remote.Entry) []remote.Entry {
	if dir == "/" || dir == "" {
		return entries
	}
	parent := remote.Entry{
		Name:       ParentName,
		Kind:       remote.KindDirectory,
		RemotePath: path.Dir(dir),
	}
	return append([]remote.Entry{parent}, entries...)
}
