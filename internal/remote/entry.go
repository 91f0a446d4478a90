// Package remote lists directories on the remote host and runs the
// one-off setup probes (rsync present, home directory) before the TUI starts.
package remote

import (
	"context"
	"path"
)

// Kind classifies a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is one child of a listed directory. Entries are values and are
// never mutated after listing.
type Entry struct {
	Name       string
	Kind       Kind
	Size       int64 // bytes; meaningful for files only
	RemotePath string
	IsLink     bool
	LinkTarget string
}

// IsDir reports whether the entry can be entered.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Lister fetches the entries of one remote directory. Implementations do
// no caching.
type Lister interface {
	List(ctx context.Context, dir string) ([]Entry, error)
}

// Join builds a child path the way the remote side sees it.
func Join(dir, name string) string {
	return path.Join(dir, name)
}
