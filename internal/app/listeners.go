package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/rsync-tui/internal/remote"
	"github.com/zhubert/rsync-tui/internal/transfer"
)

// listKind says what to do with a listing once it arrives.
type listKind int

const (
	listStart   listKind = iota // first directory, no history
	listEnter                   // entered from the current directory
	listRefresh                 // re-read of the current directory
)

// ListingMsg carries one remote listing back to the loop.
type ListingMsg struct {
	Dir     string
	From    string // directory shown when the listing was requested
	Kind    listKind
	Entries []remote.Entry
	Err     error
}

// TransferEventMsg wraps one runner event.
type TransferEventMsg struct {
	Event transfer.Event
}

// TickMsg drives queue promotion.
type TickMsg time.Time

// listDir lists dir off the loop. Fetch only touches the lister, so it is
// safe to run from the command goroutine.
func (m *Model) listDir(dir, from string, kind listKind) tea.Cmd {
	nav, ctx := m.nav, m.ctx
	return func() tea.Msg {
		entries, err := nav.Fetch(ctx, dir)
		if err != nil && ctx.Err() == context.Canceled {
			return nil
		}
		return ListingMsg{Dir: dir, From: from, Kind: kind, Entries: entries, Err: err}
	}
}

// listenForEvents waits for the next runner event. It is re-armed after
// each event, so one job's events reach the loop in order.
func listenForEvents(ch <-chan transfer.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TransferEventMsg{Event: ev}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
