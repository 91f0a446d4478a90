package transfer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/process"
)

// killGrace is how long a cancelled transfer gets to exit after SIGTERM
// before the whole process group is killed.
const killGrace = 3 * time.Second

// Handle is the live process behind a running job. It is owned by the
// runner goroutine until done is closed.
type Handle struct {
	pid       int
	done      chan struct{}
	cancelled atomic.Bool
	once      sync.Once
}

func newHandle(pid int) *Handle {
	return &Handle{pid: pid, done: make(chan struct{})}
}

// PID is the process group leader.
func (h *Handle) PID() int { return h.pid }

// Done is closed after the exit event has been delivered.
func (h *Handle) Done() <-chan struct{} { return h.done }

// CancelRequested reports whether Cancel was called.
func (h *Handle) CancelRequested() bool { return h.cancelled.Load() }

// Cancel asks the process group to terminate and escalates to SIGKILL
// after killGrace. Group members that outlive rsync, such as an ssh
// ignoring SIGTERM, are killed once rsync has exited. It does not wait;
// watch Done.
func (h *Handle) Cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		if h.pid <= 0 {
			return
		}
		_ = process.TerminateGroup(h.pid)
		go func() {
			select {
			case <-h.done:
			case <-time.After(killGrace):
			}
			if process.GroupAlive(h.pid) {
				logger.WithComponent("transfer").Debug("killing leftover process group", "pgid", h.pid)
				_ = process.KillGroup(h.pid)
			}
		}()
	})
}

// Kill force-kills the process group immediately.
func (h *Handle) Kill() {
	h.cancelled.Store(true)
	if h.pid > 0 {
		_ = process.KillGroup(h.pid)
	}
}
