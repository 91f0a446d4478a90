package transfer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/zhubert/rsync-tui/internal/errors"
	pexec "github.com/zhubert/rsync-tui/internal/exec"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/process"
	"github.com/zhubert/rsync-tui/internal/progress"
)

// EventKind tags what a runner is reporting.
type EventKind int

const (
	EventProgress EventKind = iota
	EventLog
	EventExit
)

// Event is one message from a running job. Events of a single job are
// delivered in the order the process produced them, and EventExit is
// always last.
type Event struct {
	JobID    string
	Kind     EventKind
	Progress progress.Event // EventProgress
	Line     string         // EventLog
	Result   Result         // EventExit
}

// Result is how a job's process ended.
type Result struct {
	Status   Status
	ExitCode int
	Reason   string
}

// Starter launches the process for one job. The returned handle's Done
// channel closes after the job's EventExit has been sent on events.
type Starter interface {
	Start(jobID string, args []string, events chan<- Event) (*Handle, error)
}

// defaultDrainTimeout bounds how long output is read after the process
// exits. A grandchild holding the pipe open must not stall the job.
const defaultDrainTimeout = 2 * time.Second

// Runner starts rsync processes.
type Runner struct {
	Binary       string
	DrainTimeout time.Duration
}

// NewRunner returns a runner for the rsync on PATH.
func NewRunner() *Runner {
	return &Runner{Binary: "rsync", DrainTimeout: defaultDrainTimeout}
}

// Start spawns the process in its own process group. stdout and stderr
// share one pipe so their lines stay in order.
func (r *Runner) Start(jobID string, args []string, events chan<- Event) (*Handle, error) {
	log := logger.WithJob(jobID)

	rd, wr, err := os.Pipe()
	if err != nil {
		return nil, errors.ProcessSpawnError(r.Binary, err)
	}

	cmd := exec.Command(r.Binary, args...)
	cmd.Stdout = wr
	cmd.Stderr = wr
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	process.NewGroup(cmd)

	if err := cmd.Start(); err != nil {
		rd.Close()
		wr.Close()
		log.Error("spawn failed", "binary", r.Binary, "error", err)
		return nil, errors.ProcessSpawnError(r.Binary, err)
	}
	// the child holds its own copy of the write end
	wr.Close()

	h := newHandle(cmd.Process.Pid)
	log.Info("process started", "pid", h.pid, "binary", r.Binary, "args", strings.Join(args, " "))
	go r.supervise(jobID, cmd, rd, h, events)
	return h, nil
}

func (r *Runner) supervise(jobID string, cmd *exec.Cmd, rd *os.File, h *Handle, events chan<- Event) {
	log := logger.WithJob(jobID)

	pumped := make(chan string, 1)
	go func() {
		pumped <- pump(jobID, rd, events)
	}()

	waitErr := cmd.Wait()

	drain := r.DrainTimeout
	if drain <= 0 {
		drain = defaultDrainTimeout
	}
	var errLine string
	select {
	case errLine = <-pumped:
	case <-time.After(drain):
		log.Warn("output still open after exit, closing pipe")
		rd.Close()
		errLine = <-pumped
	}
	rd.Close()

	res := classify(waitErr, h.CancelRequested(), errLine)
	log.Info("process exited", "status", res.Status.String(), "code", res.ExitCode, "reason", res.Reason)

	events <- Event{JobID: jobID, Kind: EventExit, Result: res}
	close(h.done)
}

// pump forwards every line of r as a progress or log event and returns
// the most useful error line seen.
func pump(jobID string, r io.Reader, events chan<- Event) string {
	var firstErr, lastErr string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(progress.ScanLines)
	for sc.Scan() {
		line := sc.Text()
		if ev, ok := progress.Parse(line); ok {
			events <- Event{JobID: jobID, Kind: EventProgress, Progress: ev}
			continue
		}
		if looksLikeError(line) {
			trimmed := strings.TrimSpace(line)
			lastErr = trimmed
			if firstErr == "" && !strings.HasPrefix(trimmed, "rsync error:") {
				firstErr = trimmed
			}
		}
		events <- Event{JobID: jobID, Kind: EventLog, Line: line}
	}
	if err := sc.Err(); err != nil {
		logger.WithJob(jobID).Debug("output read stopped", "error", err)
		// keep the pipe flowing so the process never blocks on write
		_, _ = io.Copy(io.Discard, r)
	}

	if firstErr != "" {
		return firstErr
	}
	return lastErr
}

var errorMarkers = []string{
	"error", "failed", "denied", "no such file", "refused",
	"timed out", "not found", "rsync:", "ssh:", "could not",
}

func looksLikeError(line string) bool {
	l := strings.ToLower(line)
	for _, m := range errorMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

// rsyncExitReasons follows the EXIT VALUES section of rsync(1).
var rsyncExitReasons = map[int]string{
	1:   "syntax or usage error",
	2:   "protocol incompatibility",
	3:   "errors selecting input/output files",
	4:   "requested action not supported",
	5:   "error starting client-server protocol",
	10:  "error in socket I/O",
	11:  "error in file I/O",
	12:  "error in rsync protocol data stream",
	13:  "errors with program diagnostics",
	14:  "error in IPC code",
	20:  "received SIGUSR1 or SIGINT",
	21:  "some error returned by waitpid()",
	22:  "error allocating core memory buffers",
	23:  "partial transfer due to error",
	24:  "partial transfer due to vanished source files",
	25:  "the --max-delete limit stopped deletions",
	30:  "timeout in data send/receive",
	35:  "timeout waiting for daemon connection",
	255: "ssh connection failed",
}

// ExitReason describes an rsync exit status.
func ExitReason(code int) string {
	if code < 0 {
		return "terminated by signal"
	}
	if r, ok := rsyncExitReasons[code]; ok {
		return r
	}
	return fmt.Sprintf("exit status %d", code)
}

// classify maps a process exit onto a job result. A process that exits 0
// completed even if a cancel raced with it.
func classify(waitErr error, cancelled bool, errLine string) Result {
	if waitErr == nil {
		return Result{Status: StatusCompleted}
	}
	code := pexec.ExitCode(waitErr)
	if cancelled {
		return Result{Status: StatusCancelled, ExitCode: code, Reason: "cancelled"}
	}
	reason := ExitReason(code)
	if errLine != "" {
		reason = fmt.Sprintf("%s (%s)", errLine, reason)
	}
	return Result{Status: StatusFailed, ExitCode: code, Reason: reason}
}
