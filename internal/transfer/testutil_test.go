package transfer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhubert/rsync-tui/internal/config"
)

var testOptions = Options{
	Target:       config.Target{Host: "nas", User: "alice", Port: 22},
	ProgressMode: config.ProgressTotal,
}

// fakeRsync writes an executable script standing in for rsync and returns
// its path.
func fakeRsync(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsync")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("write fake rsync: %v", err)
	}
	return path
}

func newTestRunner(t *testing.T, body string) *Runner {
	return &Runner{Binary: fakeRsync(t, body), DrainTimeout: time.Second}
}

// fakeStarter records starts without spawning anything. Tests finish jobs
// by hand with finish.
type fakeStarter struct {
	started []string
	args    map[string][]string
	handles map[string]*Handle
	failIDs map[string]error
}

func newFakeStarter() *fakeStarter {
	return &fakeStarter{
		args:    make(map[string][]string),
		handles: make(map[string]*Handle),
		failIDs: make(map[string]error),
	}
}

func (f *fakeStarter) Start(jobID string, args []string, _ chan<- Event) (*Handle, error) {
	if err := f.failIDs[jobID]; err != nil {
		return nil, err
	}
	f.started = append(f.started, jobID)
	f.args[jobID] = args
	h := newHandle(0)
	f.handles[jobID] = h
	return h, nil
}

func (f *fakeStarter) finish(q *Queue, id string, status Status) (*Job, bool) {
	j, changed := q.Apply(Event{JobID: id, Kind: EventExit, Result: Result{Status: status, Reason: "test " + status.String()}})
	if h := f.handles[id]; h != nil {
		select {
		case <-h.done:
		default:
			close(h.done)
		}
	}
	return j, changed
}

// runLoop plays the event loop until done returns true, checking the
// concurrency invariant after every step.
func runLoop(t *testing.T, q *Queue, timeout time.Duration, done func() bool) {
	t.Helper()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)

	q.Tick()
	for !done() {
		select {
		case ev := <-q.Events():
			q.Apply(ev)
		case <-ticker.C:
			q.Tick()
		case <-deadline:
			t.Fatalf("loop timed out; jobs: %s", describeJobs(q))
		}
		assertWithinLimit(t, q)
	}
}

func assertWithinLimit(t *testing.T, q *Queue) {
	t.Helper()
	running := 0
	for _, j := range q.Jobs() {
		if j.Status == StatusRunning {
			running++
		}
	}
	if running != q.Active() {
		t.Fatalf("active counter %d disagrees with %d running jobs", q.Active(), running)
	}
	if q.Active() > q.Limit() {
		t.Fatalf("active %d exceeds limit %d", q.Active(), q.Limit())
	}
}

func describeJobs(q *Queue) string {
	s := ""
	for _, j := range q.Jobs() {
		s += j.ShortID() + "=" + j.Status.String() + " "
	}
	return s
}
