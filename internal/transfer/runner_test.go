//go:build !windows

package transfer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zhubert/rsync-tui/internal/errors"
	"github.com/zhubert/rsync-tui/internal/process"
)

// collect reads events for one run until its exit event.
func collect(t *testing.T, events <-chan Event, h *Handle) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev := <-events:
			out = append(out, ev)
			if ev.Kind == EventExit {
				select {
				case <-h.Done():
				case <-time.After(time.Second):
					t.Fatal("handle not done after exit event")
				}
				return out
			}
		case <-timeout:
			t.Fatalf("no exit event; got %d events", len(out))
		}
	}
}

func TestRunner_Success(t *testing.T) {
	r := newTestRunner(t, `
echo "receiving incremental file list"
echo "big.iso"
printf '     32,768  50%%    1.00MB/s    0:00:01\r'
printf '     65,536 100%%    1.00MB/s    0:00:00 (xfr#1, to-chk=0/1)\n'
echo "sent 10 bytes  received 65,600 bytes" >&2
`)
	events := make(chan Event, 64)
	h, err := r.Start("job1", nil, events)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := collect(t, events, h)

	kinds := make([]EventKind, len(got))
	for i, ev := range got {
		kinds[i] = ev.Kind
		if ev.JobID != "job1" {
			t.Errorf("event %d has job %q", i, ev.JobID)
		}
	}
	want := []EventKind{EventLog, EventLog, EventProgress, EventProgress, EventLog, EventExit}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
	if got[3].Progress.Bytes != 65536 || !got[3].Progress.FileDone {
		t.Errorf("final progress = %+v", got[3].Progress)
	}
	if res := got[len(got)-1].Result; res.Status != StatusCompleted || res.ExitCode != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunner_FailureKeepsErrorContext(t *testing.T) {
	r := newTestRunner(t, `
echo 'rsync: [sender] link_stat "/nope" failed: No such file or directory (2)' >&2
echo 'rsync error: some files/attrs were not transferred (see previous errors) (code 23) at main.c(1852)' >&2
exit 23
`)
	events := make(chan Event, 64)
	h, err := r.Start("job1", nil, events)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := collect(t, events, h)
	res := got[len(got)-1].Result

	if res.Status != StatusFailed || res.ExitCode != 23 {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Reason, "link_stat") || !strings.Contains(res.Reason, "partial transfer due to error") {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestRunner_SpawnError(t *testing.T) {
	r := &Runner{Binary: filepath.Join(t.TempDir(), "missing-rsync")}
	_, err := r.Start("job1", nil, make(chan Event, 1))
	if !errors.Is(err, errors.KindSpawn) {
		t.Errorf("err = %v, want spawn error", err)
	}
}

func TestRunner_Cancel(t *testing.T) {
	r := newTestRunner(t, `
echo started
while :; do sleep 0.05; done
`)
	events := make(chan Event, 64)
	h, err := r.Start("job1", nil, events)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if ev := <-events; ev.Line != "started" {
		t.Fatalf("first event = %+v", ev)
	}

	h.Cancel()
	h.Cancel() // idempotent
	got := collect(t, events, h)
	if res := got[len(got)-1].Result; res.Status != StatusCancelled {
		t.Errorf("result = %+v", res)
	}
}

func TestRunner_CancelEscalatesToKill(t *testing.T) {
	r := newTestRunner(t, `
trap '' TERM
echo started
while :; do sleep 0.05; done
`)
	events := make(chan Event, 64)
	h, err := r.Start("job1", nil, events)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-events

	start := time.Now()
	h.Cancel()
	got := collect(t, events, h)
	if res := got[len(got)-1].Result; res.Status != StatusCancelled {
		t.Errorf("result = %+v", res)
	}
	if elapsed := time.Since(start); elapsed < killGrace/2 {
		t.Errorf("process ignoring SIGTERM exited after %v, expected the kill grace", elapsed)
	}
}

func TestRunner_CancelKillsLeftoverGroupMembers(t *testing.T) {
	r := newTestRunner(t, `
(trap '' TERM; exec sleep 30) >/dev/null 2>&1 &
echo started
wait
`)
	events := make(chan Event, 64)
	h, err := r.Start("job1", nil, events)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-events

	h.Cancel()
	collect(t, events, h)

	deadline := time.Now().Add(killGrace / 2)
	for process.GroupAlive(h.PID()) {
		if time.Now().After(deadline) {
			t.Fatal("member ignoring SIGTERM survived its leader")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestClassify(t *testing.T) {
	exit := func(code int) error {
		return exec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	}
	tests := []struct {
		name      string
		err       error
		cancelled bool
		line      string
		want      Status
		reason    string
	}{
		{"success", nil, false, "", StatusCompleted, ""},
		{"success despite cancel", nil, true, "", StatusCompleted, ""},
		{"failure", exit(5), false, "", StatusFailed, "error starting client-server protocol"},
		{"failure with line", exit(3), false, "rsync: boom", StatusFailed, "rsync: boom (errors selecting input/output files)"},
		{"cancelled", exit(1), true, "", StatusCancelled, "cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classify(tt.err, tt.cancelled, tt.line)
			if res.Status != tt.want || res.Reason != tt.reason {
				t.Errorf("classify = %+v, want %v %q", res, tt.want, tt.reason)
			}
		})
	}
}

func TestExitReason(t *testing.T) {
	if ExitReason(-1) != "terminated by signal" {
		t.Error("signal exit")
	}
	if ExitReason(255) != "ssh connection failed" {
		t.Error("ssh exit")
	}
	if ExitReason(77) != "exit status 77" {
		t.Error("unknown exit")
	}
}

// noStrays fails if a process running script is still our child.
func noStrays(t *testing.T, script string) {
	t.Helper()
	children, err := process.FindChildren(os.Getpid())
	if err != nil {
		t.Fatalf("FindChildren: %v", err)
	}
	for _, c := range children {
		if strings.Contains(c.Command, script) {
			t.Errorf("orphaned process %d: %s", c.PID, c.Command)
		}
	}
}
