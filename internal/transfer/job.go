// Package transfer runs rsync jobs as external processes and schedules
// them under a concurrency limit.
package transfer

import (
	"time"

	"github.com/zhubert/rsync-tui/internal/progress"
)

// Status is a job's lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Job is one remote path being copied to one local path. Jobs are
// mutated only by the Queue that owns them.
type Job struct {
	ID       string
	Source   string // remote absolute path
	Dest     string // local path the source ends up at
	DestDir  string // local directory handed to rsync
	DestRoot string // destination root chosen at enqueue time
	Status   Status

	BytesTransferred int64
	TotalBytes       int64 // 0 while unknown
	Percent          int
	RateBps          float64
	ETA              time.Duration
	FilesDone        int
	FilesTotal       int
	LastRawLine      string
	Reason           string // why the job failed
	ResumeBytes      int64  // partial data found on disk at start

	EnqueuedAt time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	fileBase int64 // bytes of finished files in per-file progress mode
	handle   *Handle
}

// ShortID is the id prefix shown in the log pane.
func (j *Job) ShortID() string {
	if len(j.ID) > 8 {
		return j.ID[:8]
	}
	return j.ID
}

var allowed = map[Status][]Status{
	StatusPending: {StatusRunning, StatusCancelled, StatusFailed},
	StatusRunning: {StatusCompleted, StatusFailed, StatusCancelled},
}

// transition moves the job to next if the lifecycle allows it.
func (j *Job) transition(next Status, now time.Time) bool {
	for _, s := range allowed[j.Status] {
		if s == next {
			j.Status = next
			switch {
			case next == StatusRunning:
				j.StartedAt = now
			case next.Terminal():
				j.FinishedAt = now
				j.RateBps, j.ETA = 0, 0
			}
			return true
		}
	}
	return false
}

// applyProgress folds a parsed line into the job. cumulative is true when
// rsync reports whole-transfer totals (--info=progress2) rather than
// per-file counters.
func (j *Job) applyProgress(ev progress.Event, cumulative bool) {
	j.LastRawLine = ev.Raw
	j.Percent = ev.Percent
	j.RateBps = ev.RateBps
	j.ETA = ev.ETA
	if ev.FilesTotal > 0 {
		j.FilesTotal = ev.FilesTotal
	}
	if ev.FilesDone > j.FilesDone {
		j.FilesDone = ev.FilesDone
	}
	if ev.Bytes < 0 {
		return
	}

	if cumulative {
		j.setBytes(ev.Bytes)
		if ev.Percent > 0 {
			j.TotalBytes = ev.Bytes * 100 / int64(ev.Percent)
		}
		return
	}

	j.setBytes(j.fileBase + ev.Bytes)
	if ev.FileDone {
		j.fileBase += ev.Bytes
	}
	if j.FilesTotal > 1 {
		j.Percent = j.FilesDone * 100 / j.FilesTotal
	}
}

// setBytes records a byte count that never drops below the resume
// baseline. rsync restarts its counters at zero when picking up a partial
// file.
func (j *Job) setBytes(n int64) {
	j.BytesTransferred = max(n, j.ResumeBytes)
}
