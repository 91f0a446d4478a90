package transfer

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zhubert/rsync-tui/internal/errors"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/progress"
)

// eventBuffer bounds how far runners can get ahead of the event loop.
const eventBuffer = 256

// MaxLogLines is how many output lines the queue retains.
const MaxLogLines = 500

// LogLine is one retained output line.
type LogLine struct {
	JobID string
	Text  string
}

// Queue owns every job of the session. All methods except Events must be
// called from one goroutine (the event loop); runners only talk to it
// through the events channel.
type Queue struct {
	jobs    []*Job
	byID    map[string]*Job
	limit   int
	active  int
	opts    Options
	baseDir string

	starter Starter
	events  chan Event
	meter   *progress.Meter
	logs    []LogLine
	logSeq  uint64
	now     func() time.Time
}

// NewQueue creates a queue running at most limit jobs at once. baseDir is
// the remote directory destination paths are mirrored relative to.
func NewQueue(opts Options, limit int, baseDir string, starter Starter) *Queue {
	if limit < 1 {
		limit = 1
	}
	if starter == nil {
		starter = NewRunner()
	}
	return &Queue{
		byID:    make(map[string]*Job),
		limit:   limit,
		opts:    opts,
		baseDir: baseDir,
		starter: starter,
		events:  make(chan Event, eventBuffer),
		meter:   progress.NewMeter(),
		now:     time.Now,
	}
}

// Events is the single stream of runner events, consumed by the loop.
func (q *Queue) Events() <-chan Event { return q.events }

// Jobs returns jobs in queue order. Callers must not mutate them.
func (q *Queue) Jobs() []*Job { return q.jobs }

// Job looks a job up by id.
func (q *Queue) Job(id string) (*Job, bool) {
	j, ok := q.byID[id]
	return j, ok
}

// Active is the number of Running jobs.
func (q *Queue) Active() int { return q.active }

// Limit is the concurrency limit.
func (q *Queue) Limit() int { return q.limit }

// Logs returns retained output lines, oldest first.
func (q *Queue) Logs() []LogLine { return q.logs }

// LogSeq counts every line ever appended to the log ring. It changes
// whenever Logs does.
func (q *Queue) LogSeq() uint64 { return q.logSeq }

// Stats is the smoothed aggregate throughput across all jobs.
func (q *Queue) Stats() progress.Stats { return q.meter.Snapshot() }

// Counts tallies jobs per status.
func (q *Queue) Counts() map[Status]int {
	c := make(map[Status]int, 5)
	for _, j := range q.jobs {
		c[j.Status]++
	}
	return c
}

// Idle reports whether no job is Pending or Running.
func (q *Queue) Idle() bool {
	for _, j := range q.jobs {
		if !j.Status.Terminal() {
			return false
		}
	}
	return true
}

// inFlight returns the live job for source, if any.
func (q *Queue) inFlight(source string) *Job {
	for _, j := range q.jobs {
		if j.Source == source && !j.Status.Terminal() {
			return j
		}
	}
	return nil
}

// Enqueue adds one Pending job per source under destRoot and returns the
// new ids. A source already Pending or Running is skipped.
func (q *Queue) Enqueue(sources []string, destRoot string) []string {
	log := logger.WithComponent("transfer")
	var ids []string
	for _, src := range sources {
		if existing := q.inFlight(src); existing != nil {
			log.Debug("skipping duplicate", "source", src, "job", existing.ID)
			continue
		}
		dest, destDir := Destination(src, q.baseDir, destRoot)
		j := &Job{
			ID:         uuid.NewString(),
			Source:     src,
			Dest:       dest,
			DestDir:    destDir,
			DestRoot:   destRoot,
			Status:     StatusPending,
			EnqueuedAt: q.now(),
		}
		q.jobs = append(q.jobs, j)
		q.byID[j.ID] = j
		ids = append(ids, j.ID)
		log.Info("job enqueued", "job", j.ID, "source", src, "dest", dest)
	}
	return ids
}

// Retry re-enqueues every Failed or Cancelled job whose source is not
// already in flight. The new jobs resume from the partial dir.
func (q *Queue) Retry() []string {
	var ids []string
	for _, j := range q.jobs {
		if j.Status != StatusFailed && j.Status != StatusCancelled {
			continue
		}
		if q.inFlight(j.Source) != nil {
			continue
		}
		ids = append(ids, q.Enqueue([]string{j.Source}, j.DestRoot)...)
	}
	return ids
}

// Tick promotes the earliest Pending jobs while a slot is free and
// refreshes the throughput meter. It returns the ids it started.
func (q *Queue) Tick() []string {
	var started []string
	for q.active < q.limit {
		j := q.nextPending()
		if j == nil {
			break
		}
		if q.start(j) {
			started = append(started, j.ID)
		}
	}
	q.observe()
	return started
}

func (q *Queue) nextPending() *Job {
	for _, j := range q.jobs {
		if j.Status == StatusPending {
			return j
		}
	}
	return nil
}

// start launches j. A spawn failure fails the job on the spot.
func (q *Queue) start(j *Job) bool {
	log := logger.WithJob(j.ID)

	if err := os.MkdirAll(j.DestDir, 0755); err != nil {
		q.fail(j, errors.TransferFailed(j.Source, err.Error()))
		return false
	}
	j.ResumeBytes = partialSize(j.Dest)

	h, err := q.starter.Start(j.ID, BuildArgs(q.opts, j.Source, j.DestDir), q.events)
	if err != nil {
		q.fail(j, err)
		return false
	}
	j.handle = h
	j.transition(StatusRunning, q.now())
	j.BytesTransferred = j.ResumeBytes
	q.active++
	if j.ResumeBytes > 0 {
		log.Info("resuming", "partial_bytes", j.ResumeBytes)
	}
	return true
}

func (q *Queue) fail(j *Job, err error) {
	j.Reason = errors.Message(err)
	j.transition(StatusFailed, q.now())
	q.appendLog(j.ID, "error: "+j.Reason)
	logger.WithJob(j.ID).Error("job failed to start", "error", err)
}

// noteCancelled puts a cancelled job in the log ring.
func (q *Queue) noteCancelled(j *Job) {
	err := errors.TransferCancelled(j.Source)
	q.appendLog(j.ID, errors.Message(err))
	logger.WithJob(j.ID).Info("job cancelled", "error", err)
}

func partialSize(dest string) int64 {
	if fi, err := os.Stat(partialPath(dest)); err == nil && fi.Mode().IsRegular() {
		return fi.Size()
	}
	return 0
}

// Apply folds one runner event into its job and returns the job. changed
// is true when the job reached a terminal state.
func (q *Queue) Apply(ev Event) (j *Job, changed bool) {
	j, ok := q.byID[ev.JobID]
	if !ok {
		return nil, false
	}
	switch ev.Kind {
	case EventProgress:
		if j.Status == StatusRunning {
			j.applyProgress(ev.Progress, q.opts.Cumulative())
		}
	case EventLog:
		q.appendLog(j.ID, ev.Line)
	case EventExit:
		if j.Status != StatusRunning {
			return j, false
		}
		if ev.Result.Status == StatusFailed {
			j.Reason = ev.Result.Reason
			q.appendLog(j.ID, "error: "+j.Reason)
		}
		if ev.Result.Status == StatusCancelled {
			q.noteCancelled(j)
		}
		if ev.Result.Status == StatusCompleted {
			j.Percent = 100
			if j.TotalBytes > 0 {
				j.BytesTransferred = j.TotalBytes
			}
		}
		j.transition(ev.Result.Status, q.now())
		q.active--
		j.handle = nil
		logger.WithJob(j.ID).Info("job finished", "status", j.Status.String())
		return j, true
	}
	return j, false
}

func (q *Queue) appendLog(jobID, text string) {
	q.logs = append(q.logs, LogLine{JobID: jobID, Text: text})
	q.logSeq++
	if over := len(q.logs) - MaxLogLines; over > 0 {
		q.logs = append(q.logs[:0:0], q.logs[over:]...)
	}
}

func (q *Queue) observe() {
	var done, total int64
	for _, j := range q.jobs {
		done += max(j.BytesTransferred-j.ResumeBytes, 0)
		total += j.TotalBytes
	}
	q.meter.Observe(done, total)
}

// CancelAll cancels every Pending job at once and signals every Running
// one. Running jobs become Cancelled when their EventExit is applied.
// It returns how many processes were signalled.
func (q *Queue) CancelAll() int {
	log := logger.WithComponent("transfer")
	signalled := 0
	for _, j := range q.jobs {
		switch j.Status {
		case StatusPending:
			j.transition(StatusCancelled, q.now())
			q.noteCancelled(j)
		case StatusRunning:
			if j.handle != nil {
				j.handle.Cancel()
				signalled++
			}
		}
	}
	log.Info("cancel all", "signalled", signalled)
	return signalled
}

// Shutdown cancels everything and blocks until every process has exited,
// applying their remaining events. If ctx expires first the remaining
// process groups are killed outright, and Shutdown still waits for them.
// Only call it once the event loop has stopped reading Events.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.CancelAll()

	var handles []*Handle
	for _, j := range q.jobs {
		if j.Status == StatusRunning && j.handle != nil {
			handles = append(handles, j.handle)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, h := range handles {
		g.Go(func() error {
			select {
			case <-h.Done():
				return nil
			case <-gctx.Done():
				h.Kill()
				<-h.Done()
				return gctx.Err()
			}
		})
	}
	waited := make(chan error, 1)
	go func() { waited <- g.Wait() }()

	for {
		select {
		case ev := <-q.events:
			q.Apply(ev)
		case err := <-waited:
			q.drain()
			return err
		}
	}
}

// drain applies events already buffered.
func (q *Queue) drain() {
	for {
		select {
		case ev := <-q.events:
			q.Apply(ev)
		default:
			return
		}
	}
}
