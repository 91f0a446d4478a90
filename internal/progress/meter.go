package progress

import (
	"sync"
	"time"
)

// Stats is a point-in-time snapshot of a Meter.
type Stats struct {
	BytesDone int64
	Total     int64
	RateBps   float64
	ETA       time.Duration
	Percent   float64
}

// Meter smooths a byte counter into a rate with an exponentially weighted
// moving average.
type Meter struct {
	mu       sync.Mutex
	total    int64
	done     int64
	lastAt   time.Time
	lastDone int64
	rateBps  float64
	alpha    float64
	now      func() time.Time
}

// NewMeter returns a meter with the default smoothing factor.
func NewMeter() *Meter {
	return NewMeterWithNow(time.Now)
}

// NewMeterWithNow returns a meter with a custom time source (for tests).
func NewMeterWithNow(now func() time.Time) *Meter {
	if now == nil {
		now = time.Now
	}
	return &Meter{alpha: 0.2, now: now}
}

// Observe records the absolute byte count. A counter that goes backwards
// (a restarted job) resets the baseline without producing a rate sample.
func (m *Meter) Observe(done, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.total = total
	if m.lastAt.IsZero() || done < m.lastDone {
		m.done, m.lastDone, m.lastAt = done, done, now
		return
	}
	m.done = done

	dt := now.Sub(m.lastAt).Seconds()
	if dt <= 0 {
		return
	}
	inst := float64(done-m.lastDone) / dt
	if m.rateBps == 0 {
		m.rateBps = inst
	} else {
		m.rateBps = m.alpha*inst + (1-m.alpha)*m.rateBps
	}
	m.lastAt = now
	m.lastDone = done
}

// Reset clears all samples.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total, m.done, m.lastDone, m.rateBps = 0, 0, 0, 0
	m.lastAt = time.Time{}
}

// Snapshot returns the current stats.
func (m *Meter) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{BytesDone: m.done, Total: m.total, RateBps: m.rateBps}
	if m.total > 0 {
		s.Percent = float64(m.done) / float64(m.total) * 100
	}
	if m.rateBps > 0 && m.total > m.done {
		s.ETA = time.Duration(float64(m.total-m.done)/m.rateBps) * time.Second
	}
	return s
}
