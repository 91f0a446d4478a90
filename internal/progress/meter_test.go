package progress

import (
	"testing"
	"time"
)

func TestMeter_RateAndETA(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m := NewMeterWithNow(func() time.Time { return now })

	m.Observe(0, 2000)
	now = now.Add(time.Second)
	m.Observe(1000, 2000)

	s := m.Snapshot()
	if s.BytesDone != 1000 || s.RateBps != 1000 {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.Percent != 50 {
		t.Errorf("percent = %f", s.Percent)
	}
	if s.ETA != time.Second {
		t.Errorf("eta = %v", s.ETA)
	}
}

func TestMeter_Smoothing(t *testing.T) {
	now := time.Unix(0, 0)
	m := NewMeterWithNow(func() time.Time { return now })

	m.Observe(0, 0)
	now = now.Add(time.Second)
	m.Observe(1000, 0)
	now = now.Add(time.Second)
	m.Observe(3000, 0) // instantaneous 2000

	// 0.2*2000 + 0.8*1000
	if got := m.Snapshot().RateBps; got < 1199 || got > 1201 {
		t.Errorf("rate = %f, want 1200", got)
	}
}

func TestMeter_BackwardsCounterResets(t *testing.T) {
	now := time.Unix(0, 0)
	m := NewMeterWithNow(func() time.Time { return now })

	m.Observe(0, 0)
	now = now.Add(time.Second)
	m.Observe(5000, 0)
	now = now.Add(time.Second)
	m.Observe(100, 0)

	s := m.Snapshot()
	if s.BytesDone != 100 {
		t.Errorf("done = %d", s.BytesDone)
	}
	if s.RateBps != 5000 {
		t.Errorf("rate should be kept across a reset, got %f", s.RateBps)
	}

	m.Reset()
	if s := m.Snapshot(); s.BytesDone != 0 || s.RateBps != 0 {
		t.Errorf("after Reset: %+v", s)
	}
}
