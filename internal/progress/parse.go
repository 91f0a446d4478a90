// Package progress turns rsync's textual output into structured events.
package progress

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Event is one parsed progress line.
type Event struct {
	Bytes   int64 // bytes so far; -1 when the line omits the counter
	Percent int
	RateBps float64
	ETA     time.Duration
	Raw     string

	// File counters from the "(xfr#N, to-chk=R/T)" suffix. FileDone is
	// set on the line that closes a file.
	FileDone   bool
	FilesDone  int
	FilesTotal int
	TotalFinal bool // false while rsync is still scanning (ir-chk)
}

var (
	progressRe = regexp.MustCompile(
		`^\s*(?:([\d,.]+)([KMGT]?)B?\s+)?(\d{1,3})%\s+([\d,.]+)([kKMGT]?)i?B/s\s+(\d+:\d{2}(?::\d{2})?)(?:\s+\(([^)]*)\))?\s*$`)
	xfrRe = regexp.MustCompile(`xfr#(\d+)`)
	chkRe = regexp.MustCompile(`(to|ir)-chk=(\d+)/(\d+)`)
)

var unitScale = map[string]float64{
	"":  1,
	"k": 1 << 10,
	"K": 1 << 10,
	"M": 1 << 20,
	"G": 1 << 30,
	"T": 1 << 40,
}

// Parse returns the progress event carried by line. ok is false for
// diagnostic text and for lines too garbled to trust; callers treat
// those as log lines.
func Parse(line string) (Event, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}

	ev := Event{Bytes: -1, Raw: strings.TrimSpace(line)}

	pct, err := strconv.Atoi(m[3])
	if err != nil || pct > 100 {
		return Event{}, false
	}
	ev.Percent = pct

	if m[1] != "" {
		n, ok := parseAmount(m[1], m[2])
		if !ok {
			return Event{}, false
		}
		ev.Bytes = int64(n)
	}

	rate, ok := parseAmount(m[4], m[5])
	if !ok {
		return Event{}, false
	}
	ev.RateBps = rate

	eta, ok := parseClock(m[6])
	if !ok {
		return Event{}, false
	}
	ev.ETA = eta

	if m[7] != "" {
		parseCounters(m[7], &ev)
	}
	return ev, true
}

// parseAmount handles "1,048,576" as well as "1.23" with a unit suffix.
func parseAmount(num, unit string) (float64, bool) {
	num = strings.ReplaceAll(num, ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v * unitScale[unit], true
}

// parseClock parses "M:SS" or "H:MM:SS".
func parseClock(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")
	var secs int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, false
		}
		secs = secs*60 + n
	}
	return time.Duration(secs) * time.Second, true
}

func parseCounters(s string, ev *Event) {
	if m := xfrRe.FindStringSubmatch(s); m != nil {
		ev.FileDone = true
		ev.FilesDone, _ = strconv.Atoi(m[1])
	}
	if m := chkRe.FindStringSubmatch(s); m != nil {
		remaining, _ := strconv.Atoi(m[2])
		total, _ := strconv.Atoi(m[3])
		ev.FilesTotal = total
		ev.TotalFinal = m[1] == "to"
		if done := total - remaining; done > ev.FilesDone {
			ev.FilesDone = done
		}
	}
}
