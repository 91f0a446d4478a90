package progress

import (
	"testing"
	"time"
)

func TestParse_ProgressLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "bare percent rate eta",
			line: "  45%  1.2MB/s  0:00:12",
			want: Event{Bytes: -1, Percent: 45, RateBps: 1.2 * (1 << 20), ETA: 12 * time.Second},
		},
		{
			name: "per-file progress",
			line: "     32,768   3%    0.00kB/s    0:00:00",
			want: Event{Bytes: 32768, Percent: 3},
		},
		{
			name: "file finished",
			line: "  1,048,576 100%  500.00kB/s    0:00:02 (xfr#1, to-chk=3/5)",
			want: Event{Bytes: 1048576, Percent: 100, RateBps: 500 * 1024, ETA: 2 * time.Second,
				FileDone: true, FilesDone: 2, FilesTotal: 5, TotalFinal: true},
		},
		{
			name: "progress2 while scanning",
			line: "    123,456,789  12%   11.52MB/s    0:01:02 (xfr#3, ir-chk=1000/1050)",
			want: Event{Bytes: 123456789, Percent: 12, RateBps: 11.52 * (1 << 20), ETA: 62 * time.Second,
				FileDone: true, FilesDone: 50, FilesTotal: 1050},
		},
		{
			name: "human readable bytes",
			line: "          1.23G  40%   98.10MB/s    1:02:03",
			want: Event{Bytes: 1320702443, Percent: 40, RateBps: 98.1 * (1 << 20), ETA: time.Hour + 2*time.Minute + 3*time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.line)
			if !ok {
				t.Fatalf("Parse(%q) not recognised", tt.line)
			}
			got.Raw = ""
			if got.Bytes != tt.want.Bytes || got.Percent != tt.want.Percent || got.ETA != tt.want.ETA {
				t.Errorf("got bytes=%d pct=%d eta=%v, want bytes=%d pct=%d eta=%v",
					got.Bytes, got.Percent, got.ETA, tt.want.Bytes, tt.want.Percent, tt.want.ETA)
			}
			if diff := got.RateBps - tt.want.RateBps; diff > 1 || diff < -1 {
				t.Errorf("rate = %f, want %f", got.RateBps, tt.want.RateBps)
			}
			if got.FileDone != tt.want.FileDone || got.FilesDone != tt.want.FilesDone ||
				got.FilesTotal != tt.want.FilesTotal || got.TotalFinal != tt.want.TotalFinal {
				t.Errorf("counters = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_LogLines(t *testing.T) {
	lines := []string{
		"sending incremental file list",
		"receiving incremental file list",
		"backup.tar.gz",
		"",
		"sent 1,234 bytes  received 5,678 bytes  1,382.40 bytes/sec",
		"total size is 1,048,576  speedup is 151.72",
		"rsync error: some files/attrs were not transferred (code 23) at main.c(1338)",
		"  45%  1.2MB/s  0:0",      // cut mid-update
		"  45%  1.2MB",             // cut mid-update
		"  450%  1.2MB/s  0:00:12", // impossible percent
		"5%  1.2MB/s  0:00:12 trailing junk",
	}
	for _, line := range lines {
		if ev, ok := Parse(line); ok {
			t.Errorf("Parse(%q) = %+v, want log line", line, ev)
		}
	}
}

func TestParse_KeepsRaw(t *testing.T) {
	ev, ok := Parse("  45%  1.2MB/s  0:00:12")
	if !ok || ev.Raw != "45%  1.2MB/s  0:00:12" {
		t.Errorf("Raw = %q", ev.Raw)
	}
}
