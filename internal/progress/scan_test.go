package progress

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func scanAll(t *testing.T, r io.Reader) []string {
	t.Helper()
	s := bufio.NewScanner(r)
	s.Split(ScanLines)
	var out []string
	for s.Scan() {
		out = append(out, s.Text())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestScanLines(t *testing.T) {
	input := "receiving incremental file list\nbig.iso\n" +
		"      32,768   0%    0.00kB/s    0:00:00\r" +
		"  1,048,576  50%    1.00MB/s    0:00:01\r" +
		"  2,097,152 100%    1.00MB/s    0:00:02 (xfr#1, to-chk=0/1)\r\n" +
		"\n" +
		"sent 1 bytes  received 2 bytes"

	got := scanAll(t, strings.NewReader(input))
	want := []string{
		"receiving incremental file list",
		"big.iso",
		"      32,768   0%    0.00kB/s    0:00:00",
		"  1,048,576  50%    1.00MB/s    0:00:01",
		"  2,097,152 100%    1.00MB/s    0:00:02 (xfr#1, to-chk=0/1)",
		"sent 1 bytes  received 2 bytes",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// chunkReader hands out one byte per Read to force split lines.
type chunkReader struct {
	data []byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	p[0] = c.data[0]
	c.data = c.data[1:]
	return 1, nil
}

func TestScanLines_BuffersPartialLines(t *testing.T) {
	r := &chunkReader{data: []byte("  45%  1.2MB/s  0:00:12\rdone\n")}
	got := scanAll(t, r)
	if len(got) != 2 || got[0] != "  45%  1.2MB/s  0:00:12" || got[1] != "done" {
		t.Errorf("got %q", got)
	}
	if _, ok := Parse(got[0]); !ok {
		t.Error("reassembled line should parse")
	}
}
