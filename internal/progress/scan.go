package progress

import "bytes"

// ScanLines is a bufio.SplitFunc that ends a line at '\n' or '\r'.
// rsync redraws its progress line with '\r', so each redraw becomes its
// own token. Empty tokens are skipped and a trailing partial line is
// returned only at EOF.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && (data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start == len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}
	if i := bytes.IndexAny(data[start:], "\r\n"); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}
	if atEOF {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
