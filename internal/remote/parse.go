package remote

import (
	"strconv"
	"strings"

	"github.com/zhubert/rsync-tui/internal/errors"
)

// field is a whitespace separated token plus its byte offset in the line.
type field struct {
	text  string
	start int
}

func splitFields(line string, max int) []field {
	var out []field
	i := 0
	for i < len(line) && len(out) < max {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		out = append(out, field{text: line[start:i], start: start})
	}
	return out
}

func isISODate(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}

// parseLs parses `ls -lA` output for dir. Both --time-style=long-iso and
// the default "Mon DD HH:MM" date layouts are accepted. Names are taken
// from their byte offset so inner spaces survive.
func parseLs(dir, output string) ([]Entry, error) {
	entries := []Entry{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "total ") {
			continue
		}
		e, err := parseLsLine(dir, line)
		if err != nil {
			return nil, err
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseLsLine(dir, line string) (Entry, error) {
	// perms links owner group size [minor] date time|(mon day time) name
	f := splitFields(line, 10)
	if len(f) < 7 || len(f[0].text) < 10 {
		return Entry{}, errors.ListingParseError(line)
	}

	e := Entry{}
	switch f[0].text[0] {
	case 'd':
		e.Kind = KindDirectory
	case 'l':
		e.IsLink = true
	}

	i := 4
	if strings.HasSuffix(f[i].text, ",") {
		// character/block device: "major, minor"
		i++
	} else {
		size, err := strconv.ParseInt(f[i].text, 10, 64)
		if err != nil {
			return Entry{}, errors.ListingParseError(line)
		}
		e.Size = size
	}
	i++

	if i < len(f) && isISODate(f[i].text) {
		i += 2
	} else {
		i += 3
	}
	if i >= len(f) {
		return Entry{}, errors.ListingParseError(line)
	}

	name := line[f[i].start:]
	if e.IsLink {
		if n, target, ok := strings.Cut(name, " -> "); ok {
			name, e.LinkTarget = n, target
		}
	}
	e.Name = name
	e.RemotePath = Join(dir, name)
	return e, nil
}
