package transfer

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zhubert/rsync-tui/internal/config"
	"github.com/zhubert/rsync-tui/internal/remote"
)

// PartialDir holds interrupted files next to their destination. rsync
// resumes from it and only renames a file into place once complete.
const PartialDir = ".rsync-partial"

// Options controls how rsync is invoked.
type Options struct {
	Target         config.Target
	ProgressMode   string // config.ProgressTotal or config.ProgressFile
	FollowSymlinks bool
	SSHOptions     []string // extra ssh -o values
	ExtraArgs      []string
}

// Cumulative reports whether progress lines carry whole-job totals.
func (o Options) Cumulative() bool {
	return o.ProgressMode != config.ProgressFile
}

// sshCommand is the -e value. rsync splits it on whitespace, so options
// must not contain spaces.
func (o Options) sshCommand() string {
	parts := []string{"ssh", "-p", strconv.Itoa(o.Target.Port)}
	for _, opt := range remote.SSHOptions(o.SSHOptions) {
		parts = append(parts, "-o", opt)
	}
	return strings.Join(parts, " ")
}

// BuildArgs returns rsync's argv (without the binary) copying source into
// destDir. The partial dir is always set, so every job is resumable.
func BuildArgs(o Options, source, destDir string) []string {
	args := []string{
		"-a", "-z",
		"--partial-dir=" + PartialDir,
		"--protect-args",
		"--outbuf=L",
	}
	if o.Cumulative() {
		args = append(args, "--info=progress2", "--no-inc-recursive")
	} else {
		args = append(args, "--progress")
	}
	if o.FollowSymlinks {
		args = append(args, "-L")
	}
	args = append(args, "-e", o.sshCommand())
	args = append(args, o.ExtraArgs...)
	return append(args,
		o.Target.SSHDestination()+":"+source,
		withTrailingSep(destDir),
	)
}

func withTrailingSep(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}

// Destination mirrors source under destRoot. A source inside baseDir
// keeps its path relative to baseDir; anything else keeps its absolute
// path without the leading slash.
func Destination(source, baseDir, destRoot string) (dest, destDir string) {
	rel := strings.TrimPrefix(source, "/")
	base := strings.TrimSuffix(baseDir, "/")
	if base != "" && strings.HasPrefix(source, base+"/") {
		rel = strings.TrimPrefix(source, base+"/")
	}
	if rel == "" {
		rel = "root"
	}
	dest = filepath.Join(destRoot, filepath.FromSlash(rel))
	return dest, filepath.Dir(dest)
}

// partialPath is where rsync keeps the unfinished copy of dest.
func partialPath(dest string) string {
	return filepath.Join(filepath.Dir(dest), PartialDir, filepath.Base(dest))
}
