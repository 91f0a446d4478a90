package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhubert/rsync-tui/internal/config"
	"github.com/zhubert/rsync-tui/internal/errors"
	pexec "github.com/zhubert/rsync-tui/internal/exec"
	"github.com/zhubert/rsync-tui/internal/logger"
)

// sshUnreachableExit is the status ssh itself uses for connection failures.
const sshUnreachableExit = 255

// listTimeout bounds a single remote listing.
const listTimeout = 30 * time.Second

// SSHOptions returns the -o values shared by listings and rsync's
// transport. A control master lets every listing reuse one connection.
func SSHOptions(extra []string) []string {
	opts := []string{
		"BatchMode=yes",
		"LogLevel=ERROR",
		"ServerAliveInterval=30",
		"ConnectTimeout=10",
		"ControlMaster=auto",
		"ControlPath=" + filepath.Join(os.TempDir(), "rsync-tui-%C"),
		"ControlPersist=60",
	}
	return append(opts, extra...)
}

// SSHArgs builds the ssh argv (without the binary) running command on t.
func SSHArgs(t config.Target, extra []string, command string) []string {
	args := []string{"-p", fmt.Sprint(t.Port)}
	for _, o := range SSHOptions(extra) {
		args = append(args, "-o", o)
	}
	return append(args, t.SSHDestination(), command)
}

// ShellQuote quotes s for a POSIX remote shell.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// SSHLister lists directories by running ls over ssh.
type SSHLister struct {
	target  config.Target
	options []string
	exec    pexec.CommandExecutor
}

// NewSSHLister creates a lister for t. extra holds additional ssh -o values.
func NewSSHLister(t config.Target, extra []string, executor pexec.CommandExecutor) *SSHLister {
	if executor == nil {
		executor = pexec.NewRealExecutor()
	}
	return &SSHLister{target: t, options: extra, exec: executor}
}

// lsCommand uses the first ls found among PATH, /bin and /usr/bin, so
// listings work under a restricted remote PATH. It prefers long-iso dates
// and falls back to the default layout for ls builds without
// --time-style. -q keeps one entry per line.
func lsCommand(dir string) string {
	q := ShellQuote(dir)
	return "LC_ALL=C; export LC_ALL; L=; " +
		"for c in ls /bin/ls /usr/bin/ls; do " +
		"if command -v \"$c\" >/dev/null 2>&1; then L=$c; break; fi; done; " +
		"[ -n \"$L\" ] || { echo 'ls: not found' >&2; exit 127; }; " +
		"if \"$L\" --time-style=long-iso -d / >/dev/null 2>&1; " +
		"then \"$L\" -lAq --time-style=long-iso -- " + q + "; " +
		"else \"$L\" -lAq -- " + q + "; fi"
}

// run executes command on the remote and classifies failures.
func (l *SSHLister) run(ctx context.Context, command string) (string, error) {
	stdout, stderr, err := l.exec.Run(ctx, "", "ssh", SSHArgs(l.target, l.options, command)...)
	if err == nil {
		return string(stdout), nil
	}
	if pexec.ExitCode(err) == sshUnreachableExit {
		return "", errors.RemoteUnreachable(l.target.String(), fmt.Errorf("%w: %s", err, firstLine(stderr)))
	}
	return string(stdout), &commandError{err: err, stderr: firstLine(stderr)}
}

// commandError is a remote command that ran but exited non-zero.
type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string {
	if e.stderr != "" {
		return e.stderr
	}
	return e.err.Error()
}

func (e *commandError) Unwrap() error { return e.err }

// List implements Lister.
func (l *SSHLister) List(ctx context.Context, dir string) ([]Entry, error) {
	log := logger.WithComponent("remote")
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	start := time.Now()
	out, err := l.run(ctx, lsCommand(dir))
	if err != nil {
		if errors.Is(err, errors.KindUnreachable) {
			return nil, err
		}
		// ls exits 1 for minor problems (an unreadable child) and still
		// prints the rest of the listing.
		if pexec.ExitCode(err) != 1 || out == "" {
			return nil, errors.ListingFailed(dir, err)
		}
		log.Warn("partial listing", "path", dir, "error", err)
	}

	entries, err := parseLs(dir, out)
	if err != nil {
		return nil, err
	}
	log.Debug("listed", "path", dir, "entries", len(entries), "elapsed", time.Since(start))
	return entries, nil
}

// Home returns the remote $HOME, or "/" when it cannot be determined.
func (l *SSHLister) Home(ctx context.Context) (string, error) {
	out, err := l.run(ctx, `echo "$HOME"`)
	if err != nil {
		if errors.Is(err, errors.KindUnreachable) {
			return "", err
		}
		return "/", nil
	}
	home := strings.TrimSpace(out)
	if !strings.HasPrefix(home, "/") {
		return "/", nil
	}
	return home, nil
}

// CheckRsync reports whether rsync is on the remote PATH.
func (l *SSHLister) CheckRsync(ctx context.Context) (bool, error) {
	_, err := l.run(ctx, "command -v rsync")
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errors.KindUnreachable) {
		return false, err
	}
	return false, nil
}

// installCommand tries apt-get then yum, escalating with sudo -n when not root.
const installCommand = `SUDO=; [ "$(id -u)" != 0 ] && SUDO="sudo -n"; ` +
	`if command -v apt-get >/dev/null 2>&1; then $SUDO apt-get update -q && $SUDO apt-get install -y -q rsync; ` +
	`elif command -v yum >/dev/null 2>&1; then $SUDO yum install -y -q rsync; ` +
	`else echo "no supported package manager" >&2; exit 127; fi`

// InstallRsync installs rsync on the remote with its package manager.
func (l *SSHLister) InstallRsync(ctx context.Context) error {
	logger.WithComponent("remote").Info("installing rsync", "target", l.target.String())
	if _, err := l.run(ctx, installCommand); err != nil {
		if errors.Is(err, errors.KindUnreachable) {
			return err
		}
		return errors.E(errors.Op("remote.InstallRsync"), errors.KindConfig,
			fmt.Sprintf("installing rsync on %s failed", l.target.Host), err)
	}
	return nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
