// Package process manages the OS side of spawned transfer processes:
// process groups, group signalling and stray child detection.
package process

import (
	"errors"
	"slices"
	"strings"

	ps "github.com/shirou/gopsutil/v3/process"

	"github.com/zhubert/rsync-tui/internal/logger"
)

// Child is a running process whose parent is this program.
type Child struct {
	PID     int
	Command string
}

// FindChildren lists live direct children of ppid. Zombies waiting to be
// reaped are skipped, and a ppid that no longer exists has no children.
func FindChildren(ppid int) ([]Child, error) {
	parent, err := ps.NewProcess(int32(ppid))
	if err != nil {
		if errors.Is(err, ps.ErrorProcessNotRunning) {
			return nil, nil
		}
		return nil, err
	}
	procs, err := parent.Children()
	if err != nil {
		if errors.Is(err, ps.ErrorNoChildren) {
			return nil, nil
		}
		return nil, err
	}

	var children []Child
	for _, p := range procs {
		if status, err := p.Status(); err == nil && slices.Contains(status, ps.Zombie) {
			continue
		}
		cmdline, err := p.Cmdline()
		if err != nil {
			// exited since Children ran
			continue
		}
		children = append(children, Child{PID: int(p.Pid), Command: cmdline})
	}
	logger.WithComponent("process").Debug("found child processes", "ppid", ppid, "count", len(children))
	return children, nil
}

// KillStrays kills every child of ppid whose command line contains name
// and returns how many were signalled. It is the last line of defence at
// exit; normal shutdown reaps every transfer through its own handle.
func KillStrays(ppid int, name string) int {
	children, err := FindChildren(ppid)
	if err != nil {
		logger.WithComponent("process").Warn("stray scan failed", "error", err)
		return 0
	}
	killed := 0
	for _, c := range children {
		if !strings.Contains(c.Command, name) {
			continue
		}
		if err := KillGroup(c.PID); err == nil {
			killed++
			logger.WithComponent("process").Warn("killed stray process", "pid", c.PID, "command", c.Command)
		}
	}
	return killed
}
