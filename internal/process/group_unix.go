//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"syscall"
)

// NewGroup makes cmd the leader of a new process group so that rsync and
// the ssh it spawns can be signalled together.
func NewGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func signalGroup(pid int, sig syscall.Signal) error {
	err := syscall.Kill(-pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// TerminateGroup asks every process in pid's group to exit.
func TerminateGroup(pid int) error {
	return signalGroup(pid, syscall.SIGTERM)
}

// KillGroup force-kills every process in pid's group.
func KillGroup(pid int) error {
	return signalGroup(pid, syscall.SIGKILL)
}

// GroupAlive reports whether any process in pid's group still exists.
func GroupAlive(pid int) bool {
	return syscall.Kill(-pid, 0) == nil
}
