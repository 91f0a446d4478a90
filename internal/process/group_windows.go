//go:build windows

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// NewGroup starts cmd in a new process group.
func NewGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
}

// TerminateGroup has no graceful variant on Windows.
func TerminateGroup(pid int) error {
	return KillGroup(pid)
}

// KillGroup kills the process. Children are not tracked on Windows.
func KillGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	return p.Kill()
}

// GroupAlive reports whether pid can still be found.
func GroupAlive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}
