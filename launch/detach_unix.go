//go:build !windows
// +build !windows

package launch

import (
	"os/exec"
	"syscall"
)

// detachProcess puts the child in its own process group so it outlives the
// launcher and ignores its terminal signals.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
