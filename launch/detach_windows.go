//go:build windows
// +build windows

package launch

import "os/exec"

// detachProcess is a no-op on Windows; the launcher only runs on Linux and
// this stub just keeps the package buildable there.
func detachProcess(cmd *exec.Cmd) {}
