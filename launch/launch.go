// Package launch spawns Blender detached from the launcher process,
// duplicating its combined output into the terminal and a log file.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Result reports the spawned processes.
type Result struct {
	// Pid is the Blender process id, for out-of-band termination.
	Pid int
	// LogPath is where the combined output lands.
	LogPath string
	// Teeing is true when output is also mirrored to the terminal.
	Teeing bool
}

// BuildArgs returns the argument list Blender is started with: the project
// file, then the flag that runs the startup script.
func BuildArgs(projectFilePath, scriptPath string) []string {
	return []string{projectFilePath, "--python", scriptPath}
}

// Spawn starts Blender in the background and returns immediately. Combined
// stdout/stderr is piped through a tee process into both the controlling
// terminal and logPath; when no tee binary is available the output goes to
// logPath alone. The launcher does not wait for, supervise, or cancel the
// spawned processes.
func Spawn(executablePath, projectFilePath, scriptPath, logPath string) (Result, error) {
	result := Result{LogPath: logPath}

	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return result, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	cmd := exec.Command(executablePath, BuildArgs(projectFilePath, scriptPath)...)
	detachProcess(cmd)

	// Prefer a detached tee so output reaches the terminal and the log
	// file even after the launcher exits.
	teeCmd, pw, err := startTee(logPath)
	if err == nil {
		cmd.Stdout = pw
		cmd.Stderr = pw
		result.Teeing = true
	} else {
		logFile, createErr := os.Create(logPath)
		if createErr != nil {
			return result, fmt.Errorf("failed to create log file %s: %w", logPath, createErr)
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	if err := cmd.Start(); err != nil {
		if pw != nil {
			pw.Close()
		}
		if teeCmd != nil && teeCmd.Process != nil {
			teeCmd.Process.Kill()
		}
		return result, fmt.Errorf("error launching blender: %w", err)
	}

	// Drop the launcher's copy of the pipe write end; the child holds
	// its own and tee exits when the child does.
	if pw != nil {
		pw.Close()
	}

	result.Pid = cmd.Process.Pid
	cmd.Process.Release()
	if teeCmd != nil {
		teeCmd.Process.Release()
	}

	return result, nil
}

// startTee spawns a detached tee process writing to logPath, fed from the
// returned pipe end. The caller owns the write end until the child is
// started.
func startTee(logPath string) (*exec.Cmd, *os.File, error) {
	teePath, err := exec.LookPath("tee")
	if err != nil {
		return nil, nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipe: %w", err)
	}

	teeCmd := exec.Command(teePath, logPath)
	teeCmd.Stdin = pr
	teeCmd.Stdout = os.Stdout
	teeCmd.Stderr = os.Stderr
	detachProcess(teeCmd)

	if err := teeCmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, nil, fmt.Errorf("failed to start tee: %w", err)
	}

	// tee inherited the read end
	pr.Close()

	return teeCmd, pw, nil
}
