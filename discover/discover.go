// Package discover locates the Blender executable on the local machine and
// probes its version.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"Blender-Object-Launcher/types"

	version "github.com/hashicorp/go-version"
)

// VersionUnknown is reported when the version probe fails in any way.
const VersionUnknown = "unknown"

// probeTimeout bounds the --version subprocess.
const probeTimeout = 10 * time.Second

// Finder holds the ordered discovery strategies. Fields are injectable so
// tests can point them at temp trees.
type Finder struct {
	// LookPath resolves a name on the process search path.
	LookPath func(name string) (string, error)
	// SystemPath is the fixed well-known system install location.
	SystemPath string
	// LocalPath is the fixed well-known local install location.
	LocalPath string
	// SearchDir is searched recursively for an executable named after
	// the application.
	SearchDir string
}

// NewFinder returns a Finder with the standard strategy set, searching
// buildsDir for extracted builds.
func NewFinder(buildsDir string) Finder {
	return Finder{
		LookPath:   exec.LookPath,
		SystemPath: "/usr/bin/blender",
		LocalPath:  "/opt/blender/blender",
		SearchDir:  buildsDir,
	}
}

// Find runs the discovery strategies in order and returns the first match.
// Search order: process search path, system install location, local install
// location, then a recursive search of SearchDir. When nothing matches it
// returns ErrExecutableNotFound.
func (f Finder) Find(name string) (string, error) {
	if f.LookPath != nil {
		if path, err := f.LookPath(name); err == nil && path != "" {
			return path, nil
		}
	}

	for _, candidate := range []string{f.SystemPath, f.LocalPath} {
		if candidate != "" && IsExecutable(candidate) {
			return candidate, nil
		}
	}

	if f.SearchDir != "" {
		if path := searchTree(f.SearchDir, name); path != "" {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: no %s executable on PATH, at %s, at %s, or under %s",
		types.ErrExecutableNotFound, name, f.SystemPath, f.LocalPath, f.SearchDir)
}

// IsExecutable reports whether path is an existing regular file with an
// execute bit set.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

// searchTree walks root looking for an executable regular file named name.
// Returns the empty string when nothing matches.
func searchTree(root, name string) string {
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree, keep going
			return nil
		}
		if d.IsDir() || d.Name() != name {
			return nil
		}
		if IsExecutable(path) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// ProbeVersion invokes the executable with --version and returns a
// human-readable version string. Any failure yields VersionUnknown; the
// probe never aborts a launch.
func ProbeVersion(executablePath string) string {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, executablePath, "--version").Output()
	if err != nil {
		return VersionUnknown
	}

	if v := ParseVersionOutput(string(out)); v != "" {
		return v
	}
	return VersionUnknown
}

// ParseVersionOutput extracts the version number from Blender's --version
// banner, whose first line looks like "Blender 4.2.1". Returns the empty
// string when the banner is unrecognizable.
func ParseVersionOutput(output string) string {
	firstLine := output
	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		firstLine = output[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)

	fields := strings.Fields(firstLine)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "blender") {
		return ""
	}
	if _, err := version.NewVersion(fields[1]); err != nil {
		return ""
	}
	return fields[1]
}

// BelowMinimum reports whether probed is a parseable version lower than
// minimum. Unparseable input (including VersionUnknown) reports false so a
// failed probe never triggers the minimum-version warning.
func BelowMinimum(probed, minimum string) bool {
	if probed == "" || minimum == "" {
		return false
	}
	probedVer, err := version.NewVersion(probed)
	if err != nil {
		return false
	}
	minVer, err := version.NewVersion(minimum)
	if err != nil {
		return false
	}
	return probedVer.LessThan(minVer)
}
