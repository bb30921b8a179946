package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"Blender-Object-Launcher/types"
)

// createExecutableFile writes an empty file with the execute bit set.
func createExecutableFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("Failed to create executable file %s: %v", path, err)
	}
}

// failingLookPath simulates a name that is not on the search path.
func failingLookPath(string) (string, error) {
	return "", errors.New("not found on PATH")
}

func TestFindStrategyOrder(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T, dir string) (Finder, string) // Returns finder and expected path
	}{
		{
			name: "search path wins over everything",
			setup: func(t *testing.T, dir string) (Finder, string) {
				pathExe := filepath.Join(dir, "onpath", "blender")
				sysExe := filepath.Join(dir, "usr-bin", "blender")
				createExecutableFile(t, pathExe)
				createExecutableFile(t, sysExe)
				f := Finder{
					LookPath:   func(string) (string, error) { return pathExe, nil },
					SystemPath: sysExe,
				}
				return f, pathExe
			},
		},
		{
			name: "system location wins over local and home",
			setup: func(t *testing.T, dir string) (Finder, string) {
				sysExe := filepath.Join(dir, "usr-bin", "blender")
				localExe := filepath.Join(dir, "opt", "blender")
				createExecutableFile(t, sysExe)
				createExecutableFile(t, localExe)
				f := Finder{
					LookPath:   failingLookPath,
					SystemPath: sysExe,
					LocalPath:  localExe,
					SearchDir:  dir,
				}
				return f, sysExe
			},
		},
		{
			name: "local location wins over home search",
			setup: func(t *testing.T, dir string) (Finder, string) {
				localExe := filepath.Join(dir, "opt", "blender")
				homeExe := filepath.Join(dir, "builds", "blender-4.2.1", "blender")
				createExecutableFile(t, localExe)
				createExecutableFile(t, homeExe)
				f := Finder{
					LookPath:   failingLookPath,
					SystemPath: filepath.Join(dir, "missing", "blender"),
					LocalPath:  localExe,
					SearchDir:  filepath.Join(dir, "builds"),
				}
				return f, localExe
			},
		},
		{
			name: "home search as last resort",
			setup: func(t *testing.T, dir string) (Finder, string) {
				homeExe := filepath.Join(dir, "builds", "blender-4.2.1", "blender")
				createExecutableFile(t, homeExe)
				f := Finder{
					LookPath:   failingLookPath,
					SystemPath: filepath.Join(dir, "missing", "blender"),
					LocalPath:  filepath.Join(dir, "also-missing", "blender"),
					SearchDir:  filepath.Join(dir, "builds"),
				}
				return f, homeExe
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			finder, expected := tc.setup(t, t.TempDir())
			got, err := finder.Find("blender")
			if err != nil {
				t.Fatalf("Find returned an error: %v", err)
			}
			if got != expected {
				t.Errorf("Expected %s, got %s", expected, got)
			}
		})
	}
}

func TestFindNoMatch(t *testing.T) {
	dir := t.TempDir()
	finder := Finder{
		LookPath:   failingLookPath,
		SystemPath: filepath.Join(dir, "missing", "blender"),
		LocalPath:  filepath.Join(dir, "also-missing", "blender"),
		SearchDir:  filepath.Join(dir, "nonexistent-builds"),
	}

	_, err := finder.Find("blender")
	if err == nil {
		t.Fatal("Expected an error when no strategy matches, got nil")
	}
	if !errors.Is(err, types.ErrExecutableNotFound) {
		t.Errorf("Expected ErrExecutableNotFound, got %v", err)
	}
}

func TestFindIgnoresNonExecutableCandidates(t *testing.T) {
	dir := t.TempDir()

	// A fixed-location candidate that exists but is not executable
	sysExe := filepath.Join(dir, "usr-bin", "blender")
	if err := os.MkdirAll(filepath.Dir(sysExe), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(sysExe, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// A matching name in the search dir that is a directory, plus a
	// non-executable file, neither of which should match
	if err := os.MkdirAll(filepath.Join(dir, "builds", "nested", "blender"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "builds", "blender"), []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	finder := Finder{
		LookPath:   failingLookPath,
		SystemPath: sysExe,
		SearchDir:  filepath.Join(dir, "builds"),
	}

	if _, err := finder.Find("blender"); !errors.Is(err, types.ErrExecutableNotFound) {
		t.Errorf("Expected ErrExecutableNotFound, got %v", err)
	}
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()

	exe := filepath.Join(dir, "blender")
	createExecutableFile(t, exe)
	if !IsExecutable(exe) {
		t.Error("Expected executable file to be reported as executable")
	}

	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(plain, []byte("hi"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if IsExecutable(plain) {
		t.Error("Expected non-executable file to be rejected")
	}

	if IsExecutable(dir) {
		t.Error("Expected directory to be rejected")
	}

	if IsExecutable(filepath.Join(dir, "missing")) {
		t.Error("Expected missing path to be rejected")
	}
}

func TestParseVersionOutput(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected string
	}{
		{
			name:     "typical banner",
			output:   "Blender 4.2.1\n\tbuild date: 2024-08-19\n",
			expected: "4.2.1",
		},
		{
			name:     "single line",
			output:   "Blender 3.6.0",
			expected: "3.6.0",
		},
		{
			name:     "lowercase banner",
			output:   "blender 4.0.2\n",
			expected: "4.0.2",
		},
		{
			name:     "not blender",
			output:   "GIMP 2.10\n",
			expected: "",
		},
		{
			name:     "unparseable version",
			output:   "Blender weekly-build\n",
			expected: "",
		},
		{
			name:     "empty output",
			output:   "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseVersionOutput(tc.output); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestProbeVersionFailure(t *testing.T) {
	// A path that cannot be executed must yield the literal fallback
	if got := ProbeVersion(filepath.Join(t.TempDir(), "missing")); got != VersionUnknown {
		t.Errorf("Expected %q for a missing executable, got %q", VersionUnknown, got)
	}
}

func TestBelowMinimum(t *testing.T) {
	testCases := []struct {
		name     string
		probed   string
		minimum  string
		expected bool
	}{
		{name: "below", probed: "2.93.0", minimum: "3.0", expected: true},
		{name: "equal", probed: "3.0.0", minimum: "3.0", expected: false},
		{name: "above", probed: "4.2.1", minimum: "3.0", expected: false},
		{name: "unknown probe", probed: VersionUnknown, minimum: "3.0", expected: false},
		{name: "no minimum configured", probed: "2.80", minimum: "", expected: false},
		{name: "unparseable minimum", probed: "3.0", minimum: "latest", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BelowMinimum(tc.probed, tc.minimum); got != tc.expected {
				t.Errorf("BelowMinimum(%q, %q) = %v, expected %v", tc.probed, tc.minimum, got, tc.expected)
			}
		})
	}
}
