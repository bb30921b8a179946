// Package platform verifies the host operating system and detects the
// distribution so executable-not-found diagnostics can suggest the right
// package manager.
package platform

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"Blender-Object-Launcher/types"
)

// osReleasePath is where Linux distributions describe themselves.
const osReleasePath = "/etc/os-release"

// Distro identifies a package-manager family for remediation hints.
type Distro int

const (
	// DistroUnknown means no recognizable distribution was detected
	DistroUnknown Distro = iota
	// DistroDebian covers Debian, Ubuntu, Mint and other apt systems
	DistroDebian
	// DistroFedora covers Fedora, RHEL, CentOS and other dnf systems
	DistroFedora
	// DistroArch covers Arch, Manjaro and other pacman systems
	DistroArch
)

// InstallHint returns the package-manager command that installs Blender
// on this distribution family.
func (d Distro) InstallHint() string {
	switch d {
	case DistroDebian:
		return "sudo apt install blender"
	case DistroFedora:
		return "sudo dnf install blender"
	case DistroArch:
		return "sudo pacman -S blender"
	default:
		return "install blender with your distribution's package manager"
	}
}

// Check succeeds only when the OS identifier is linux. Any other identifier
// is reported as an unsupported platform.
func Check(goos string) error {
	if goos != "linux" {
		return fmt.Errorf("%w: this launcher only supports Linux, detected %q", types.ErrUnsupportedPlatform, goos)
	}
	return nil
}

// DetectDistro reads /etc/os-release and maps the ID/ID_LIKE fields to a
// package-manager family. Failures are not fatal; they yield DistroUnknown.
func DetectDistro() Distro {
	return detectDistroFrom(osReleasePath)
}

func detectDistroFrom(path string) Distro {
	file, err := os.Open(path)
	if err != nil {
		return DistroUnknown
	}
	defer file.Close()

	ids := make([]string, 0, 4)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if key != "ID" && key != "ID_LIKE" {
			continue
		}
		value = strings.Trim(value, `"`)
		ids = append(ids, strings.Fields(strings.ToLower(value))...)
	}

	for _, id := range ids {
		switch id {
		case "debian", "ubuntu", "linuxmint", "pop":
			return DistroDebian
		case "fedora", "rhel", "centos", "rocky", "almalinux":
			return DistroFedora
		case "arch", "manjaro", "endeavouros":
			return DistroArch
		}
	}

	return DistroUnknown
}
