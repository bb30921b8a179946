// Package local scans the builds directory for extracted Blender builds via
// their version.json metadata.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"Blender-Object-Launcher/model"

	version "github.com/hashicorp/go-version"
)

const versionMetaFilename = "version.json"

// ReadBuildInfo reads build information from version.json in the given
// directory. Returns nil if version.json does not exist.
func ReadBuildInfo(dirPath string) (*model.Build, error) {
	metaPath := filepath.Join(dirPath, versionMetaFilename)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", metaPath, err)
	}

	var build model.Build
	if err := json.Unmarshal(data, &build); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", metaPath, err)
	}
	if build.FileName == "" {
		build.FileName = filepath.Base(dirPath)
	}
	return &build, nil
}

// ScanBuilds scans the builds directory for extracted builds, newest
// version first. Staging directories are skipped.
func ScanBuilds(buildsDir string) ([]model.Build, error) {
	var builds []model.Build
	entries, err := os.ReadDir(buildsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return builds, nil
		}
		return nil, fmt.Errorf("failed to read builds directory %s: %w", buildsDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirPath := filepath.Join(buildsDir, entry.Name())
		buildInfo, err := ReadBuildInfo(dirPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing directory %s: %v\n", dirPath, err)
			continue
		}
		if buildInfo != nil {
			builds = append(builds, *buildInfo)
		}
	}

	sort.Slice(builds, func(i, j int) bool {
		vi, erri := version.NewVersion(builds[i].Version)
		vj, errj := version.NewVersion(builds[j].Version)
		if erri != nil || errj != nil {
			return builds[i].Version > builds[j].Version
		}
		return vi.GreaterThan(vj)
	})

	return builds, nil
}

// HasVersion reports whether an extracted build with the given version is
// already present in the builds directory.
func HasVersion(buildsDir string, version string) (bool, error) {
	builds, err := ScanBuilds(buildsDir)
	if err != nil {
		return false, err
	}
	for _, build := range builds {
		if build.Version == version {
			return true, nil
		}
	}
	return false, nil
}
