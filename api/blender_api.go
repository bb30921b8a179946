package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strings"

	"Blender-Object-Launcher/model"

	version "github.com/hashicorp/go-version"
)

// API endpoint
const blenderAPIURL = "https://builder.blender.org/download/daily/?format=json&v=1"

// FetchBuilds fetches the list of Blender builds from the official API,
// filtering for the current OS/architecture, tar.xz archives, and the
// minimum version. The result is sorted newest version first.
func FetchBuilds(minVersionFilter string) ([]model.Build, error) {
	resp, err := http.Get(blenderAPIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch data: status code %d", resp.StatusCode)
	}

	var allBuildEntries []model.Build
	if err := json.NewDecoder(resp.Body).Decode(&allBuildEntries); err != nil {
		return nil, fmt.Errorf("failed to decode JSON (check API response structure): %w", err)
	}

	// The API reports linux/amd64 as x86_64
	currentOS := runtime.GOOS
	apiArch := runtime.GOARCH
	if apiArch == "amd64" {
		apiArch = "x86_64"
	}

	var minVersion *version.Version
	if minVersionFilter != "" {
		minVersion, err = version.NewVersion(minVersionFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid version filter format '%s': %w", minVersionFilter, err)
		}
	}

	var filteredBuilds []model.Build
	for _, build := range allBuildEntries {
		if build.OperatingSystem != currentOS {
			continue
		}
		if build.Architecture != apiArch {
			continue
		}
		// The extractor only handles tar.xz; checksum and installer
		// entries are skipped along with everything else
		if strings.ToLower(build.FileExtension) != "tar.xz" {
			continue
		}

		if minVersion != nil {
			buildVersion, err := version.NewVersion(build.Version)
			if err != nil {
				// Skip builds with unparseable versions if a filter is active
				continue
			}
			if buildVersion.LessThan(minVersion) {
				continue
			}
		}

		filteredBuilds = append(filteredBuilds, build)
	}

	sort.Slice(filteredBuilds, func(i, j int) bool {
		vi, erri := version.NewVersion(filteredBuilds[i].Version)
		vj, errj := version.NewVersion(filteredBuilds[j].Version)
		if erri != nil || errj != nil {
			return filteredBuilds[i].Version > filteredBuilds[j].Version
		}
		return vi.GreaterThan(vj)
	})

	return filteredBuilds, nil
}

// PickLatest returns the newest build from a FetchBuilds result.
func PickLatest(builds []model.Build) (model.Build, error) {
	if len(builds) == 0 {
		return model.Build{}, fmt.Errorf("no matching builds available")
	}
	return builds[0], nil
}
