// Package assets verifies the project files Blender is launched with.
package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"Blender-Object-Launcher/types"
)

// Report describes what Verify found and did.
type Report struct {
	// CreatedProject is true when the project file was absent and an
	// empty placeholder was written in its place.
	CreatedProject bool
	// ModelMissing is true when the optional model file is absent;
	// the launch proceeds but the import will not happen.
	ModelMissing bool
}

// Verify checks the three launch assets.
//
// The startup script must exist; its absence is fatal and aborts before any
// launch attempt. A missing project file is recoverable: an empty
// placeholder is created and Blender will populate it. A missing model file
// only earns a warning.
func Verify(scriptPath, projectFilePath, modelFilePath string) (Report, error) {
	var report Report

	if _, err := os.Stat(scriptPath); err != nil {
		if os.IsNotExist(err) {
			return report, fmt.Errorf("%w: startup script %s does not exist", types.ErrRequiredAssetMissing, scriptPath)
		}
		return report, fmt.Errorf("could not stat startup script %s: %w", scriptPath, err)
	}

	if _, err := os.Stat(projectFilePath); os.IsNotExist(err) {
		if err := createPlaceholder(projectFilePath); err != nil {
			return report, err
		}
		report.CreatedProject = true
	} else if err != nil {
		return report, fmt.Errorf("could not stat project file %s: %w", projectFilePath, err)
	}

	if _, err := os.Stat(modelFilePath); os.IsNotExist(err) {
		report.ModelMissing = true
	}

	return report, nil
}

// createPlaceholder writes an empty project file so Blender has something
// to open and save into.
func createPlaceholder(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("could not create project directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create placeholder project file %s: %w", path, err)
	}
	return file.Close()
}
