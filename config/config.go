package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// AppName is used for the config directory
const AppName = "blender-object-launcher"

// Config holds the launcher settings.
type Config struct {
	// BlenderPath, when set, overrides executable discovery entirely.
	BlenderPath string `toml:"blender_path"`
	// BuildsDir is the home-directory tree searched recursively for a
	// blender executable and used as the fetch target.
	BuildsDir string `toml:"builds_dir"`
	// ProjectFile is the .blend file handed to Blender on launch.
	ProjectFile string `toml:"project_file"`
	// StartupScript is the Python script Blender runs at startup.
	StartupScript string `toml:"startup_script"`
	// ModelFile is the GLB asset the startup script imports.
	ModelFile string `toml:"model_file"`
	// LogPath receives Blender's combined stdout/stderr.
	LogPath string `toml:"log_path"`
	// MinVersion is the minimum acceptable Blender version, e.g. "3.0".
	MinVersion string `toml:"min_version"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir() // Use UserHomeDir for safety
	defaultBuildsDir := filepath.Join(homeDir, "blender/blender-builds")

	return Config{
		BuildsDir:     defaultBuildsDir,
		ProjectFile:   "main.blend",
		StartupScript: filepath.Join("blender", "load_object1.py"),
		ModelFile:     filepath.Join("3d", "object1.glb"),
		LogPath:       filepath.Join(os.TempDir(), "blender_object1.log"),
		MinVersion:    "3.0",
	}
}

// GetConfigPath returns the full path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir() // ~/.config on Linux
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}

	return filepath.Join(configDir, AppName, "config.toml"), nil
}

// LoadConfig loads the configuration from the default path.
// If the file doesn't exist, it returns default settings without error.
func LoadConfig() (Config, error) {
	cfgPath, err := GetConfigPath()
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig() // Start with defaults

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		// Config file doesn't exist, run with defaults
		return cfg, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("could not stat config file %s: %w", cfgPath, err)
	}

	if _, err := toml.DecodeFile(cfgPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config file %s: %w", cfgPath, err)
	}

	// Expand ~ in path-valued settings
	for _, p := range []*string{&cfg.BlenderPath, &cfg.BuildsDir, &cfg.ProjectFile, &cfg.StartupScript, &cfg.ModelFile, &cfg.LogPath} {
		expanded, err := expandHome(*p)
		if err != nil {
			return cfg, err
		}
		*p = expanded
	}

	return cfg, nil
}

// EnsureConfig writes the default configuration on first run so the
// operator has a file to edit. Returns true when the file was created.
func EnsureConfig() (bool, error) {
	cfgPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("could not stat config file %s: %w", cfgPath, err)
	}

	if err := SaveConfig(DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

// SaveConfig saves the configuration to the default path.
// It creates the config directory if it doesn't exist.
func SaveConfig(cfg Config) error {
	cfgPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	appConfigDir := filepath.Dir(cfgPath)

	if err := os.MkdirAll(appConfigDir, 0750); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", appConfigDir, err)
	}

	file, err := os.Create(cfgPath)
	if err != nil {
		return fmt.Errorf("could not create config file %s: %w", cfgPath, err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("could not encode config to file %s: %w", cfgPath, err)
	}

	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory to expand path: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}
