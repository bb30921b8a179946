package main

import (
	"fmt"
	"os"
	"runtime"

	"Blender-Object-Launcher/api"
	"Blender-Object-Launcher/assets"
	"Blender-Object-Launcher/config"
	"Blender-Object-Launcher/discover"
	"Blender-Object-Launcher/launch"
	"Blender-Object-Launcher/local"
	"Blender-Object-Launcher/platform"
	"Blender-Object-Launcher/tui"
)

const launcherVersion = "1.0.0"

// downloadURL is offered as a remediation hint when no Blender install can
// be discovered.
const downloadURL = "https://www.blender.org/download/"

func main() {
	created, err := config.EnsureConfig()
	if err != nil {
		// A config the launcher cannot write is not worth aborting
		// over; the defaults still apply
		warn(fmt.Sprintf("Could not write default configuration: %v", err))
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal(fmt.Sprintf("Error loading configuration: %v", err))
	}
	if created {
		cfgPath, _ := config.GetConfigPath()
		info("Wrote default configuration to " + cfgPath)
	}

	command := "launch"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "launch":
		runLaunch(cfg)
	case "fetch":
		runFetch(cfg)
	case "version":
		runVersion(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  blender-object-launcher          check the host and launch Blender")
		fmt.Fprintln(os.Stderr, "  blender-object-launcher fetch    download the latest matching Blender build")
		fmt.Fprintln(os.Stderr, "  blender-object-launcher version  print launcher and Blender versions")
		os.Exit(1)
	}
}

// runLaunch is the default check-and-launch sequence: platform check,
// executable discovery, version probe, asset checks, then a fire-and-forget
// spawn. Each fatal condition exits 1 before anything expensive happens.
func runLaunch(cfg config.Config) {
	if err := platform.Check(runtime.GOOS); err != nil {
		fatal(err.Error())
	}
	info("Platform check passed: " + runtime.GOOS)

	executablePath := locateBlender(cfg)
	info("Using Blender at " + executablePath)

	probed := discover.ProbeVersion(executablePath)
	if probed == discover.VersionUnknown {
		warn("Could not determine Blender version, continuing anyway")
	} else {
		info("Blender version " + probed)
		if discover.BelowMinimum(probed, cfg.MinVersion) {
			warn(fmt.Sprintf("Blender %s is older than the configured minimum %s; the startup script may misbehave", probed, cfg.MinVersion))
		}
	}

	report, err := assets.Verify(cfg.StartupScript, cfg.ProjectFile, cfg.ModelFile)
	if err != nil {
		fatal(err.Error())
	}
	if report.CreatedProject {
		info("Project file " + cfg.ProjectFile + " was missing; created an empty placeholder")
	}
	if report.ModelMissing {
		warn("Model file " + cfg.ModelFile + " is missing; the scene import will not happen")
	}

	result, err := launch.Spawn(executablePath, cfg.ProjectFile, cfg.StartupScript, cfg.LogPath)
	if err != nil {
		fatal(fmt.Sprintf("Failed to launch Blender: %v", err))
	}

	success(fmt.Sprintf("Blender launched in the background (pid %d)", result.Pid))
	info("Output is logged to " + result.LogPath)
	if !result.Teeing {
		info("Follow it with: tail -f " + result.LogPath)
	}
}

// locateBlender applies the configured override, then the ordered discovery
// strategies. Exits with remediation hints when nothing is found.
func locateBlender(cfg config.Config) string {
	if cfg.BlenderPath != "" {
		if discover.IsExecutable(cfg.BlenderPath) {
			return cfg.BlenderPath
		}
		warn("Configured blender_path " + cfg.BlenderPath + " is not an executable file; falling back to discovery")
	}

	finder := discover.NewFinder(cfg.BuildsDir)
	executablePath, err := finder.Find("blender")
	if err != nil {
		printError(err.Error())
		distro := platform.DetectDistro()
		fmt.Fprintln(os.Stderr, "To install Blender:")
		fmt.Fprintln(os.Stderr, "  "+distro.InstallHint())
		fmt.Fprintln(os.Stderr, "  or download it from "+downloadURL)
		fmt.Fprintln(os.Stderr, "  or run: blender-object-launcher fetch")
		os.Exit(1)
	}
	return executablePath
}

// runFetch downloads and extracts the newest build matching the configured
// minimum version into the builds directory.
func runFetch(cfg config.Config) {
	if err := platform.Check(runtime.GOOS); err != nil {
		fatal(err.Error())
	}

	info("Fetching build list from builder.blender.org")
	builds, err := api.FetchBuilds(cfg.MinVersion)
	if err != nil {
		fatal(fmt.Sprintf("Failed to fetch build list: %v", err))
	}

	build, err := api.PickLatest(builds)
	if err != nil {
		fatal(err.Error())
	}

	present, err := local.HasVersion(cfg.BuildsDir, build.Version)
	if err != nil {
		fatal(err.Error())
	}
	if present {
		success(fmt.Sprintf("Blender %s is already present in %s", build.Version, cfg.BuildsDir))
		return
	}

	extractedDir, err := tui.RunFetch(build, cfg.BuildsDir)
	if err != nil {
		fatal(fmt.Sprintf("Fetch failed: %v", err))
	}
	success(fmt.Sprintf("Blender %s extracted to %s", build.Version, extractedDir))
}

// runVersion prints the launcher version and whatever it can learn about
// the local Blender installs.
func runVersion(cfg config.Config) {
	fmt.Println("blender-object-launcher " + launcherVersion)

	finder := discover.NewFinder(cfg.BuildsDir)
	executablePath := cfg.BlenderPath
	if executablePath == "" || !discover.IsExecutable(executablePath) {
		var err error
		executablePath, err = finder.Find("blender")
		if err != nil {
			warn("No Blender executable discovered")
			return
		}
	}
	fmt.Printf("blender %s (%s)\n", discover.ProbeVersion(executablePath), executablePath)

	builds, err := local.ScanBuilds(cfg.BuildsDir)
	if err != nil || len(builds) == 0 {
		return
	}
	fmt.Println("fetched builds:")
	for _, build := range builds {
		fmt.Printf("  %s  %s\n", build.Version, build.FileName)
	}
}

func info(msg string) {
	fmt.Println(tui.InfoStyle.Render(msg))
}

func warn(msg string) {
	fmt.Println(tui.WarnStyle.Render("Warning: " + msg))
}

func success(msg string) {
	fmt.Println(tui.SuccessStyle.Render(msg))
}

func printError(msg string) {
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+msg))
}

func fatal(msg string) {
	printError(msg)
	os.Exit(1)
}
