package types

import "errors"

// Fatal launcher errors. Each one maps to exit status 1 in main.
var (
	// ErrUnsupportedPlatform indicates the host OS is not Linux
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrExecutableNotFound indicates no discovery strategy located Blender
	ErrExecutableNotFound = errors.New("blender executable not found")
	// ErrRequiredAssetMissing indicates the startup script is absent
	ErrRequiredAssetMissing = errors.New("required asset missing")
)

// FetchState represents the current state of a build fetch
type FetchState int

const (
	// StateNone is the default state
	StateNone FetchState = iota
	// StateDownloading indicates the build archive is being downloaded
	StateDownloading
	// StateExtracting indicates the archive is being extracted
	StateExtracting
	// StateDone indicates the fetch completed successfully
	StateDone
	// StateFailed indicates a failed fetch
	StateFailed
)

// String returns the string representation of the FetchState
func (s FetchState) String() string {
	switch s {
	case StateNone:
		return "Idle"
	case StateDownloading:
		return "Downloading"
	case StateExtracting:
		return "Extracting"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
