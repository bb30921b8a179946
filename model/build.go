package model

import (
	"encoding/json"
	"time"
)

// Timestamp handles the builder API's Unix-number timestamps while
// serializing to RFC3339 in version.json.
type Timestamp time.Time

// UnmarshalJSON implements the json.Unmarshaler interface for Timestamp.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	// Unix timestamp in seconds
	var timestamp int64
	if err := json.Unmarshal(b, &timestamp); err == nil {
		*t = Timestamp(time.Unix(timestamp, 0))
		return nil
	}

	// RFC3339 string
	var timeStr string
	if err := json.Unmarshal(b, &timeStr); err == nil {
		parsedTime, err := time.Parse(time.RFC3339, timeStr)
		if err == nil {
			*t = Timestamp(parsedTime)
			return nil
		}
	}

	// Unrecognized shape, fall back to now rather than failing the
	// whole decode
	*t = Timestamp(time.Now())
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339))
}

// Time returns the underlying time.Time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// Build represents a single downloadable build entry from the builder API,
// and doubles as the version.json metadata written next to an extracted
// build.
type Build struct {
	Version         string    `json:"version"`
	Branch          string    `json:"branch"`
	Hash            string    `json:"hash"`           // Git commit hash short identifier
	BuildDate       Timestamp `json:"file_mtime"`     // Unix seconds from the API
	DownloadURL     string    `json:"url"`            // URL for the specific file
	OperatingSystem string    `json:"platform"`       // e.g., "linux", "windows", "darwin"
	Architecture    string    `json:"architecture"`   // e.g., "x86_64", "arm64"
	Size            int64     `json:"file_size"`      // File size in bytes
	FileName        string    `json:"file_name"`      // Full name of the downloadable file
	FileExtension   string    `json:"file_extension"` // e.g., "tar.xz", "sha256", "msi"
	ReleaseCycle    string    `json:"release_cycle"`  // e.g., "daily", "stable", "candidate"
}
