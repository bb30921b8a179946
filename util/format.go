package util

import "fmt"

const unit = 1024

// FormatSize converts bytes to a human-readable string (KB, MB, GB).
func FormatSize(sizeBytes int64) string {
	if sizeBytes < unit {
		return fmt.Sprintf("%d B", sizeBytes)
	}
	value := float64(sizeBytes)
	for _, suffix := range []string{"KB", "MB", "GB"} {
		value /= unit
		if value < unit || suffix == "GB" {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%d B", sizeBytes) // Unreachable
}

// FormatSpeed converts bytes per second to a human-readable string (KB/s, MB/s, GB/s).
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond < unit {
		return fmt.Sprintf("%.1f B/s", bytesPerSecond)
	}
	value := bytesPerSecond
	for _, suffix := range []string{"KB/s", "MB/s", "GB/s"} {
		value /= unit
		if value < unit || suffix == "GB/s" {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f B/s", bytesPerSecond) // Unreachable
}
