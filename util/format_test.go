package util

import "testing"

func TestFormatSize(t *testing.T) {
	testCases := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "bytes", input: 512, expected: "512 B"},
		{name: "kilobytes", input: 2048, expected: "2.0 KB"},
		{name: "megabytes", input: 5 * 1024 * 1024, expected: "5.0 MB"},
		{name: "gigabytes", input: 3 * 1024 * 1024 * 1024, expected: "3.0 GB"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSize(tc.input); got != tc.expected {
				t.Errorf("FormatSize(%d) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestFormatSpeed(t *testing.T) {
	testCases := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "bytes per second", input: 100, expected: "100.0 B/s"},
		{name: "kilobytes per second", input: 1536, expected: "1.5 KB/s"},
		{name: "megabytes per second", input: 2 * 1024 * 1024, expected: "2.0 MB/s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSpeed(tc.input); got != tc.expected {
				t.Errorf("FormatSpeed(%f) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
