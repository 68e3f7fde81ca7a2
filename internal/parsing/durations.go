// Package parsing holds small pure value formatters and parsers.
package parsing

import "fmt"

// FormatDuration formats seconds as HH:MM:SS, or MM:SS under an hour.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "Unknown"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
