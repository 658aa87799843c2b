package workday

import "fmt"

// FormatClock renders seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatClock(seconds int64) string {
	seconds = clamp(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatHours renders seconds as "Nh Mm".
func FormatHours(seconds int64) string {
	seconds = clamp(seconds)
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
