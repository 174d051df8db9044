package session

import "fmt"

// StatusText renders the configured timeout as the user-facing status
// line shown next to the setting. Pure function of the stored minutes.
func StatusText(minutes int) string {
	switch {
	case minutes <= 0:
		return "Recording will not automatically stop"
	case minutes < 60:
		return fmt.Sprintf("Recording will stop after %d %s", minutes, pluralize(minutes, "minute"))
	case minutes%60 == 0:
		hours := minutes / 60
		return fmt.Sprintf("Recording will stop after %d %s", hours, pluralize(hours, "hour"))
	default:
		return fmt.Sprintf("Recording will stop after %dh %dm", minutes/60, minutes%60)
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
