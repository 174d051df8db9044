package utils

import (
	"fmt"
	"time"
)

// GetAppTimezone returns the application's standard timezone.
// Falls back to UTC if timezone loading fails.
func GetAppTimezone(timezone string) *time.Location {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) time.Time {
	return time.Now().In(GetAppTimezone(timezone))
}

// FormatDuration formats a duration as HH:MM:SS.mmm.
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, milliseconds)
}

// ToAPIStringOrEmpty returns the formatted time or an empty string for a
// zero time, so the API never shows "0001-01-01" placeholders.
func ToAPIStringOrEmpty(t time.Time, timezone string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(GetAppTimezone(timezone)).Format("2006-01-02 15:04:05")
}
