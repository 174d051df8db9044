package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration time.Duration
		want     string
	}{
		{0, "00:00:00.000"},
		{1500 * time.Millisecond, "00:00:01.500"},
		{90 * time.Second, "00:01:30.000"},
		{time.Hour + 30*time.Minute, "01:30:00.000"},
		{25 * time.Hour, "25:00:00.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.duration), "duration=%v", tt.duration)
	}
}

func TestGetAppTimezoneFallsBackToUTC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.UTC, GetAppTimezone("Not/AZone"))
	assert.Equal(t, "Europe/Amsterdam", GetAppTimezone("Europe/Amsterdam").String())
}

func TestToAPIStringOrEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ToAPIStringOrEmpty(time.Time{}, "UTC"))

	ts := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-26 14:30:00", ToAPIStringOrEmpty(ts, "UTC"))
}
