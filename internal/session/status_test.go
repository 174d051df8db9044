package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    string
	}{
		{0, "Recording will not automatically stop"},
		{1, "Recording will stop after 1 minute"},
		{30, "Recording will stop after 30 minutes"},
		{59, "Recording will stop after 59 minutes"},
		{60, "Recording will stop after 1 hour"},
		{90, "Recording will stop after 1h 30m"},
		{120, "Recording will stop after 2 hours"},
		{121, "Recording will stop after 2h 1m"},
		{1440, "Recording will stop after 24 hours"},
		{-5, "Recording will not automatically stop"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusText(tt.minutes), "minutes=%d", tt.minutes)
	}
}
