package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThermalStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state ThermalState
		want  string
	}{
		{ThermalNominal, "nominal"},
		{ThermalFair, "fair"},
		{ThermalSerious, "serious"},
		{ThermalCritical, "critical"},
		{ThermalState(7), "unknown(7)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestMemorySensorReturnsKnownState(t *testing.T) {
	t.Parallel()

	// The sensor reads live system memory, so only range membership is
	// checkable here; the threshold mapping itself is pure arithmetic.
	state := MemorySensor{}.ThermalState()
	assert.GreaterOrEqual(t, state, ThermalNominal)
	assert.LessOrEqual(t, state, ThermalCritical)
}
