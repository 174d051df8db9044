package stability

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// ThermalState is a coarse four-level resource-pressure signal used as a
// proxy for "should we shed load now".
type ThermalState int

const (
	ThermalNominal ThermalState = iota
	ThermalFair
	ThermalSerious
	ThermalCritical
)

// String returns the lowercase name of the state.
func (s ThermalState) String() string {
	switch s {
	case ThermalNominal:
		return "nominal"
	case ThermalFair:
		return "fair"
	case ThermalSerious:
		return "serious"
	case ThermalCritical:
		return "critical"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Memory used-percent thresholds mapping system pressure onto the four
// thermal levels.
const (
	fairMemoryPercent     = 70.0
	seriousMemoryPercent  = 80.0
	criticalMemoryPercent = 90.0
)

// ThermalSource reports the current thermal state. Injected into the
// stability sweep so tests can drive specific states.
type ThermalSource interface {
	ThermalState() ThermalState
}

// MemorySensor derives the thermal state from system memory usage.
type MemorySensor struct{}

// ThermalState samples memory used-percent and maps it to a thermal
// level. Sampling failures read as nominal: the monitor must fail open
// rather than shed frames on a broken sensor.
func (MemorySensor) ThermalState() ThermalState {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return ThermalNominal
	}

	switch {
	case vmStat.UsedPercent >= criticalMemoryPercent:
		return ThermalCritical
	case vmStat.UsedPercent >= seriousMemoryPercent:
		return ThermalSerious
	case vmStat.UsedPercent >= fairMemoryPercent:
		return ThermalFair
	default:
		return ThermalNominal
	}
}
