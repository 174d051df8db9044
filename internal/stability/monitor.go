// Package stability tracks the health of a long-running capture session and
// recommends maintenance actions: memory-pressure frame skipping, periodic
// audio pipeline restarts, and buffered file flushes. The monitor only
// detects; applying the actions is the recording engine's job.
package stability

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
)

// Action is a single maintenance recommendation.
type Action int

const (
	ActionContinue Action = iota
	ActionSkipFrame
	ActionRestartAudioEngine
	ActionFlushFiles
)

// String returns the action name for logs and API responses.
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionSkipFrame:
		return "skip_frame"
	case ActionRestartAudioEngine:
		return "restart_audio_engine"
	case ActionFlushFiles:
		return "flush_files"
	default:
		return "unknown"
	}
}

// Pipeline is the audio pipeline handle the monitor restarts. The real
// capture engine implements it; the monitor never holds one beyond the
// duration of a restart.
type Pipeline interface {
	Stop() error
	Reset() error
	Start() error
}

// Monitor holds the in-memory health counters for one process. State
// resets only on process restart.
type Monitor struct {
	frameCount atomic.Uint64

	memoryCheckFrequency uint64
	restartInterval      time.Duration
	restartTimeout       time.Duration

	mu               sync.Mutex
	lastAudioRestart time.Time // informational; zero until the first successful restart
	restartInFlight  bool

	flusher *Flusher
}

// NewMonitor returns a monitor using the default cadence constants and
// the given flusher for time-based flush recommendations.
func NewMonitor(flusher *Flusher) *Monitor {
	return &Monitor{
		memoryCheckFrequency: constants.MemoryCheckFrequency,
		restartInterval:      constants.AudioEngineRestartInterval,
		restartTimeout:       constants.AudioRestartTimeout,
		flusher:              flusher,
	}
}

// ShouldCheckMemoryPressure counts a processed frame and reports whether
// this frame lands on a memory-check boundary. Expensive pressure checks
// run roughly once per MemoryCheckFrequency frames, not on every frame.
// Safe to call from concurrent sample-processing goroutines.
func (m *Monitor) ShouldCheckMemoryPressure() bool {
	return m.frameCount.Add(1)%m.memoryCheckFrequency == 0
}

// FrameCount returns the number of frames counted so far.
func (m *Monitor) FrameCount() uint64 {
	return m.frameCount.Load()
}

// MemoryPressureAction maps a thermal state to a load-shedding decision.
// Unknown or future states fail open to ActionContinue: never silently
// drop data on an unrecognized state.
func MemoryPressureAction(state ThermalState) Action {
	switch state {
	case ThermalSerious, ThermalCritical:
		return ActionSkipFrame
	default:
		return ActionContinue
	}
}

// AudioEngineNeedsRestart reports whether the pipeline that started at
// startTime has been running long enough to warrant a restart.
func (m *Monitor) AudioEngineNeedsRestart(startTime time.Time) bool {
	return time.Since(startTime) >= m.restartInterval
}

// LastAudioRestart returns the time of the last successful pipeline
// restart, or the zero time if none has happened yet.
func (m *Monitor) LastAudioRestart() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAudioRestart
}

// RestartAudioEngine stops, resets, and restarts the pipeline off the
// calling goroutine, invoking completion with the outcome. A failed
// restart is reported, not retried, and leaves the last-restart time
// unchanged; a subsequent check will simply recommend another attempt.
// The whole attempt is bounded by the restart timeout so a stuck
// pipeline cannot block later checks. At most one restart runs at a
// time; overlapping requests complete immediately with false.
func (m *Monitor) RestartAudioEngine(pipeline Pipeline, completion func(ok bool)) {
	m.mu.Lock()
	if m.restartInFlight {
		m.mu.Unlock()
		slog.Warn("audio engine restart already in progress, skipping")
		if completion != nil {
			completion(false)
		}
		return
	}
	m.restartInFlight = true
	m.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.restartTimeout)
		defer cancel()

		ok := m.runRestart(ctx, pipeline)

		m.mu.Lock()
		m.restartInFlight = false
		if ok {
			m.lastAudioRestart = time.Now()
		}
		m.mu.Unlock()

		if completion != nil {
			completion(ok)
		}
	}()
}

// runRestart performs stop/reset/start, abandoning the attempt if the
// deadline expires between steps.
func (m *Monitor) runRestart(ctx context.Context, pipeline Pipeline) bool {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"stop", pipeline.Stop},
		{"reset", pipeline.Reset},
		{"start", pipeline.Start},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			slog.Error("audio engine restart timed out", "step", step.name)
			return false
		}
		if err := step.fn(); err != nil {
			slog.Error("audio engine restart failed", "step", step.name, "error", err)
			return false
		}
	}

	slog.Info("audio engine restarted")
	return true
}

// PerformStabilityChecks evaluates all health signals for a session that
// started at startTime and returns the recommended actions. It mutates
// nothing; the caller executes the actions against the real recording
// resources.
func (m *Monitor) PerformStabilityChecks(startTime time.Time, source ThermalSource) []Action {
	var actions []Action

	if m.ShouldCheckMemoryPressure() && source != nil {
		if action := MemoryPressureAction(source.ThermalState()); action == ActionSkipFrame {
			actions = append(actions, ActionSkipFrame)
		}
	}

	if m.AudioEngineNeedsRestart(startTime) {
		actions = append(actions, ActionRestartAudioEngine)
	}

	if m.flusher != nil && m.flusher.NeedsFlush() {
		actions = append(actions, ActionFlushFiles)
	}

	return actions
}
