// Package recorder manages the capture session lifecycle and runs the
// per-frame path that consults the stability monitor and applies its
// recommendations against the real recording resources.
package recorder

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oszuidwest/zwfm-sessionguard/internal/stability"
)

// State is the current recording state.
type State string

const (
	StateIdle      State = "IDLE"
	StateRecording State = "RECORDING"
	StatePaused    State = "PAUSED"
)

// TimeoutCoordinator is the timeout side of the session coordinator the
// manager notifies about lifecycle changes.
type TimeoutCoordinator interface {
	StartTimeout()
	StopTimeout()
	PauseOrResumeTimeout()
}

// Stats tracks session health and throughput.
type Stats struct {
	StartTime        time.Time
	FramesProcessed  uint64
	FramesSkipped    uint64
	BytesRecorded    int64
	PipelineRestarts int64
	LastError        error
}

// Manager owns one capture session at a time: lifecycle transitions,
// the frame-processing path, and applying stability recommendations.
type Manager struct {
	monitor *stability.Monitor
	flusher *stability.Flusher
	thermal stability.ThermalSource

	// restarting shadows the in-flight pipeline restart so frames are
	// shed instead of written into a half-open pipeline.
	restarting atomic.Bool

	mu            sync.RWMutex
	coordinator   TimeoutCoordinator
	pipeline      Pipeline
	state         State
	sessionName   string
	pipelineStart time.Time
	stats         Stats
}

// NewManager creates a manager. The timeout coordinator is attached
// separately because it needs the manager at its own construction time.
func NewManager(pipeline Pipeline, monitor *stability.Monitor, flusher *stability.Flusher, thermal stability.ThermalSource) *Manager {
	return &Manager{
		monitor:  monitor,
		flusher:  flusher,
		thermal:  thermal,
		pipeline: pipeline,
		state:    StateIdle,
	}
}

// SetCoordinator attaches the timeout coordinator. Must be called before
// the first Start.
func (m *Manager) SetCoordinator(c TimeoutCoordinator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coordinator = c
}

// Start begins a new capture session.
func (m *Manager) Start(sessionName string) error {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return fmt.Errorf("recording already in progress")
	}

	if err := m.pipeline.Start(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to start audio pipeline: %w", err)
	}

	now := time.Now()
	m.state = StateRecording
	m.sessionName = sessionName
	m.pipelineStart = now
	m.stats = Stats{StartTime: now}
	coordinator := m.coordinator
	m.mu.Unlock()

	if coordinator != nil {
		coordinator.StartTimeout()
	}

	slog.Info("recording started", "session", sessionName)
	return nil
}

// Stop ends the current session. Idempotent: the manual stop and the
// automatic timeout stop converge here and the second call is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.state == StateIdle {
		m.mu.Unlock()
		return
	}

	if err := m.pipeline.Stop(); err != nil {
		slog.Error("failed to stop audio pipeline", "error", err)
	}

	session := m.sessionName
	m.state = StateIdle
	m.sessionName = ""
	coordinator := m.coordinator
	m.mu.Unlock()

	if coordinator != nil {
		coordinator.StopTimeout()
	}

	slog.Info("recording stopped", "session", session)
}

// StopRecording implements the session coordinator's controller contract.
func (m *Manager) StopRecording() {
	m.Stop()
}

// Pause suspends the session. The timeout countdown pauses with it.
func (m *Manager) Pause() {
	m.mu.Lock()
	if m.state != StateRecording {
		m.mu.Unlock()
		return
	}
	m.state = StatePaused
	coordinator := m.coordinator
	m.mu.Unlock()

	if coordinator != nil {
		coordinator.PauseOrResumeTimeout()
	}
	slog.Info("recording paused")
}

// Resume continues a paused session.
func (m *Manager) Resume() {
	m.mu.Lock()
	if m.state != StatePaused {
		m.mu.Unlock()
		return
	}
	m.state = StateRecording
	coordinator := m.coordinator
	m.mu.Unlock()

	if coordinator != nil {
		coordinator.PauseOrResumeTimeout()
	}
	slog.Info("recording resumed")
}

// RecordingPaused implements the session coordinator's controller
// contract: it is the external paused flag the coordinator reads.
func (m *Manager) RecordingPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StatePaused
}

// State returns the current recording state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SessionName returns the active session's name, empty when idle.
func (m *Manager) SessionName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionName
}

// GetStats returns a copy of the current session stats.
func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// updateStats safely mutates the session stats.
func (m *Manager) updateStats(update func(*Stats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	update(&m.stats)
}

// ProcessFrame runs one media sample through the stability checks and,
// unless the monitor recommends shedding it, into the pipeline. Frames
// arriving while idle or paused are dropped silently.
func (m *Manager) ProcessFrame(frame []byte) error {
	m.mu.RLock()
	state := m.state
	pipelineStart := m.pipelineStart
	m.mu.RUnlock()

	if state != StateRecording {
		return nil
	}

	skip := false
	for _, action := range m.monitor.PerformStabilityChecks(pipelineStart, m.thermal) {
		switch action {
		case stability.ActionSkipFrame:
			skip = true
		case stability.ActionRestartAudioEngine:
			m.requestPipelineRestart()
		case stability.ActionFlushFiles:
			if err := m.flusher.Flush(); err != nil {
				slog.Warn("periodic flush failed", "error", err)
			}
		}
	}

	if skip || m.restarting.Load() {
		m.updateStats(func(s *Stats) { s.FramesSkipped++ })
		return nil
	}

	n, err := m.pipeline.WriteFrame(frame)
	if err != nil {
		m.updateStats(func(s *Stats) { s.LastError = err })
		return fmt.Errorf("failed to write frame: %w", err)
	}

	m.updateStats(func(s *Stats) {
		s.FramesProcessed++
		s.BytesRecorded += int64(n)
	})
	return nil
}

// requestPipelineRestart hands the pipeline to the stability monitor for
// an asynchronous restart. Overlapping requests are dropped here so the
// per-frame path stays cheap.
func (m *Manager) requestPipelineRestart() {
	if m.restarting.Swap(true) {
		return
	}

	slog.Info("audio pipeline restart recommended")
	m.monitor.RestartAudioEngine(m.pipeline, func(ok bool) {
		if ok {
			m.mu.Lock()
			m.pipelineStart = time.Now()
			m.mu.Unlock()
			m.updateStats(func(s *Stats) { s.PipelineRestarts++ })
		} else {
			slog.Warn("audio pipeline restart failed, recording continues")
		}
		m.restarting.Store(false)
	})
}

// LastAudioRestart exposes the monitor's last successful restart time
// for the status API.
func (m *Manager) LastAudioRestart() time.Time {
	return m.monitor.LastAudioRestart()
}
