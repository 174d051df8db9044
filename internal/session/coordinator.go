// Package session binds the configured recording timeout and the recording
// lifecycle to a countdown timer, stopping the recording and notifying the
// user when the timeout expires.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
	"github.com/oszuidwest/zwfm-sessionguard/internal/countdown"
	"github.com/oszuidwest/zwfm-sessionguard/internal/notifier"
	"github.com/oszuidwest/zwfm-sessionguard/internal/utils"
)

// SettingsSource supplies the user-configured timeout. The persisted
// settings store implements it.
type SettingsSource interface {
	TimeoutMinutes() int
}

// RecordingController is the slice of the recording engine the
// coordinator drives. StopRecording must be idempotent: a manual stop
// may race the automatic one.
type RecordingController interface {
	StopRecording()
	RecordingPaused() bool
}

// Coordinator owns at most one live countdown timer and keeps it in step
// with the recording lifecycle. One coordinator exists per process; it
// is handed to the recording engine at construction rather than living
// as ambient global state.
type Coordinator struct {
	settings SettingsSource
	recorder RecordingController
	notify   notifier.Notifier

	warningThreshold time.Duration

	mu              sync.Mutex
	timeoutDuration time.Duration
	timer           *countdown.Timer
}

// NewCoordinator wires the coordinator to its collaborators and loads
// the stored timeout setting.
func NewCoordinator(settings SettingsSource, recorder RecordingController, notify notifier.Notifier) *Coordinator {
	c := &Coordinator{
		settings:         settings,
		recorder:         recorder,
		notify:           notify,
		warningThreshold: constants.DefaultWarningThreshold,
	}
	c.LoadSettings()
	return c
}

// LoadSettings re-reads the stored timeout minutes and converts them to
// a duration. Out-of-range values are accepted as-is; they simply yield
// a correspondingly long or short timeout.
func (c *Coordinator) LoadSettings() {
	minutes := c.settings.TimeoutMinutes()

	c.mu.Lock()
	c.timeoutDuration = time.Duration(minutes) * time.Minute
	c.mu.Unlock()

	slog.Info("timeout setting loaded", "minutes", minutes, "enabled", minutes > 0)
}

// Enabled reports whether a recording timeout is configured.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeoutDuration > 0
}

// TimeoutDuration returns the configured timeout span.
func (c *Coordinator) TimeoutDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeoutDuration
}

// StartTimeout begins a recording-bound timeout. Any existing timeout is
// fully retired first; no two timers ever run under one coordinator. If
// the feature is disabled this clears any leftover state and returns.
func (c *Coordinator) StartTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.retireLocked()
	if c.timeoutDuration <= 0 {
		return
	}

	obs := &timerObserver{coordinator: c}
	t := countdown.New(obs, c.warningThreshold)
	obs.timer = t

	c.timer = t
	t.Start(c.timeoutDuration)

	slog.Info("recording timeout started", "duration", c.timeoutDuration)
}

// StopTimeout cancels and releases the active timeout. Idempotent.
func (c *Coordinator) StopTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retireLocked()
}

// PauseOrResumeTimeout aligns the timer with the recording engine's
// paused flag: pauses the countdown while the recording is paused and
// resumes it otherwise. No-op when no timeout is running.
func (c *Coordinator) PauseOrResumeTimeout() {
	c.mu.Lock()
	t := c.timer
	c.mu.Unlock()

	if t == nil {
		return
	}

	if c.recorder.RecordingPaused() {
		t.Pause()
	} else {
		t.Resume()
	}
}

// Remaining reports the time left before the recording is stopped, or 0
// when no timeout is running.
func (c *Coordinator) Remaining() time.Duration {
	c.mu.Lock()
	t := c.timer
	c.mu.Unlock()

	if t == nil {
		return 0
	}
	return t.Remaining()
}

// Active reports whether a recording-bound timeout is running or paused.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// retireLocked cancels and releases the current timer. Caller holds c.mu.
func (c *Coordinator) retireLocked() {
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
}

// handleExpired runs on the timer goroutine when the countdown reaches
// zero. Stale timers (already replaced or retired) are ignored.
func (c *Coordinator) handleExpired(t *countdown.Timer) {
	c.mu.Lock()
	if c.timer != t {
		c.mu.Unlock()
		return
	}
	c.retireLocked()
	c.mu.Unlock()

	slog.Info("recording timeout expired, stopping recording")
	c.recorder.StopRecording()

	c.sendNotification(
		"Recording Timeout",
		"The recording was automatically stopped because the configured timeout was reached.",
	)
}

// handleWarning runs on the timer goroutine shortly before expiration.
func (c *Coordinator) handleWarning(t *countdown.Timer, remaining time.Duration) {
	c.mu.Lock()
	stale := c.timer != t
	c.mu.Unlock()
	if stale {
		return
	}

	c.sendNotification(
		"Recording Timeout Warning",
		fmt.Sprintf("The recording will stop automatically in %s.", utils.FormatDuration(remaining)),
	)
}

func (c *Coordinator) sendNotification(title, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.NotifyTimeout)
	defer cancel()

	n := notifier.Notification{
		ID:    uuid.NewString(),
		Title: title,
		Body:  body,
	}
	if err := c.notify.Notify(ctx, n); err != nil {
		slog.Error("failed to deliver timeout notification", "title", title, "error", err)
	}
}

// timerObserver forwards countdown events to the coordinator together
// with the timer that produced them, so events from retired timers can
// be discarded.
type timerObserver struct {
	coordinator *Coordinator
	timer       *countdown.Timer
}

func (o *timerObserver) OnTimerExpired() {
	o.coordinator.handleExpired(o.timer)
}

func (o *timerObserver) OnTimerWarning(remaining time.Duration) {
	o.coordinator.handleWarning(o.timer, remaining)
}
