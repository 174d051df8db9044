// Package countdown provides a single-run countdown timer with pause/resume
// semantics and one-time warning and expiration callbacks.
package countdown

import (
	"sync"
	"time"
)

// Observer receives the two asynchronous timer events. Registration is
// one-to-one: a Timer notifies exactly one Observer.
type Observer interface {
	// OnTimerWarning fires at most once per run, before expiration,
	// carrying the remaining time at fire time.
	OnTimerWarning(remaining time.Duration)
	// OnTimerExpired fires exactly once per run; the timer is inactive
	// by the time it is invoked.
	OnTimerExpired()
}

// Timer counts down a configured duration and delivers warning and
// expiration callbacks. It has no knowledge of recording semantics and
// operates purely on durations and wall-clock deltas.
//
// All methods return immediately; callbacks are delivered asynchronously
// on timer goroutines. State transitions are serialized by an internal
// mutex, and a generation counter guarantees that callbacks from a
// cancelled or replaced run never fire.
type Timer struct {
	mu sync.Mutex

	observer         Observer
	warningThreshold time.Duration

	duration  time.Duration
	startTime time.Time
	remaining time.Duration // frozen value while paused

	active       bool
	paused       bool
	warningFired bool

	generation  uint64
	expireTimer *time.Timer
	warnTimer   *time.Timer
}

// New returns a Timer that notifies obs. A warningThreshold of zero
// disables the warning callback.
func New(obs Observer, warningThreshold time.Duration) *Timer {
	return &Timer{
		observer:         obs,
		warningThreshold: warningThreshold,
	}
}

// Start begins a fresh run of d. Any in-flight run is discarded first.
// A non-positive duration is treated as "disabled": the timer ends up
// inactive and no callbacks are scheduled.
func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetLocked()
	if d <= 0 {
		return
	}

	t.duration = d
	t.startTime = time.Now()
	t.active = true
	t.armLocked(d, true)
}

// Cancel tears down any in-flight run and returns the timer to its
// initial inactive state. Safe to call from any state.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

// Pause freezes the remaining time and disarms the underlying timers.
// No-op unless the timer is active and not already paused.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || t.paused {
		return
	}

	t.remaining = max(t.duration-time.Since(t.startTime), 0)
	t.disarmLocked()
	t.paused = true
}

// Resume restarts the countdown using the frozen remaining time as the
// new effective duration. The warning, if not yet fired, is re-armed
// against the new shorter duration. No-op unless active and paused.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || !t.paused {
		return
	}

	t.duration = t.remaining
	t.startTime = time.Now()
	t.paused = false
	t.armLocked(t.remaining, !t.warningFired)
}

// Remaining reports the time left in the current run: the live value
// while counting, the frozen value while paused, zero when inactive.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case !t.active:
		return 0
	case t.paused:
		return t.remaining
	default:
		return max(t.duration-time.Since(t.startTime), 0)
	}
}

// Active reports whether a run is in progress (counting or paused).
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Paused reports whether the current run is paused.
func (t *Timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active && t.paused
}

// armLocked schedules the expiration timer for d from now and, when the
// warning threshold fits inside d and withWarning is set, the warning
// timer. Caller holds t.mu.
func (t *Timer) armLocked(d time.Duration, withWarning bool) {
	gen := t.generation
	t.expireTimer = time.AfterFunc(d, func() { t.fireExpiration(gen) })

	if withWarning && t.warningThreshold > 0 && t.warningThreshold < d {
		t.warnTimer = time.AfterFunc(d-t.warningThreshold, func() { t.fireWarning(gen) })
	}
}

// disarmLocked stops both underlying timers and bumps the generation so
// that an already-dispatched callback becomes a no-op. Caller holds t.mu.
func (t *Timer) disarmLocked() {
	t.generation++
	if t.expireTimer != nil {
		t.expireTimer.Stop()
		t.expireTimer = nil
	}
	if t.warnTimer != nil {
		t.warnTimer.Stop()
		t.warnTimer = nil
	}
}

// resetLocked disarms and returns all state to the inactive zero values.
// Caller holds t.mu.
func (t *Timer) resetLocked() {
	t.disarmLocked()
	t.active = false
	t.paused = false
	t.warningFired = false
	t.duration = 0
	t.remaining = 0
	t.startTime = time.Time{}
}

func (t *Timer) fireExpiration(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || !t.active || t.paused {
		t.mu.Unlock()
		return
	}
	obs := t.observer
	t.resetLocked()
	t.mu.Unlock()

	if obs != nil {
		obs.OnTimerExpired()
	}
}

func (t *Timer) fireWarning(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || !t.active || t.paused || t.warningFired {
		t.mu.Unlock()
		return
	}
	t.warningFired = true
	remaining := max(t.duration-time.Since(t.startTime), 0)
	obs := t.observer
	t.mu.Unlock()

	if obs != nil {
		obs.OnTimerWarning(remaining)
	}
}
