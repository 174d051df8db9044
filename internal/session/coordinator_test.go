package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oszuidwest/zwfm-sessionguard/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	minutes int
}

func (f *fakeSettings) TimeoutMinutes() int { return f.minutes }

type fakeRecorder struct {
	stopped atomic.Int32
	paused  atomic.Bool
}

func (f *fakeRecorder) StopRecording()        { f.stopped.Add(1) }
func (f *fakeRecorder) RecordingPaused() bool { return f.paused.Load() }

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []notifier.Notification
	delivered     chan notifier.Notification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{delivered: make(chan notifier.Notification, 8)}
}

func (f *fakeNotifier) Notify(_ context.Context, n notifier.Notification) error {
	f.mu.Lock()
	f.notifications = append(f.notifications, n)
	f.mu.Unlock()
	f.delivered <- n
	return nil
}

func newTestCoordinator(minutes int) (*Coordinator, *fakeRecorder, *fakeNotifier) {
	rec := &fakeRecorder{}
	notify := newFakeNotifier()
	c := NewCoordinator(&fakeSettings{minutes: minutes}, rec, notify)
	return c, rec, notify
}

func TestLoadSettingsConvertsMinutes(t *testing.T) {
	t.Parallel()

	for _, minutes := range []int{0, 1, 30, 60, 90, 120, 1440} {
		c, _, _ := newTestCoordinator(minutes)

		assert.Equal(t, time.Duration(minutes)*time.Minute, c.TimeoutDuration(), "minutes=%d", minutes)
		assert.Equal(t, minutes > 0, c.Enabled(), "minutes=%d", minutes)
	}
}

func TestStartTimeoutDisabledLeavesNoTimer(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCoordinator(0)
	c.StartTimeout()

	assert.False(t, c.Active())
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestStartTimeoutEnabledInstallsActiveTimer(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCoordinator(60)
	c.StartTimeout()
	defer c.StopTimeout()

	assert.True(t, c.Active())
	remaining := c.Remaining()
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 60*time.Minute)
}

func TestStartTimeoutRetiresPreviousTimer(t *testing.T) {
	t.Parallel()

	c, rec, _ := newTestCoordinator(60)
	c.StartTimeout()
	first := c.Remaining()

	time.Sleep(50 * time.Millisecond)
	c.StartTimeout()
	defer c.StopTimeout()

	// The replacement run counts down from the full duration again.
	assert.True(t, c.Active())
	assert.GreaterOrEqual(t, c.Remaining()+20*time.Millisecond, first)
	assert.Equal(t, int32(0), rec.stopped.Load())
}

func TestStopTimeoutIsIdempotent(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCoordinator(60)
	c.StartTimeout()

	c.StopTimeout()
	c.StopTimeout()

	assert.False(t, c.Active())
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestPauseOrResumeFollowsRecorderFlag(t *testing.T) {
	t.Parallel()

	c, rec, _ := newTestCoordinator(60)
	c.StartTimeout()
	defer c.StopTimeout()

	rec.paused.Store(true)
	c.PauseOrResumeTimeout()

	frozen := c.Remaining()
	time.Sleep(150 * time.Millisecond)
	assert.InDelta(t, float64(frozen), float64(c.Remaining()), float64(50*time.Millisecond))

	rec.paused.Store(false)
	c.PauseOrResumeTimeout()

	time.Sleep(150 * time.Millisecond)
	assert.Less(t, c.Remaining(), frozen)
}

func TestPauseOrResumeWithoutTimerIsNoOp(t *testing.T) {
	t.Parallel()

	c, rec, _ := newTestCoordinator(60)
	rec.paused.Store(true)

	c.PauseOrResumeTimeout()

	assert.False(t, c.Active())
}

func TestExpirationStopsRecordingAndNotifies(t *testing.T) {
	t.Parallel()

	c, rec, notify := newTestCoordinator(60)

	// Sub-second run so the test completes quickly; LoadSettings only
	// deals in whole minutes.
	c.mu.Lock()
	c.timeoutDuration = 300 * time.Millisecond
	c.warningThreshold = 0
	c.mu.Unlock()

	c.StartTimeout()

	var n notifier.Notification
	select {
	case n = <-notify.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("expiration notification never delivered")
	}

	assert.Equal(t, "Recording Timeout", n.Title)
	assert.Contains(t, n.Body, "automatically")
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, int32(1), rec.stopped.Load())
	assert.False(t, c.Active())
}

func TestWarningNotificationPrecedesExpiration(t *testing.T) {
	t.Parallel()

	c, rec, notify := newTestCoordinator(60)

	c.mu.Lock()
	c.timeoutDuration = 500 * time.Millisecond
	c.warningThreshold = 200 * time.Millisecond
	c.mu.Unlock()

	c.StartTimeout()

	var warning notifier.Notification
	select {
	case warning = <-notify.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("warning notification never delivered")
	}

	require.Contains(t, warning.Title, "Warning")
	assert.Equal(t, int32(0), rec.stopped.Load(), "recording stopped before expiration")

	var expiry notifier.Notification
	select {
	case expiry = <-notify.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("expiration notification never delivered")
	}

	assert.Equal(t, "Recording Timeout", expiry.Title)
	assert.Equal(t, int32(1), rec.stopped.Load())
}

func TestManualStopRacesAutomaticStop(t *testing.T) {
	t.Parallel()

	c, rec, notify := newTestCoordinator(60)

	c.mu.Lock()
	c.timeoutDuration = 150 * time.Millisecond
	c.warningThreshold = 0
	c.mu.Unlock()

	c.StartTimeout()

	// Manual stop close to the expiration boundary; whichever side wins,
	// the recorder must see at most one effective stop path and the
	// coordinator must end up clean.
	time.Sleep(140 * time.Millisecond)
	c.StopTimeout()

	time.Sleep(300 * time.Millisecond)

	assert.False(t, c.Active())
	assert.LessOrEqual(t, rec.stopped.Load(), int32(1))

	// Expiration after a completed StopTimeout must not notify.
	if rec.stopped.Load() == 0 {
		select {
		case n := <-notify.delivered:
			t.Fatalf("unexpected notification after manual stop: %q", n.Title)
		default:
		}
	}
}
