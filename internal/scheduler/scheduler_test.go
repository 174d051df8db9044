package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oszuidwest/zwfm-sessionguard/internal/config"
	"github.com/oszuidwest/zwfm-sessionguard/internal/stability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSessionFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestCleanupRemovesOnlyExpiredFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sessionDir := filepath.Join(root, "morning")
	require.NoError(t, os.MkdirAll(sessionDir, 0o755))

	old := writeSessionFile(t, sessionDir, "old.raw", time.Now().AddDate(0, 0, -40))
	fresh := writeSessionFile(t, sessionDir, "fresh.raw", time.Now())

	// A stray file at the root is not a session directory and is ignored.
	stray := writeSessionFile(t, root, "stray.raw", time.Now().AddDate(0, 0, -40))

	cfg := &config.Config{RecordingsDir: root, KeepDays: 31, Timezone: "UTC"}
	s := New(cfg, stability.NewFlusher())
	s.cleanupOldSessions()

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, stray)
}

func TestCleanupToleratesMissingRecordingsDir(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{RecordingsDir: filepath.Join(t.TempDir(), "nope"), KeepDays: 31, Timezone: "UTC"}
	s := New(cfg, stability.NewFlusher())

	assert.NotPanics(t, s.cleanupOldSessions)
}

func TestFlushSweepRespectsInterval(t *testing.T) {
	t.Parallel()

	flusher := stability.NewFlusher()
	cfg := &config.Config{RecordingsDir: t.TempDir(), KeepDays: 31, Timezone: "UTC"}
	s := New(cfg, flusher)

	flushed := &countingFlushable{}
	flusher.Track("segment", flushed)

	// Interval has not elapsed yet; the sweep must not flush.
	s.flushSweep()
	assert.Zero(t, flushed.calls)
}

type countingFlushable struct {
	calls int
}

func (f *countingFlushable) Flush() error {
	f.calls++
	return nil
}
