package stability

import (
	"fmt"
	"sync"
	"time"

	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
)

// Flushable is a buffered file handle that can be forced to stable
// storage. *bufio.Writer-backed recording files implement it.
type Flushable interface {
	Flush() error
}

// Flusher tracks open recording files and decides when they are due for
// a periodic flush. It is safe for concurrent use.
type Flusher struct {
	mu        sync.Mutex
	interval  time.Duration
	lastFlush time.Time
	files     map[string]Flushable
}

// NewFlusher returns a flusher using the default flush interval. The
// flush clock starts at construction time.
func NewFlusher() *Flusher {
	return &Flusher{
		interval:  constants.FileFlushInterval,
		lastFlush: time.Now(),
		files:     make(map[string]Flushable),
	}
}

// Track registers a file handle under name, replacing any previous
// handle with the same name.
func (f *Flusher) Track(name string, file Flushable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = file
}

// Untrack removes a handle. Closed files must be untracked, or Flush
// will keep reporting errors for them.
func (f *Flusher) Untrack(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, name)
}

// NeedsFlush reports whether the flush interval has elapsed since the
// last completed flush.
func (f *Flusher) NeedsFlush() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return time.Since(f.lastFlush) >= f.interval
}

// Flush flushes every tracked handle. The flush clock resets only after
// flush has been invoked on all of them; individual failures are
// collected but do not skip the remaining files.
func (f *Flusher) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for name, file := range f.files {
		if err := file.Flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush %s: %w", name, err)
		}
	}
	f.lastFlush = time.Now()
	return firstErr
}

// TrackedCount returns the number of tracked handles.
func (f *Flusher) TrackedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}
