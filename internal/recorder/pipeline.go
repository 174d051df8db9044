package recorder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
	"github.com/oszuidwest/zwfm-sessionguard/internal/stability"
	"github.com/oszuidwest/zwfm-sessionguard/internal/utils"
)

// Pipeline is the audio pipeline the manager records through. It extends
// the stability monitor's restart contract with the frame write path.
type Pipeline interface {
	stability.Pipeline
	WriteFrame(frame []byte) (int, error)
}

// FilePipeline writes frames into timestamped segment files under a
// session directory through a buffered writer. The buffered writer is
// registered with the flusher so the periodic flush sweep reaches it.
type FilePipeline struct {
	mu         sync.Mutex
	sessionDir string
	flusher    *stability.Flusher
	timezone   string

	file   *os.File
	writer *bufio.Writer
	name   string
}

// NewFilePipeline returns a pipeline writing segments under sessionDir.
func NewFilePipeline(sessionDir, timezone string, flusher *stability.Flusher) *FilePipeline {
	return &FilePipeline{
		sessionDir: sessionDir,
		flusher:    flusher,
		timezone:   timezone,
	}
}

// Start opens a fresh segment file. No-op if one is already open.
func (p *FilePipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file != nil {
		return nil
	}

	if err := utils.EnsureDir(p.sessionDir); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	name := utils.NowInTimezone(p.timezone).Format("2006-01-02-15-04-05") + ".raw"
	path := filepath.Join(p.sessionDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissions) //nolint:gosec // Path is built from config, not user input
	if err != nil {
		return fmt.Errorf("failed to open segment file %q: %w", path, err)
	}

	p.file = file
	p.writer = bufio.NewWriter(file)
	p.name = name
	p.flusher.Track(name, &syncedWriter{writer: p.writer, file: file})
	return nil
}

// Stop flushes and closes the current segment. Idempotent.
func (p *FilePipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil
	}

	p.flusher.Untrack(p.name)
	flushErr := p.writer.Flush()
	closeErr := p.file.Close()

	p.file = nil
	p.writer = nil
	p.name = ""

	if flushErr != nil {
		return fmt.Errorf("failed to flush segment: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close segment: %w", closeErr)
	}
	return nil
}

// Reset discards in-memory writer state between Stop and Start during a
// pipeline restart. The closed segment stays on disk; the next Start
// opens a new one.
func (p *FilePipeline) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.file = nil
	p.writer = nil
	p.name = ""
	return nil
}

// WriteFrame appends a frame to the current segment.
func (p *FilePipeline) WriteFrame(frame []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return 0, fmt.Errorf("pipeline not started")
	}
	return p.writer.Write(frame)
}

// syncedWriter flushes the buffered writer and syncs the backing file,
// so a periodic flush actually reaches stable storage.
type syncedWriter struct {
	writer *bufio.Writer
	file   *os.File
}

func (w *syncedWriter) Flush() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}
