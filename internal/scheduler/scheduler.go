// Package scheduler handles cron-like scheduling for the periodic flush
// sweep and cleanup of expired session files.
package scheduler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flc1125/go-cron/middleware/recovery/v4"
	cron "github.com/flc1125/go-cron/v4"
	"github.com/oszuidwest/zwfm-sessionguard/internal/config"
	"github.com/oszuidwest/zwfm-sessionguard/internal/stability"
	"github.com/oszuidwest/zwfm-sessionguard/internal/utils"
)

// Scheduler manages the periodic maintenance tasks of a capture service.
type Scheduler struct {
	config  *config.Config
	flusher *stability.Flusher
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new scheduler.
func New(cfg *config.Config, flusher *stability.Flusher) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(
		cron.WithContext(ctx),
		cron.WithMiddleware(
			recovery.New(), // Recover from panics in cron jobs
		),
	)
	return &Scheduler{
		config:  cfg,
		flusher: flusher,
		cron:    c,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the scheduling using cron and blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	// Sweep buffered files every minute; the flusher itself decides
	// whether the flush interval has elapsed.
	if jobID, err := s.cron.AddFunc("* * * * *", func(ctx context.Context) error {
		s.flushSweep()
		return nil
	}); err != nil {
		slog.Error("failed to schedule flush sweep", "error", err)
	} else {
		slog.Info("scheduled flush sweep", "job_id", jobID)
	}

	// Daily cleanup of expired session files at midnight.
	if jobID, err := s.cron.AddFunc("0 0 * * *", func(ctx context.Context) error {
		s.cleanupOldSessions()
		return nil
	}); err != nil {
		slog.Error("failed to schedule daily cleanup", "error", err)
	} else {
		slog.Info("scheduled daily cleanup", "job_id", jobID)
	}

	s.cron.Start()
	slog.Info("scheduler started")

	<-ctx.Done()
	slog.Info("shutting down scheduler")

	s.cancel()
	s.cron.Stop()
	slog.Info("scheduler stopped")
}

// flushSweep flushes tracked files when the flush interval has elapsed.
func (s *Scheduler) flushSweep() {
	if !s.flusher.NeedsFlush() {
		return
	}
	if err := s.flusher.Flush(); err != nil {
		slog.Warn("scheduled flush failed", "error", err)
	} else {
		slog.Debug("scheduled flush completed", "files", s.flusher.TrackedCount())
	}
}

// cleanupOldSessions removes session files older than configured keep_days.
func (s *Scheduler) cleanupOldSessions() {
	cutoff := utils.NowInTimezone(s.config.Timezone).AddDate(0, 0, -s.config.KeepDays)
	slog.Info("cleaning up session files", "older_than", cutoff.Format("2006-01-02"))

	entries, err := os.ReadDir(s.config.RecordingsDir)
	if err != nil {
		utils.LogErrorContinue(context.Background(), "read recordings directory", err)
		return
	}

	for _, sessionDir := range entries {
		if !sessionDir.IsDir() {
			continue
		}

		dir := filepath.Join(s.config.RecordingsDir, sessionDir.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			utils.LogErrorContinue(context.Background(), "read session directory "+dir, err)
			continue
		}

		for _, file := range files {
			info, err := file.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				path := filepath.Join(dir, file.Name())
				if err := os.Remove(path); err == nil {
					slog.Info("deleted old session file", "path", path)
				}
			}
		}
	}
}
