package server

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/oszuidwest/zwfm-sessionguard/internal/recorder"
	"github.com/oszuidwest/zwfm-sessionguard/internal/session"
	"github.com/oszuidwest/zwfm-sessionguard/internal/utils"
)

// statusResponse is the payload of GET /api/v1/status.
type statusResponse struct {
	State            recorder.State `json:"state"`
	Session          string         `json:"session,omitempty"`
	TimeoutEnabled   bool           `json:"timeout_enabled"`
	TimeoutMinutes   int            `json:"timeout_minutes"`
	TimeoutStatus    string         `json:"timeout_status"`
	RemainingTimeout string         `json:"remaining_timeout,omitempty"`
	StartedAt        string         `json:"started_at,omitempty"`
	FramesProcessed  uint64         `json:"frames_processed"`
	FramesSkipped    uint64         `json:"frames_skipped"`
	BytesRecorded    string         `json:"bytes_recorded"`
	PipelineRestarts int64          `json:"pipeline_restarts"`
	LastAudioRestart string         `json:"last_audio_restart,omitempty"`
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// handleStatus reports the recording, timeout, and stability state.
func (s *Server) handleStatus(c *gin.Context) {
	stats := s.recorder.GetStats()
	minutes := s.store.TimeoutMinutes()

	resp := statusResponse{
		State:            s.recorder.State(),
		Session:          s.recorder.SessionName(),
		TimeoutEnabled:   s.coordinator.Enabled(),
		TimeoutMinutes:   minutes,
		TimeoutStatus:    session.StatusText(minutes),
		StartedAt:        utils.ToAPIStringOrEmpty(stats.StartTime, s.config.Timezone),
		FramesProcessed:  stats.FramesProcessed,
		FramesSkipped:    stats.FramesSkipped,
		BytesRecorded:    humanize.Bytes(uint64(max(stats.BytesRecorded, 0))), //nolint:gosec // Clamped to non-negative
		PipelineRestarts: stats.PipelineRestarts,
	}

	if remaining := s.coordinator.Remaining(); remaining > 0 {
		resp.RemainingTimeout = utils.FormatDuration(remaining)
	}
	if last := s.recorder.LastAudioRestart(); !last.IsZero() {
		resp.LastAudioRestart = humanize.Time(last)
	}

	c.JSON(http.StatusOK, resp)
}

// handleGetTimeout returns the stored timeout setting with its
// user-facing status line.
func (s *Server) handleGetTimeout(c *gin.Context) {
	minutes := s.store.TimeoutMinutes()
	c.JSON(http.StatusOK, gin.H{
		"minutes": minutes,
		"status":  session.StatusText(minutes),
	})
}

// timeoutRequest is the payload of PUT /api/v1/settings/timeout.
type timeoutRequest struct {
	Minutes int `json:"minutes"`
}

// handlePutTimeout persists a new timeout setting and reloads the
// coordinator. The new value applies to the next recording; an active
// timeout keeps its original duration.
func (s *Server) handlePutTimeout(c *gin.Context) {
	var req timeoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HTTPResponder.BadRequest(c, "minutes (integer) is required")
		return
	}

	if err := s.store.SetTimeoutMinutes(req.Minutes); err != nil {
		utils.HTTPResponder.InternalError(c, "failed to persist setting")
		return
	}
	s.coordinator.LoadSettings()

	c.JSON(http.StatusOK, gin.H{
		"minutes": req.Minutes,
		"status":  session.StatusText(req.Minutes),
	})
}

// startRequest is the payload of POST /api/v1/recordings/start.
type startRequest struct {
	Session string `json:"session"`
}

// handleStart begins a capture session.
func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Session == "" {
		utils.HTTPResponder.BadRequest(c, "session (string) is required")
		return
	}

	if err := s.recorder.Start(req.Session); err != nil {
		utils.HTTPResponder.Conflict(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recording started", "session": req.Session})
}

// handleStop ends the capture session. Stopping an idle recorder is a
// no-op, matching the idempotent stop contract.
func (s *Server) handleStop(c *gin.Context) {
	s.recorder.Stop()
	c.JSON(http.StatusOK, gin.H{"message": "recording stopped", "time": time.Now().Format(time.RFC3339)})
}

// handlePause suspends the capture session and its timeout countdown.
func (s *Server) handlePause(c *gin.Context) {
	s.recorder.Pause()
	c.JSON(http.StatusOK, gin.H{"message": "recording paused", "state": s.recorder.State()})
}

// handleResume continues a paused capture session.
func (s *Server) handleResume(c *gin.Context) {
	s.recorder.Resume()
	c.JSON(http.StatusOK, gin.H{"message": "recording resumed", "state": s.recorder.State()})
}
