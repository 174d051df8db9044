// Package server provides the HTTP API for controlling the capture session
// and inspecting timeout and stability state.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oszuidwest/zwfm-sessionguard/internal/config"
	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
	"github.com/oszuidwest/zwfm-sessionguard/internal/logger"
	"github.com/oszuidwest/zwfm-sessionguard/internal/recorder"
	"github.com/oszuidwest/zwfm-sessionguard/internal/session"
	"github.com/oszuidwest/zwfm-sessionguard/internal/settings"
)

// Server handles HTTP requests for session control and status.
type Server struct {
	config      *config.Config
	logger      *logger.Logger
	recorder    *recorder.Manager
	coordinator *session.Coordinator
	store       *settings.Store
	server      *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, log *logger.Logger, rec *recorder.Manager, coord *session.Coordinator, store *settings.Store) *Server {
	return &Server{
		config:      cfg,
		logger:      log,
		recorder:    rec,
		coordinator: coord,
		store:       store,
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router(),
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// router assembles the gin engine with middleware and routes.
func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogging())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	api.GET("/status", s.handleStatus)
	api.GET("/settings/timeout", s.handleGetTimeout)

	protected := api.Group("")
	protected.Use(s.authenticate())
	protected.PUT("/settings/timeout", s.handlePutTimeout)
	protected.POST("/recordings/start", s.handleStart)
	protected.POST("/recordings/stop", s.handleStop)
	protected.POST("/recordings/pause", s.handlePause)
	protected.POST("/recordings/resume", s.handleResume)

	return router
}
