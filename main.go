// Package main is the entry point for the recording session guard service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	_ "time/tzdata" // Embed timezone data for consistent behavior

	"github.com/oszuidwest/zwfm-sessionguard/internal/config"
	"github.com/oszuidwest/zwfm-sessionguard/internal/logger"
	"github.com/oszuidwest/zwfm-sessionguard/internal/notifier"
	"github.com/oszuidwest/zwfm-sessionguard/internal/recorder"
	"github.com/oszuidwest/zwfm-sessionguard/internal/scheduler"
	"github.com/oszuidwest/zwfm-sessionguard/internal/server"
	"github.com/oszuidwest/zwfm-sessionguard/internal/session"
	"github.com/oszuidwest/zwfm-sessionguard/internal/settings"
	"github.com/oszuidwest/zwfm-sessionguard/internal/stability"
	"github.com/oszuidwest/zwfm-sessionguard/internal/utils"
	"github.com/oszuidwest/zwfm-sessionguard/internal/version"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "config.json", "Config file path")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.LogFile, cfg.Debug)
	defer func() { _ = appLogger.Close() }()
	appLogger.Info("starting", "version", version.Info())

	if err := utils.EnsureDir(cfg.RecordingsDir); err != nil {
		log.Fatalf("Failed to create recordings directory: %v", err)
	}

	// Persisted user settings (timeout minutes)
	store, err := settings.Open(cfg.SettingsFile)
	if err != nil {
		log.Fatalf("Failed to open settings store: %v", err)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down")
		cancel()
	}()

	// Initialize components
	flusher := stability.NewFlusher()
	monitor := stability.NewMonitor(flusher)
	pipeline := recorder.NewFilePipeline(utils.SessionDir(cfg.RecordingsDir, "default"), cfg.Timezone, flusher)
	manager := recorder.NewManager(pipeline, monitor, flusher, stability.MemorySensor{})

	coordinator := session.NewCoordinator(store, manager, buildNotifier(cfg))
	manager.SetCoordinator(coordinator)

	// External edits to the settings file apply to the next recording.
	store.Watch(coordinator.LoadSettings)

	// Start components
	var wg sync.WaitGroup

	// Start HTTP server for control and status endpoints
	wg.Add(1)
	go func() {
		defer wg.Done()
		httpServer := server.New(cfg, appLogger, manager, coordinator, store)
		if err := httpServer.Start(ctx); err != nil {
			appLogger.Error("HTTP server error", "error", err)
		}
	}()

	// Start scheduler for flush sweeps and cleanup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched := scheduler.New(cfg, flusher)
		sched.Start(ctx)
	}()

	// Wait for all components to finish
	wg.Wait()

	// Make sure an in-flight session is closed out before exit.
	manager.Stop()
}

// buildNotifier assembles the notification fan-out from config. The
// structured log destination is always present.
func buildNotifier(cfg *config.Config) notifier.Notifier {
	destinations := []notifier.Notifier{notifier.LogNotifier{}}

	if nc := cfg.Notifications; nc != nil {
		if nc.WebhookURL != "" {
			destinations = append(destinations, notifier.NewWebhook(nc.WebhookURL))
		}
		if len(nc.PushURLs) > 0 {
			push, err := notifier.NewPush(nc.PushURLs)
			if err != nil {
				log.Printf("Invalid push notification config: %v", err)
			} else {
				destinations = append(destinations, push)
			}
		}
	}

	return notifier.NewMulti(destinations...)
}
