// Command tickd is the ticklist sync daemon: it serves the HTTP API,
// publishes item events, and runs the periodic backup scheduler.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groblegark/ticklist/internal/config"
	"github.com/groblegark/ticklist/internal/events"
	"github.com/groblegark/ticklist/internal/server"
	"github.com/groblegark/ticklist/internal/store/postgres"
	ticksync "github.com/groblegark/ticklist/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	// Create event publisher.
	var publisher events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			store.Close()
			return err
		}
		publisher = pub
		logger.Info("events enabled", "nats_url", cfg.NATSURL)
	} else {
		publisher = &events.NoopPublisher{}
		logger.Info("events disabled (TICKLIST_NATS_URL not set)")
	}

	tickServer := server.NewTickServer(store, publisher)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: tickServer.NewHTTPHandler(cfg.AuthToken),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "err", err)
		}
	}()

	// Start sync scheduler if any destinations are configured.
	var scheduler *ticksync.Scheduler
	if cfg.SyncInterval > 0 && cfg.SyncS3Bucket != "" {
		s3Dest, err := ticksync.NewS3Destination(context.Background(), ticksync.S3Config{
			Bucket:   cfg.SyncS3Bucket,
			Key:      cfg.SyncS3Key,
			Region:   cfg.SyncS3Region,
			Endpoint: cfg.SyncS3Endpoint,
		})
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			scheduler = ticksync.NewScheduler(store, []ticksync.Destination{s3Dest}, cfg.SyncInterval, logger)
			scheduler.Start()
			logger.Info("sync scheduler started",
				"interval", cfg.SyncInterval,
				"bucket", cfg.SyncS3Bucket,
				"key", cfg.SyncS3Key,
			)
		}
	}

	logger.Info("ticklist server started", "http_addr", cfg.HTTPAddr)

	// Wait for SIGINT or SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	// Graceful shutdown.
	if scheduler != nil {
		scheduler.Stop()
		logger.Info("sync scheduler stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}
	logger.Info("HTTP server stopped")

	if err := publisher.Close(); err != nil {
		logger.Error("error closing publisher", "err", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("error closing store", "err", err)
	}

	logger.Info("shutdown complete")
	return nil
}
