package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lpradovera/llmsherpa/internal/api"
	"github.com/lpradovera/llmsherpa/internal/config"
	"github.com/lpradovera/llmsherpa/internal/ingestor"
	"github.com/lpradovera/llmsherpa/internal/reader"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Remote layout service is optional. Without it the local extractors
	// handle uploads.
	var ing *ingestor.Client
	if cfg.IngestorURL != "" {
		ing = ingestor.NewClient(cfg.IngestorURL, cfg.IngestorAPIKey)
		log.Info("using layout extraction service", "url", cfg.IngestorURL)
	} else {
		log.Info("no layout extraction service configured, using local extractors")
	}

	rd := reader.New(ing, cfg.PDFFallbackPdftotext)
	srv := api.NewServer(rd, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if ing != nil {
			ing.Close()
		}
	}()

	log.Info("starting server", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
