package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/infrastructure/config"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	// Tuning knob changes invalidate cached query results so the next
	// read reflects the new settings.
	if path := os.Getenv("TUNING_FILE"); path != "" {
		watcher, err := config.NewWatcher(path, container.Logger)
		if err != nil {
			log.Fatalf("failed to watch tuning file: %v", err)
		}
		watcher.OnChange(func(config.TuningConfig) {
			container.Cache.Clear(ctx)
		})
		watcher.Start()
		defer watcher.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      container.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("server shutdown error", zap.Error(err))
	}
	container.Logger.Sync()
}
