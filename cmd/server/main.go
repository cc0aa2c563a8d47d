// Package main implements the entry point for the storyboard generation
// server, which runs batched image and video generation over a project's
// asset libraries and tracks long-running video tasks.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/storyboard-api/internal/config"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run loads configuration, builds the application and serves it until shutdown.
func run(ctx context.Context) error {
	cfg, l, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"concurrency_width", cfg.Generation.ConcurrencyWidth)
	if cfg.Database.URL != "" {
		l.Debug("Database configuration", "url_present", true)
	}

	return cfg, l, nil
}
