// Package main contains the entrypoint for the chat-relay backend service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mayagenie/backend/internal/ai"
	"github.com/mayagenie/backend/internal/config"
	"github.com/mayagenie/backend/internal/database"
	"github.com/mayagenie/backend/internal/gemini"
	"github.com/mayagenie/backend/internal/logger"
	"github.com/mayagenie/backend/internal/privacy"
	"github.com/mayagenie/backend/internal/scheduler"
	"github.com/mayagenie/backend/internal/server"
	"github.com/mayagenie/backend/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// AI client, messenger, ingestor, HTTP server, scheduler), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}
	proxy := ai.NewProxy(gemClient, privacy.NewRegexpDetector(), log)

	messenger, err := telegram.NewMessenger(cfg.Telegram.Token, log)
	if err != nil {
		log.Error("Failed to create Telegram messenger", "error", err)
		return 1
	}
	ingestor := telegram.NewIngestor(store, cfg.Telegram.WebhookSecret, log)

	var sched *scheduler.Scheduler
	if cfg.Maintenance.Enabled {
		sched, err = scheduler.New(log)
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
		if err := sched.RegisterTask("db_maintenance", cfg.Maintenance.Schedule, store.RunMaintenance); err != nil {
			log.Error("Failed to register maintenance task", "error", err)
			return 1
		}
	}

	srv := server.New(cfg, log, messenger, proxy, store, ingestor, sched)

	log.Info("Starting server...")
	runErr := srv.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Server stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Server stopped gracefully.")
	return 0
}
