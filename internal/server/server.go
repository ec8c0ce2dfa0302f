// Package server wires the HTTP surface: routing, middleware, the uniform
// response envelope, and lifecycle orchestration of the listener and the
// maintenance scheduler.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/mayagenie/backend/internal/api"
	"github.com/mayagenie/backend/internal/apperr"
	"github.com/mayagenie/backend/internal/config"
	"github.com/mayagenie/backend/internal/scheduler"
	"github.com/mayagenie/backend/internal/telegram"
)

// Server owns the HTTP listener and its collaborators. All state is
// constructed once at process start and read-only afterwards.
type Server struct {
	log       *slog.Logger
	messenger telegram.Sender
	generator Generator
	store     Pinger
	ingestor  http.Handler
	scheduler *scheduler.Scheduler

	addr            string
	region          string
	env             string
	allowedOrigins  []string
	webhookPath     string
	healthTimeout   time.Duration
	shutdownTimeout time.Duration
}

// New assembles a Server from its collaborators. sched may be nil when no
// background maintenance is configured.
func New(
	cfg *config.Config,
	log *slog.Logger,
	messenger telegram.Sender,
	generator Generator,
	store Pinger,
	ingestor http.Handler,
	sched *scheduler.Scheduler,
) *Server {
	return &Server{
		log:             log.With("component", "server"),
		messenger:       messenger,
		generator:       generator,
		store:           store,
		ingestor:        ingestor,
		scheduler:       sched,
		addr:            cfg.Server.Addr,
		region:          cfg.Server.Region,
		env:             cfg.Server.Env,
		allowedOrigins:  cfg.Server.AllowedOrigins,
		webhookPath:     cfg.Telegram.WebhookPath,
		healthTimeout:   cfg.Health.Timeout,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// Router builds the chi router with all middleware and routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.log))
	r.Use(recoverMiddleware(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	// Every response, including router fallbacks, is a well-formed envelope.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.Fail(apperr.New(apperr.CodeBadRequest, "route not found")))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apperr.New(apperr.CodeMethodNotAllowed, "method not allowed"))
	})

	r.Post("/api/v1/telegram/send", s.handleSend)
	r.Post("/api/v1/ai/gemini", s.handleGenerate)
	r.Get("/api/health", s.handleHealth)
	r.Post(s.webhookPath, s.ingestor.ServeHTTP)

	return r
}

// Run starts the HTTP listener and the scheduler, blocking until ctx is
// cancelled or a component fails. Shutdown is graceful within the configured
// timeout.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Starting HTTP listener", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http listener failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("Shutdown signal received, stopping HTTP listener...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("Error during HTTP shutdown", "error", err)
			return fmt.Errorf("http shutdown failed: %w", err)
		}
		return nil
	})

	if s.scheduler != nil {
		g.Go(func() error {
			if err := s.scheduler.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			s.log.Info("Shutdown signal received, stopping scheduler...")
			if err := s.scheduler.Stop(); err != nil {
				s.log.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("Server stopped due to error", "error", err)
		return err
	}

	s.log.Info("Server stopped gracefully.")
	return nil
}
