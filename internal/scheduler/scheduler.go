// Package scheduler manages background maintenance jobs using the gocron
// library.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// TaskFunc is a schedulable unit of work.
type TaskFunc func(ctx context.Context) error

// Scheduler wraps a gocron scheduler with registration and lifecycle
// management.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	mu        sync.Mutex
	running   bool
}

// New creates a scheduler instance.
func New(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
	}, nil
}

// RegisterTask schedules fn under the given cron expression (with optional
// seconds field). Registration must happen before Start.
func (s *Scheduler) RegisterTask(name, schedule string, fn TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == "" {
		return fmt.Errorf("task %q has an empty schedule", name)
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(schedule, true),
		gocron.NewTask(
			func(ctx context.Context, taskName string) {
				s.logger.Info("Running scheduled task", "task_name", taskName)
				start := time.Now()
				if taskErr := fn(ctx); taskErr != nil {
					s.logger.Error("Scheduled task failed", "task_name", taskName, "error", taskErr)
				}
				s.logger.Info("Finished scheduled task", "task_name", taskName, "duration", time.Since(start))
			},
			context.Background(),
			name,
		),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule task %q: %w", name, err)
	}

	s.logger.Info("Scheduled task", "task_name", name, "schedule", schedule)
	return nil
}

// Start begins executing registered jobs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
