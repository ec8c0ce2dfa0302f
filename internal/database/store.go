package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/mayagenie/backend/internal/apperr"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordUpdateOnce atomically creates the deduplication record for
	// rec.UpdateKey if none exists. It reports wasNew = true only for the
	// invocation that created the record; every other invocation for the same
	// key observes wasNew = false and performs no mutation. On storage failure
	// the caller must not assume the record was or was not created.
	RecordUpdateOnce(ctx context.Context, rec *ProcessedUpdate) (bool, error)

	// GetProcessedUpdate retrieves a record by key. Returns nil, nil if not found.
	GetProcessedUpdate(ctx context.Context, key string) (*ProcessedUpdate, error)

	// CountProcessedUpdates returns the total number of deduplication records.
	CountProcessedUpdates(ctx context.Context) (int64, error)

	// RunMaintenance performs periodic SQLite upkeep (checkpoint, analyze).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperr.Wrap(apperr.CodeStorage, "store unreachable", err)
	}
	return nil
}

// RecordUpdateOnce relies on the primary key over update_key: the INSERT
// either creates the record or conflicts and affects zero rows. There is no
// separate existence read, so concurrent deliveries for the same key cannot
// both observe "new".
func (s *sqlxStore) RecordUpdateOnce(ctx context.Context, rec *ProcessedUpdate) (bool, error) {
	if rec == nil {
		return false, errors.New("cannot record nil update")
	}
	if rec.UpdateKey == "" {
		return false, errors.New("update record must have a non-empty key")
	}

	query := `
        INSERT INTO processed_updates (update_key, chat_id, sender_id, sender_name, text, sent_at, processed_at)
        VALUES (:update_key, :chat_id, :sender_id, :sender_name, :text, :sent_at, :processed_at)
        ON CONFLICT (update_key) DO NOTHING;
    `

	result, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording processed update", "update_key", rec.UpdateKey, "error", err)
		return false, apperr.Wrap(apperr.CodeStorage, "failed to record update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.ErrorContext(ctx, "Could not determine rows affected for update record", "update_key", rec.UpdateKey, "error", err)
		return false, apperr.Wrap(apperr.CodeStorage, "failed to record update", err)
	}

	wasNew := affected == 1
	s.logger.DebugContext(ctx, "Processed update recorded", "update_key", rec.UpdateKey, "was_new", wasNew)
	return wasNew, nil
}

// GetProcessedUpdate retrieves a record by key. Returns nil, nil if not found.
func (s *sqlxStore) GetProcessedUpdate(ctx context.Context, key string) (*ProcessedUpdate, error) {
	if key == "" {
		return nil, errors.New("update key cannot be empty")
	}

	var rec ProcessedUpdate
	query := `
        SELECT update_key, chat_id, sender_id, sender_name, text, sent_at, processed_at
        FROM processed_updates
        WHERE update_key = ?;
    `
	if err := s.db.GetContext(ctx, &rec, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching processed update", "update_key", key, "error", err)
		return nil, apperr.Wrap(apperr.CodeStorage, "failed to fetch update record", err)
	}
	return &rec, nil
}

// CountProcessedUpdates returns the total number of deduplication records.
func (s *sqlxStore) CountProcessedUpdates(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM processed_updates;`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting processed updates", "error", err)
		return 0, apperr.Wrap(apperr.CodeStorage, "failed to count update records", err)
	}
	return count, nil
}

// RunMaintenance performs periodic SQLite upkeep. Deduplication records are
// append-only, so upkeep is limited to checkpointing and planner statistics.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	statements := []string{
		`PRAGMA wal_checkpoint(TRUNCATE);`,
		`ANALYZE;`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Maintenance statement failed", "statement", stmt, "error", err)
			return apperr.Wrap(apperr.CodeStorage, "maintenance failed", err)
		}
	}
	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
