package database_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mayagenie/backend/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func testRecord(updateID int64) *database.ProcessedUpdate {
	return &database.ProcessedUpdate{
		UpdateKey:   database.UpdateKey(updateID),
		ChatID:      1,
		SenderID:    9,
		SenderName:  "A",
		Text:        "hello",
		SentAt:      time.Unix(1000, 0).UTC(),
		ProcessedAt: time.Now().UTC(),
	}
}

func TestRecordUpdateOnce(t *testing.T) {
	t.Parallel()

	t.Run("first delivery creates the record", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		ctx := context.Background()

		wasNew, err := store.RecordUpdateOnce(ctx, testRecord(42))
		if err != nil {
			t.Fatalf("RecordUpdateOnce() error = %v", err)
		}
		if !wasNew {
			t.Error("RecordUpdateOnce() wasNew = false on first delivery")
		}

		rec, err := store.GetProcessedUpdate(ctx, "update_42")
		if err != nil {
			t.Fatalf("GetProcessedUpdate() error = %v", err)
		}
		if rec == nil {
			t.Fatal("GetProcessedUpdate() returned nil for a persisted record")
		}
		if rec.Text != "hello" || rec.ChatID != 1 || rec.SenderID != 9 {
			t.Errorf("persisted record = %+v, payload fields mismatch", rec)
		}
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		ctx := context.Background()

		if _, err := store.RecordUpdateOnce(ctx, testRecord(42)); err != nil {
			t.Fatalf("RecordUpdateOnce() error = %v", err)
		}

		dup := testRecord(42)
		dup.Text = "something else entirely"
		wasNew, err := store.RecordUpdateOnce(ctx, dup)
		if err != nil {
			t.Fatalf("RecordUpdateOnce() error = %v", err)
		}
		if wasNew {
			t.Error("RecordUpdateOnce() wasNew = true on redelivery")
		}

		rec, err := store.GetProcessedUpdate(ctx, "update_42")
		if err != nil {
			t.Fatalf("GetProcessedUpdate() error = %v", err)
		}
		if rec.Text != "hello" {
			t.Errorf("redelivery mutated the record: text = %q", rec.Text)
		}

		count, err := store.CountProcessedUpdates(ctx)
		if err != nil {
			t.Fatalf("CountProcessedUpdates() error = %v", err)
		}
		if count != 1 {
			t.Errorf("CountProcessedUpdates() = %d, want 1", count)
		}
	})

	t.Run("concurrent deliveries yield exactly one new outcome", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		ctx := context.Background()

		const deliveries = 16
		var newCount atomic.Int64
		var wg sync.WaitGroup

		for i := 0; i < deliveries; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				wasNew, err := store.RecordUpdateOnce(ctx, testRecord(7))
				if err != nil {
					t.Errorf("RecordUpdateOnce() error = %v", err)
					return
				}
				if wasNew {
					newCount.Add(1)
				}
			}()
		}
		wg.Wait()

		if got := newCount.Load(); got != 1 {
			t.Errorf("new outcomes = %d, want exactly 1", got)
		}

		count, err := store.CountProcessedUpdates(ctx)
		if err != nil {
			t.Fatalf("CountProcessedUpdates() error = %v", err)
		}
		if count != 1 {
			t.Errorf("CountProcessedUpdates() = %d, want 1", count)
		}
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		rec := testRecord(1)
		rec.UpdateKey = ""
		if _, err := store.RecordUpdateOnce(context.Background(), rec); err == nil {
			t.Error("RecordUpdateOnce() accepted an empty key")
		}
	})
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Errorf("RunMaintenance() error = %v", err)
	}
}
