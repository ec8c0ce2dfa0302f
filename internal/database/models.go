package database

import (
	"fmt"
	"time"
)

// ProcessedUpdate is the deduplication record for one inbound webhook
// delivery. It is created exactly once per update id, never mutated after
// creation, and never deleted by this system.
type ProcessedUpdate struct {
	UpdateKey   string    `db:"update_key"`
	ChatID      int64     `db:"chat_id"`
	SenderID    int64     `db:"sender_id"`
	SenderName  string    `db:"sender_name"`
	Text        string    `db:"text"`
	SentAt      time.Time `db:"sent_at"`
	ProcessedAt time.Time `db:"processed_at"`
}

// UpdateKey builds the idempotency key for an external update id.
func UpdateKey(updateID int64) string {
	return fmt.Sprintf("update_%d", updateID)
}
