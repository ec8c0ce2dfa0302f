package telegram

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/mayagenie/backend/internal/database"
	"github.com/mayagenie/backend/internal/logger"
)

// secretTokenHeader is set by Telegram on every webhook delivery when a
// secret was registered alongside the webhook URL.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Ingestor processes inbound webhook updates exactly once. Updates this
// system does not support (no update id, no text) are dropped silently;
// duplicates end at the guard's no-op; storage failures surface as 503 so
// Telegram's own retry mechanism redelivers.
type Ingestor struct {
	store  database.Store
	secret string
	log    *slog.Logger
}

// NewIngestor creates an Ingestor over the given store. secret may be empty,
// in which case the delivery header is not checked.
func NewIngestor(store database.Store, secret string, log *slog.Logger) *Ingestor {
	return &Ingestor{
		store:  store,
		secret: secret,
		log:    log.With("component", "webhook_ingestor"),
	}
}

// ServeHTTP implements http.Handler for the webhook receiver.
func (i *Ingestor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.WithContext(ctx, i.log)

	if i.secret != "" && r.Header.Get(secretTokenHeader) != i.secret {
		log.WarnContext(ctx, "Webhook delivery rejected: secret token mismatch")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var update models.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		// Malformed payloads are dropped like unsupported updates; answering
		// non-2xx would only make Telegram redeliver garbage.
		log.WarnContext(ctx, "Webhook delivery dropped: malformed payload", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}

	if update.ID == 0 || msg == nil || msg.Text == "" {
		log.DebugContext(ctx, "Webhook delivery dropped: unsupported update", "update_id", update.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	rec := &database.ProcessedUpdate{
		UpdateKey:   database.UpdateKey(update.ID),
		ChatID:      msg.Chat.ID,
		Text:        msg.Text,
		SentAt:      time.Unix(int64(msg.Date), 0).UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if msg.From != nil {
		rec.SenderID = msg.From.ID
		rec.SenderName = msg.From.FirstName
	}

	wasNew, err := i.store.RecordUpdateOnce(ctx, rec)
	if err != nil {
		// Propagate as a transient failure so Telegram retries; redelivery is
		// safe by the guard's idempotence.
		log.ErrorContext(ctx, "Webhook persistence failed", "update_id", update.ID, "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if !wasNew {
		log.InfoContext(ctx, "Webhook delivery was a duplicate", "update_id", update.ID)
	} else {
		log.InfoContext(ctx, "Webhook update persisted", "update_id", update.ID, "chat_id", rec.ChatID)
	}
	w.WriteHeader(http.StatusOK)
}
