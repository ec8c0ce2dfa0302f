// Package telegram handles the outbound message relay to the Telegram Bot API
// and the inbound webhook ingestion built on the idempotency guard.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mayagenie/backend/internal/apperr"
	"github.com/mayagenie/backend/internal/logger"
)

// Sender is the outbound relay capability consumed by the HTTP layer.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) (*models.Message, error)
}

var _ Sender = (*Messenger)(nil)

// Messenger sends messages to Telegram chats. One attempt per call; retry
// policy belongs to the caller.
type Messenger struct {
	bot *bot.Bot
	log *slog.Logger
}

// NewMessenger creates a Messenger using the go-telegram/bot library. An empty
// token is a fatal misconfiguration, reported at construction rather than per
// request.
func NewMessenger(token string, log *slog.Logger, opts ...bot.Option) (*Messenger, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Messenger{
		bot: b,
		log: log.With("component", "telegram_messenger"),
	}, nil
}

// Bot exposes the underlying bot client for webhook registration.
func (m *Messenger) Bot() *bot.Bot {
	return m.bot
}

// Send relays text to the given chat. Provider failures, whether transport
// errors or non-ok API responses, are normalized to MESSAGING_FAILED with the
// provider's description preserved in the error details.
func (m *Messenger) Send(ctx context.Context, chatID int64, text string) (*models.Message, error) {
	log := logger.WithContext(ctx, m.log)

	msg, err := m.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.ErrorContext(ctx, "Telegram send failed", "chat_id", chatID, "error", err)
		return nil, apperr.Wrap(apperr.CodeMessagingFailed, "failed to deliver message", err).
			WithDetails(err.Error())
	}

	log.InfoContext(ctx, "Telegram message sent", "chat_id", chatID, "message_id", msg.ID)
	return msg, nil
}
