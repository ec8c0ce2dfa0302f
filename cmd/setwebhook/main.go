// Package main is a one-shot command that registers the deployed webhook URL
// (plus shared secret) with the Telegram Bot API. It exits non-zero on
// missing configuration or a provider-reported failure.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/mayagenie/backend/internal/config"
	"github.com/mayagenie/backend/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	webhookURL := flag.String("url", "", "Public webhook URL (defaults to server.public_url + telegram.webhook_path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)

	target := *webhookURL
	if target == "" {
		if cfg.Server.PublicURL == "" {
			log.Error("No webhook URL: pass -url or set server.public_url")
			return 1
		}
		target = strings.TrimSuffix(cfg.Server.PublicURL, "/") + cfg.Telegram.WebhookPath
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		log.Error("Webhook URL is not valid", "url", target, "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b, err := tgbot.New(cfg.Telegram.Token, tgbot.WithSkipGetMe())
	if err != nil {
		log.Error("Failed to create Telegram bot client", "error", err)
		return 1
	}

	ok, err := b.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:         target,
		SecretToken: cfg.Telegram.WebhookSecret,
	})
	if err != nil {
		log.Error("Webhook registration failed", "url", target, "error", err)
		return 1
	}
	if !ok {
		log.Error("Webhook registration rejected by provider", "url", target)
		return 1
	}

	log.Info("Webhook registered", "url", target)
	return 0
}
