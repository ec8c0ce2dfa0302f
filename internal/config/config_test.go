package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mayagenie/backend/internal/config"
)

func TestLoadFromEnvWithDefaults(t *testing.T) {
	t.Setenv("GENIE_TELEGRAM_TOKEN", "123:ABC")
	t.Setenv("GENIE_GEMINI_API_KEY", "test-key")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.Token != "123:ABC" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123:ABC")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Health.Timeout != 8*time.Second {
		t.Errorf("Health.Timeout = %v, want default %v", cfg.Health.Timeout, 8*time.Second)
	}
	if cfg.Telegram.WebhookPath != "/webhook/telegram" {
		t.Errorf("Telegram.WebhookPath = %q, want default", cfg.Telegram.WebhookPath)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("GENIE_TELEGRAM_TOKEN", "")
	t.Setenv("GENIE_GEMINI_API_KEY", "")

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() accepted a configuration without credentials")
	}
}
