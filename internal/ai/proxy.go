// Package ai implements the guarded proxy in front of the generative AI
// provider. Every prompt is validated against the privacy boundary before any
// network call, and provider failures are normalized into caller-safe errors.
package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mayagenie/backend/internal/apperr"
	"github.com/mayagenie/backend/internal/logger"
	"github.com/mayagenie/backend/internal/privacy"
)

// Provider is the upstream generation capability. The Gemini client satisfies
// it; tests substitute fakes.
type Provider interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Proxy enforces the privacy boundary around a Provider.
type Proxy struct {
	provider Provider
	detector privacy.Detector
	log      *slog.Logger
}

// NewProxy creates a proxy over the given provider and detector.
func NewProxy(provider Provider, detector privacy.Detector, log *slog.Logger) *Proxy {
	return &Proxy{
		provider: provider,
		detector: detector,
		log:      log.With("component", "ai_proxy"),
	}
}

// Generate validates the prompt and forwards it to the provider. The prompt
// must already be free of sensitive spans; the boundary re-validates before
// sending and refuses the call otherwise. Only the model's reply text is
// returned.
func (p *Proxy) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apperr.New(apperr.CodeInvalidInput, "prompt must not be empty")
	}

	if spans := p.detector.Detect(prompt); len(spans) > 0 {
		// Only category tags are logged; the spans' text never leaves the boundary.
		logger.WithContext(ctx, p.log).WarnContext(ctx, "Prompt rejected at privacy boundary",
			"span_count", len(spans),
			"span_types", privacy.Tags(spans))
		return "", apperr.New(apperr.CodeSecurity, "prompt contains sensitive data and was not sent")
	}

	return p.callProvider(ctx, prompt)
}

// GenerateSanitized sanitizes the prompt first, then performs the validated
// call with the sanitized text. The sanitizer's output is re-validated the
// same way as a pre-sanitized prompt.
func (p *Proxy) GenerateSanitized(ctx context.Context, prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", apperr.New(apperr.CodeInvalidInput, "prompt must not be empty")
	}

	res := privacy.SanitizeAll(p.detector, trimmed)
	if len(res.Entities) > 0 {
		logger.WithContext(ctx, p.log).InfoContext(ctx, "Prompt sanitized before provider call",
			"span_count", len(res.Entities),
			"span_types", privacy.Tags(res.Entities))
	}

	return p.Generate(ctx, res.Sanitized)
}

func (p *Proxy) callProvider(ctx context.Context, prompt string) (string, error) {
	log := logger.WithContext(ctx, p.log)
	start := time.Now()

	reply, err := p.provider.GenerateContent(ctx, prompt)
	if err != nil {
		// Full diagnostic detail stays server-side; the caller gets a short
		// generic message with a retryable code.
		log.ErrorContext(ctx, "AI provider call failed",
			"duration", time.Since(start),
			"error", err)
		return "", apperr.Wrap(apperr.CodeAIUnavailable, "AI service is temporarily unavailable", err)
	}

	log.InfoContext(ctx, "AI provider call succeeded",
		"duration", time.Since(start),
		"reply_length", len(reply))
	return reply, nil
}
