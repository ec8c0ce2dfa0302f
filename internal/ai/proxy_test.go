package ai_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mayagenie/backend/internal/ai"
	"github.com/mayagenie/backend/internal/apperr"
	"github.com/mayagenie/backend/internal/privacy"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
	last  string
}

func (f *fakeProvider) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.last = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProxy(p ai.Provider) *ai.Proxy {
	return ai.NewProxy(p, privacy.NewRegexpDetector(), discardLogger())
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("empty prompt rejected without provider call", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{reply: "ok"}

		_, err := newProxy(provider).Generate(context.Background(), "   \n\t ")
		if apperr.CodeOf(err) != apperr.CodeInvalidInput {
			t.Errorf("Generate() code = %s, want %s", apperr.CodeOf(err), apperr.CodeInvalidInput)
		}
		if provider.calls != 0 {
			t.Errorf("provider called %d times for empty prompt, want 0", provider.calls)
		}
	})

	t.Run("sensitive prompt rejected without provider call", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{reply: "ok"}

		_, err := newProxy(provider).Generate(context.Background(), "my SSN is 123-45-6789")
		if apperr.CodeOf(err) != apperr.CodeSecurity {
			t.Errorf("Generate() code = %s, want %s", apperr.CodeOf(err), apperr.CodeSecurity)
		}
		if provider.calls != 0 {
			t.Errorf("provider called %d times for sensitive prompt, want 0", provider.calls)
		}
	})

	t.Run("clean prompt passes through", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{reply: "the weather is fine"}

		got, err := newProxy(provider).Generate(context.Background(), "  how is the weather?  ")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got != "the weather is fine" {
			t.Errorf("Generate() = %q, want provider reply", got)
		}
		if provider.last != "how is the weather?" {
			t.Errorf("provider received %q, want trimmed prompt", provider.last)
		}
	})

	t.Run("provider failure normalized without detail", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{err: errors.New("rpc error: code = ResourceExhausted desc = quota exceeded")}

		_, err := newProxy(provider).Generate(context.Background(), "hello")
		appErr := apperr.From(err)
		if appErr.ErrCode != apperr.CodeAIUnavailable {
			t.Errorf("Generate() code = %s, want %s", appErr.ErrCode, apperr.CodeAIUnavailable)
		}
		if strings.Contains(appErr.Message, "quota") || strings.Contains(appErr.Details, "quota") {
			t.Error("Generate() leaked provider detail into the caller-safe error")
		}
		if !errors.Is(err, provider.err) {
			t.Error("Generate() dropped the wrapped cause needed for server-side logs")
		}
	})
}

func TestGenerateSanitized(t *testing.T) {
	t.Parallel()

	t.Run("sanitizes then sends", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{reply: "done"}

		got, err := newProxy(provider).GenerateSanitized(context.Background(), "my SSN is 123-45-6789")
		if err != nil {
			t.Fatalf("GenerateSanitized() error = %v", err)
		}
		if got != "done" {
			t.Errorf("GenerateSanitized() = %q, want provider reply", got)
		}
		if provider.calls != 1 {
			t.Fatalf("provider called %d times, want 1", provider.calls)
		}
		if strings.Contains(provider.last, "123-45-6789") {
			t.Errorf("provider received raw sensitive text: %q", provider.last)
		}
		if !strings.Contains(provider.last, "[SSN]") {
			t.Errorf("provider prompt %q missing placeholder", provider.last)
		}
	})

	t.Run("long digit run sanitized to completion", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{reply: "done"}

		// Replacing one span in a long run exposes residual matches; the
		// sanitize path must still converge and send rather than reject.
		prompt := "wire to " + strings.Repeat("1234567890", 3)
		_, err := newProxy(provider).GenerateSanitized(context.Background(), prompt)
		if err != nil {
			t.Fatalf("GenerateSanitized() error = %v", err)
		}
		if provider.calls != 1 {
			t.Fatalf("provider called %d times, want 1", provider.calls)
		}
		if strings.ContainsAny(provider.last, "0123456789") {
			t.Errorf("provider received residual digits: %q", provider.last)
		}
	})

	t.Run("empty prompt rejected", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{}

		_, err := newProxy(provider).GenerateSanitized(context.Background(), "")
		if apperr.CodeOf(err) != apperr.CodeInvalidInput {
			t.Errorf("GenerateSanitized() code = %s, want %s", apperr.CodeOf(err), apperr.CodeInvalidInput)
		}
		if provider.calls != 0 {
			t.Errorf("provider called %d times for empty prompt, want 0", provider.calls)
		}
	})
}
