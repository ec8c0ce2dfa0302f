package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mayagenie/backend/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code apperr.Code
		want int
	}{
		{apperr.CodeBadRequest, http.StatusBadRequest},
		{apperr.CodeInvalidInput, http.StatusBadRequest},
		{apperr.CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{apperr.CodeSecurity, http.StatusForbidden},
		{apperr.CodeAIUnavailable, http.StatusServiceUnavailable},
		{apperr.CodeStorage, http.StatusServiceUnavailable},
		{apperr.CodeMessagingFailed, http.StatusBadGateway},
		{apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			t.Parallel()
			if got := apperr.New(tc.code, "x").HTTPStatus(); got != tc.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	t.Parallel()

	t.Run("passes through tagged errors", func(t *testing.T) {
		t.Parallel()
		orig := apperr.New(apperr.CodeMessagingFailed, "send failed")
		got := apperr.From(fmt.Errorf("handler: %w", orig))
		if got.ErrCode != apperr.CodeMessagingFailed {
			t.Errorf("From() code = %s, want %s", got.ErrCode, apperr.CodeMessagingFailed)
		}
		if got.Message != "send failed" {
			t.Errorf("From() message = %q, want %q", got.Message, "send failed")
		}
	})

	t.Run("normalizes unclassified errors", func(t *testing.T) {
		t.Parallel()
		got := apperr.From(errors.New("driver: connection reset"))
		if got.ErrCode != apperr.CodeInternal {
			t.Errorf("From() code = %s, want %s", got.ErrCode, apperr.CodeInternal)
		}
		if got.Message == "driver: connection reset" {
			t.Error("From() leaked the underlying error message")
		}
	})
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: timeout")
	err := apperr.Wrap(apperr.CodeStorage, "store unreachable", cause)

	if !errors.Is(err, cause) {
		t.Error("Wrap() lost the underlying cause")
	}
	if err.Message != "store unreachable" {
		t.Errorf("Message = %q, want %q", err.Message, "store unreachable")
	}
}
