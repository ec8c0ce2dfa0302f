package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mayagenie/backend/internal/apperr"
	"github.com/mayagenie/backend/internal/logger"
)

// requestIDHeader carries the correlation identifier on requests and
// responses.
const requestIDHeader = "X-Request-ID"

// requestIDMiddleware ensures every request carries a correlation identifier:
// an inbound one is kept, otherwise a fresh uuid is minted. The identifier is
// stored in the request context and echoed on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware emits one structured entry per handled request, tagged
// with the correlation id and never with body content.
func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With("component", "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			ctx := r.Context()
			logger.WithContext(ctx, log).InfoContext(ctx, "Handled request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}

// recoverMiddleware converts panics into a well-formed 500 envelope so no
// request ever produces a non-JSON or implementation-leaking response.
func recoverMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With("component", "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.WithContext(ctx, log).ErrorContext(ctx, "Handler panicked",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec)
					writeError(w, apperr.New(apperr.CodeInternal, "an unexpected error occurred"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
