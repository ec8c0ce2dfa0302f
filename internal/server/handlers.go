package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mayagenie/backend/internal/api"
	"github.com/mayagenie/backend/internal/apperr"
)

// Generator is the guarded AI capability consumed by the HTTP layer. The AI
// proxy satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateSanitized(ctx context.Context, prompt string) (string, error)
}

// Pinger is the store reachability probe used by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req api.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeBadRequest, "request body must be valid JSON"))
		return
	}
	if req.ChatID == 0 {
		writeError(w, apperr.New(apperr.CodeBadRequest, "chat_id is required"))
		return
	}
	if req.Text == "" {
		writeError(w, apperr.New(apperr.CodeBadRequest, "text is required"))
		return
	}

	msg, err := s.messenger.Send(r.Context(), req.ChatID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, msg)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeBadRequest, "request body must be valid JSON"))
		return
	}

	var (
		reply string
		err   error
	)
	if req.Sanitize {
		reply, err = s.generator.GenerateSanitized(r.Context(), req.Prompt)
	} else {
		reply, err = s.generator.Generate(r.Context(), req.Prompt)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, api.GenerateResponse{Response: reply})
}

// handleHealth always answers 200; the envelope's success field mirrors store
// reachability. The probe is bounded by the configured timeout so the
// endpoint responds even when the store hangs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.healthTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		appErr := apperr.Wrap(apperr.CodeStorage, "durable store is unreachable", err).
			WithDetails(time.Duration(latency * int64(time.Millisecond)).String())
		writeJSON(w, http.StatusOK, api.Fail(appErr))
		return
	}

	writeData(w, http.StatusOK, api.HealthData{
		Timestamp: time.Now().UTC(),
		Region:    s.region,
		Env:       s.env,
		DB: api.DBHealth{
			Status:    "connected",
			LatencyMS: &latency,
		},
	})
}
