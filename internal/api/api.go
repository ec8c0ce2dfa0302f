// Package api defines the wire envelope and payload shapes shared by the
// HTTP server and the caller-side client.
package api

import (
	"encoding/json"
	"time"

	"github.com/mayagenie/backend/internal/apperr"
)

// Envelope is the uniform wrapper for every API response. Exactly one of
// Data/Error is non-null, and Success matches which one is set.
type Envelope struct {
	Success bool          `json:"success"`
	Data    any           `json:"data"`
	Error   *apperr.Error `json:"error"`
}

// Received is the decoding counterpart of Envelope, with the payload kept raw
// until the caller knows its concrete type.
type Received struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apperr.Error   `json:"error"`
}

// OK builds a success envelope around data.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail builds a failure envelope around err.
func Fail(err *apperr.Error) Envelope {
	return Envelope{Success: false, Error: err}
}

// SendRequest is the body of POST /api/v1/telegram/send.
type SendRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// GenerateRequest is the body of POST /api/v1/ai/gemini. When Sanitize is
// true the boundary sanitizes the prompt before the validated provider call;
// otherwise the prompt must already be free of sensitive spans.
type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Sanitize bool   `json:"sanitize,omitempty"`
}

// GenerateResponse is the success payload of POST /api/v1/ai/gemini.
type GenerateResponse struct {
	Response string `json:"response"`
}

// DBHealth reports durable-store reachability from the health endpoint.
type DBHealth struct {
	Status    string `json:"status"`
	LatencyMS *int64 `json:"latency_ms,omitempty"`
}

// HealthData is the success payload of GET /api/health.
type HealthData struct {
	Timestamp time.Time `json:"timestamp"`
	Region    string    `json:"region"`
	Env       string    `json:"env"`
	DB        DBHealth  `json:"db"`
}
