// Package completion talks to hosted chat-completion models. Every provider
// is exposed through the same Completer contract so the orchestrator can
// swap the primary and repair backends and tests can substitute fakes.
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("productcopy/completion")

// ErrMissingAPIKey indicates that a client was configured without credentials.
var ErrMissingAPIKey = errors.New("completion: api key is required")

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("completion: empty response")

// Request is a single non-streaming chat completion call: a system
// instruction plus one user turn made of text and an optional image.
type Request struct {
	Model       string
	System      string
	Prompt      string
	ImageURL    string
	Temperature *float64
	MaxTokens   int

	// JSONMode asks the provider for a JSON object. Schema, when set, is the
	// JSON Schema the object must satisfy.
	JSONMode   bool
	Schema     json.RawMessage
	SchemaName string
}

// Response holds the raw text the model produced.
type Response struct {
	Text     string
	Model    string
	Provider string
}

// Completer is implemented by every provider client.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: status %d: %s (%s)", e.Provider, e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Temperature is a helper for building requests with an explicit temperature.
func Temperature(v float64) *float64 {
	return &v
}
