package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"productcopy/internal/domain"
	"productcopy/internal/infra"
)

// Describer produces product copy for a validated request.
type Describer interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// BackgroundRelay forwards a background replacement to the editing service.
type BackgroundRelay interface {
	Replace(ctx context.Context, imageURL, prompt string) (string, error)
}

type App struct {
	Logger    *infra.Logger
	Describer Describer
	Relay     BackgroundRelay
}

func NewApp(logger *infra.Logger, describer Describer, relay BackgroundRelay) *App {
	return &App{Logger: infra.LoggerOrDiscard(logger), Describer: describer, Relay: relay}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) text(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
