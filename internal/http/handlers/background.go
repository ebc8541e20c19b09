package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"productcopy/internal/domain"
	"productcopy/internal/middleware"
)

// ReplaceBackground relays {imageUrl, prompt} to the editing service.
func (a *App) ReplaceBackground(w http.ResponseWriter, r *http.Request) {
	var req domain.ReplaceBackgroundRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGenerationBody)).Decode(&req); err != nil {
		req = domain.ReplaceBackgroundRequest{}
	}
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.ImageURL == "" || req.Prompt == "" {
		a.json(w, http.StatusBadRequest, domain.ReplaceBackgroundResult{Error: "Image URL and prompt are required"})
		return
	}

	url, err := a.Relay.Replace(r.Context(), req.ImageURL, req.Prompt)
	if err != nil {
		a.Logger.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("replace background failed")
		a.json(w, http.StatusInternalServerError, domain.ReplaceBackgroundResult{Error: "Failed to replace background"})
		return
	}
	a.json(w, http.StatusOK, domain.ReplaceBackgroundResult{Success: true, ImageURL: url})
}
