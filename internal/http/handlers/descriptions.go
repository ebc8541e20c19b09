package handlers

import (
	"errors"
	"io"
	"net/http"

	"productcopy/internal/domain"
	"productcopy/internal/middleware"
)

const maxGenerationBody = 1 << 20

// GenerateDescriptions validates the request and returns names and
// descriptions in the canonical shape. The provider follows the model.
func (a *App) GenerateDescriptions(w http.ResponseWriter, r *http.Request) {
	a.generate(w, r, "")
}

// OpenAIDescriptions serves the legacy route that always used OpenAI.
func (a *App) OpenAIDescriptions(w http.ResponseWriter, r *http.Request) {
	a.generate(w, r, domain.ProviderOpenAI)
}

func (a *App) generate(w http.ResponseWriter, r *http.Request, provider string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGenerationBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.text(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		a.text(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	req, err := domain.ParseGenerationRequest(body)
	if err != nil {
		a.text(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	req.Provider = provider

	result, err := a.Describer.Generate(r.Context(), req)
	if err != nil {
		a.generationError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

func (a *App) generationError(w http.ResponseWriter, r *http.Request, err error) {
	log := a.Logger.With().Str("request_id", middleware.RequestIDFromContext(r.Context())).Logger()
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		a.text(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrGenerationTimeout):
		log.Warn().Err(err).Msg("generation timed out")
		a.text(w, http.StatusGatewayTimeout, "Generation timed out")
	default:
		log.Error().Err(err).Msg("generation failed")
		a.text(w, http.StatusInternalServerError, "Error processing request")
	}
}
