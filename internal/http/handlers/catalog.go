package handlers

import (
	"net/http"

	"productcopy/internal/describe"
	"productcopy/internal/domain"
	"productcopy/internal/middleware"
)

// Catalog returns the option lists the web UI renders. Language names follow
// the locale resolved by middleware.Locale.
func (a *App) Catalog(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, domain.Catalog{
		Models:             domain.Models,
		Languages:          describe.LanguageOptions(domain.LanguageCodes, middleware.LocaleFromContext(r.Context())),
		Lengths:            domain.Lengths,
		Tones:              domain.Tones,
		BackgroundPresets:  domain.BackgroundPresets,
		MaxLanguagesPerRun: domain.MaxUILanguages,
	})
}
