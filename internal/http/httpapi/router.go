package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"productcopy/internal/domain"
	"productcopy/internal/http/handlers"
	"productcopy/internal/infra"
	"productcopy/internal/middleware"
)

// RouterOptions carries the cross-cutting settings for the router.
type RouterOptions struct {
	Logger          *infra.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the peer
	// address. Enable it only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
	// Metrics exposes /metrics. The Lambda entry point leaves it off.
	Metrics bool
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		chimw.Recoverer,
		middleware.Logger(*infra.LoggerOrDiscard(opts.Logger)),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Locale("en", domain.LanguageCodes)).Get("/catalog", app.Catalog)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))

			r.Post("/descriptions", app.GenerateDescriptions)
			r.Post("/generateDescriptions", app.GenerateDescriptions)
			r.Post("/together", app.GenerateDescriptions)
			r.Post("/openai", app.OpenAIDescriptions)
			r.Post("/replace-background", app.ReplaceBackground)
		})
	})

	return r
}
