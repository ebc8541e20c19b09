// Package bootstrap builds the provider clients, services and router from
// configuration. Both the HTTP server and the Lambda entry point use it so
// the two deployments serve identical routes.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"productcopy/internal/describe"
	"productcopy/internal/domain"
	"productcopy/internal/http/handlers"
	"productcopy/internal/http/httpapi"
	"productcopy/internal/infra"
	"productcopy/internal/metrics"
	"productcopy/internal/providers/background"
	"productcopy/internal/providers/completion"
)

// Providers constructs a client for every provider that has credentials.
func Providers(ctx context.Context, cfg *infra.Config, logger *infra.Logger, httpClient *http.Client) (map[string]completion.Completer, error) {
	providers := make(map[string]completion.Completer, 3)

	if cfg.HasCredentials(domain.ProviderTogether) {
		c, err := completion.NewChatClient(completion.ChatOptions{
			Name:           domain.ProviderTogether,
			APIKey:         cfg.TogetherAPIKey,
			BaseURL:        cfg.TogetherBaseURL,
			HTTPClient:     httpClient,
			Logger:         logger,
			RequestTimeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("together client: %w", err)
		}
		providers[domain.ProviderTogether] = c
	}
	if cfg.HasCredentials(domain.ProviderOpenAI) {
		c, err := completion.NewChatClient(completion.ChatOptions{
			Name:           domain.ProviderOpenAI,
			APIKey:         cfg.OpenAIAPIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			Organization:   cfg.OpenAIOrg,
			HTTPClient:     httpClient,
			Logger:         logger,
			RequestTimeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		providers[domain.ProviderOpenAI] = c
	}
	if cfg.HasCredentials(domain.ProviderGemini) {
		c, err := completion.NewGeminiClient(ctx, completion.GeminiOptions{
			APIKey:         cfg.GeminiAPIKey,
			BaseURL:        cfg.GeminiBaseURL,
			HTTPClient:     httpClient,
			Logger:         logger,
			RequestTimeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		providers[domain.ProviderGemini] = c
	}
	return providers, nil
}

// NewApp wires the handlers container.
func NewApp(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (*handlers.App, error) {
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	providers, err := Providers(ctx, cfg, logger, httpClient)
	if err != nil {
		return nil, err
	}
	repair, ok := providers[cfg.RepairProvider]
	if !ok {
		return nil, fmt.Errorf("repair provider %q: %w", cfg.RepairProvider, domain.ErrProviderNotConfigured)
	}

	describer, err := describe.NewService(describe.Options{
		Providers:       providers,
		DefaultProvider: cfg.DefaultProvider,
		Repair:          repair,
		RepairModel:     cfg.RepairModel,
		Temperature:     completion.Temperature(cfg.GenerationTemperature),
		MaxTokens:       cfg.GenerationMaxTokens,
		Timeout:         cfg.RequestTimeout,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	relay, err := background.NewClient(background.Options{
		Endpoint:       cfg.BackgroundServiceURL,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	return handlers.NewApp(logger, describer, relay), nil
}

// NewHandler returns the fully wired router. exposeMetrics registers the
// Prometheus collectors and mounts /metrics.
func NewHandler(ctx context.Context, cfg *infra.Config, logger *infra.Logger, exposeMetrics bool) (http.Handler, error) {
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if exposeMetrics {
		metrics.Register()
	}
	return httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:            logger,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		RateLimitPerMin:   cfg.RateLimitPerMin,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Metrics:           exposeMetrics,
	}), nil
}
