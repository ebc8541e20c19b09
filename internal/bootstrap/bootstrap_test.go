package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"productcopy/internal/domain"
	"productcopy/internal/infra"
)

func testConfig() *infra.Config {
	return &infra.Config{
		AppEnv:                "test",
		CORSAllowedOrigins:    []string{"http://localhost:3000"},
		RateLimitPerMin:       10,
		DefaultProvider:       domain.ProviderTogether,
		TogetherAPIKey:        "tg-key",
		TogetherBaseURL:       "https://api.together.test/v1",
		RepairProvider:        domain.ProviderTogether,
		RepairModel:           "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
		GenerationTemperature: 0.2,
		GenerationMaxTokens:   1000,
		BackgroundServiceURL:  "https://bg.test/replace-background",
		RequestTimeout:        5 * time.Second,
		UpstreamTimeout:       5 * time.Second,
	}
}

func TestProvidersOnlyForCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = "sk-test"

	providers, err := Providers(context.Background(), cfg, nil, http.DefaultClient)
	if err != nil {
		t.Fatalf("Providers: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(providers))
	}
	for _, name := range []string{domain.ProviderTogether, domain.ProviderOpenAI} {
		c, ok := providers[name]
		if !ok || c.Name() != name {
			t.Fatalf("provider %s missing or misnamed", name)
		}
	}
	if _, ok := providers[domain.ProviderGemini]; ok {
		t.Fatal("gemini should not be built without a key")
	}
}

func TestNewAppRequiresRepairProvider(t *testing.T) {
	cfg := testConfig()
	cfg.RepairProvider = domain.ProviderOpenAI

	if _, err := NewApp(context.Background(), cfg, nil); !errors.Is(err, domain.ErrProviderNotConfigured) {
		t.Fatalf("err = %v, want ErrProviderNotConfigured", err)
	}
}

func TestNewHandlerServesHealth(t *testing.T) {
	handler, err := NewHandler(context.Background(), testConfig(), nil, false)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"status\":\"ok\"}\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("/metrics = %d, want 404 when metrics are off", rec.Code)
	}
}
