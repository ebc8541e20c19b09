package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	TrustProxyHeaders  bool

	DefaultProvider string
	TogetherAPIKey  string
	TogetherBaseURL string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIOrg       string
	GeminiAPIKey    string
	GeminiBaseURL   string

	RepairProvider        string
	RepairModel           string
	GenerationTemperature float64
	GenerationMaxTokens   int

	BackgroundServiceURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RequestTimeout   time.Duration
	UpstreamTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),

		DefaultProvider: strings.ToLower(getEnv("DEFAULT_PROVIDER", "together")),
		TogetherAPIKey:  os.Getenv("TOGETHER_API_KEY"),
		TogetherBaseURL: getEnv("TOGETHER_BASE_URL", "https://api.together.xyz/v1"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:       os.Getenv("OPENAI_ORG"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),

		RepairProvider:        strings.ToLower(getEnv("REPAIR_PROVIDER", "together")),
		RepairModel:           getEnv("REPAIR_MODEL", "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo"),
		GenerationTemperature: getEnvFloat("GENERATION_TEMPERATURE", 0.2),
		GenerationMaxTokens:   getEnvInt("GENERATION_MAX_TOKENS", 1000),

		BackgroundServiceURL: getEnv("BACKGROUND_SERVICE_URL", "https://image-generator-service.onrender.com/replace-background"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RequestTimeout:   time.Second * time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 60)),
		UpstreamTimeout:  time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 45)),
	}

	if !cfg.HasCredentials(cfg.DefaultProvider) {
		return nil, fmt.Errorf("credentials for DEFAULT_PROVIDER %q are required", cfg.DefaultProvider)
	}
	if !cfg.HasCredentials(cfg.RepairProvider) {
		return nil, fmt.Errorf("credentials for REPAIR_PROVIDER %q are required", cfg.RepairProvider)
	}

	return cfg, nil
}

// HasCredentials reports whether an API key is configured for the named provider.
func (c *Config) HasCredentials(provider string) bool {
	switch provider {
	case "together":
		return c.TogetherAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "gemini":
		return c.GeminiAPIKey != ""
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
