// Package describe turns a product image into multilingual product copy. A
// primary vision model is asked for strict JSON; when its output cannot be
// used, a single call to a smaller extraction model repairs it.
package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"productcopy/internal/domain"
	"productcopy/internal/infra"
	"productcopy/internal/metrics"
	"productcopy/internal/providers/completion"
)

var tracer = otel.Tracer("productcopy/describe")

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1000

	reasonRequestFailed = "request_failed"
	reasonParsePayload  = "parse_payload"
	reasonMissingKeys   = "missing_keys"
)

// Options configures a Service.
type Options struct {
	// Providers maps provider names (together, openai, gemini) to clients.
	Providers       map[string]completion.Completer
	DefaultProvider string

	Repair      completion.Completer
	RepairModel string

	// Temperature defaults to 0.2 when nil. Zero is a valid setting.
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration

	Logger *infra.Logger

	// OnFallback is invoked whenever the repair model is consulted.
	OnFallback func(reason string, err error)
}

// Service generates product names and descriptions.
type Service struct {
	providers       map[string]completion.Completer
	defaultProvider string
	repair          completion.Completer
	repairModel     string
	temperature     float64
	maxTokens       int
	timeout         time.Duration
	logger          *infra.Logger
	onFallback      func(string, error)
}

// NewService validates the options and returns a ready Service.
func NewService(opts Options) (*Service, error) {
	if opts.Repair == nil {
		return nil, errors.New("describe: repair completer is required")
	}
	if strings.TrimSpace(opts.RepairModel) == "" {
		return nil, errors.New("describe: repair model is required")
	}
	providers := make(map[string]completion.Completer, len(opts.Providers))
	for name, c := range opts.Providers {
		if c != nil {
			providers[strings.ToLower(strings.TrimSpace(name))] = c
		}
	}
	defaultProvider := strings.ToLower(strings.TrimSpace(opts.DefaultProvider))
	if defaultProvider == "" {
		defaultProvider = domain.ProviderTogether
	}
	temperature := defaultTemperature
	if opts.Temperature != nil && *opts.Temperature >= 0 {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Service{
		providers:       providers,
		defaultProvider: defaultProvider,
		repair:          opts.Repair,
		repairModel:     strings.TrimSpace(opts.RepairModel),
		temperature:     temperature,
		maxTokens:       maxTokens,
		timeout:         opts.Timeout,
		logger:          infra.LoggerOrDiscard(opts.Logger),
		onFallback:      opts.OnFallback,
	}, nil
}

// Generate runs the primary call and, when needed, the repair call. Errors
// wrap domain.ErrGenerationFailed or domain.ErrGenerationTimeout.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "describe.generate", trace.WithAttributes(
		attribute.String("describe.model", req.Model),
		attribute.Int("describe.languages", len(req.Languages)),
	))
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	providerName := s.resolveProvider(req)
	span.SetAttributes(attribute.String("describe.provider", providerName))
	primary, ok := s.providers[providerName]
	if !ok {
		err := fmt.Errorf("%w: %w: %s", domain.ErrGenerationFailed, domain.ErrProviderNotConfigured, providerName)
		s.fail(span, providerName, "failed", err)
		return nil, err
	}

	start := time.Now()
	resp, callErr := primary.Complete(ctx, completion.Request{
		Model:       req.Model,
		System:      primarySystemPrompt,
		Prompt:      buildPrompt(req),
		ImageURL:    req.ImageURL,
		Temperature: completion.Temperature(s.temperature),
		MaxTokens:   s.maxTokens,
	})
	metrics.UpstreamDurationSeconds.WithLabelValues(providerName, "primary", metrics.Result(callErr)).Observe(time.Since(start).Seconds())

	if callErr != nil && ctx.Err() != nil {
		return nil, s.timedOut(ctx, span, providerName, "primary", callErr)
	}

	var raw string
	var reason string
	cause := callErr
	if callErr != nil {
		reason = reasonRequestFailed
	} else {
		raw = resp.Text
		payload, err := parseStrict(raw)
		if err == nil {
			metrics.GenerationsTotal.WithLabelValues(providerName, "primary").Inc()
			return shapeResult(req.Languages, payload), nil
		}
		cause = err
		reason = reasonParsePayload
		if errors.Is(err, errMissingKeys) {
			reason = reasonMissingKeys
		}
	}

	s.logger.Warn().
		Err(cause).
		Str("provider", providerName).
		Str("model", req.Model).
		Str("reason", reason).
		Str("raw_response", raw).
		Msg("describe: primary output unusable, calling repair model")
	metrics.FallbacksTotal.WithLabelValues(reason).Inc()
	if s.onFallback != nil {
		s.onFallback(reason, cause)
	}
	span.AddEvent("describe.fallback", trace.WithAttributes(attribute.String("reason", reason)))

	payload, err := s.repairPayload(ctx, raw)
	if err != nil {
		if ctx.Err() != nil {
			return nil, s.timedOut(ctx, span, providerName, "repair", err)
		}
		s.logger.Error().
			Err(err).
			Str("provider", providerName).
			Str("repair_model", s.repairModel).
			Str("raw_response", raw).
			Msg("describe: repair failed")
		wrapped := fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		s.fail(span, providerName, "failed", wrapped)
		return nil, wrapped
	}

	metrics.GenerationsTotal.WithLabelValues(providerName, "repaired").Inc()
	return shapeResult(req.Languages, payload), nil
}

func (s *Service) repairPayload(ctx context.Context, raw string) (*modelPayload, error) {
	start := time.Now()
	resp, err := s.repair.Complete(ctx, completion.Request{
		Model:      s.repairModel,
		System:     repairSystemPrompt,
		Prompt:     raw,
		JSONMode:   true,
		Schema:     resultSchema,
		SchemaName: resultSchemaName,
	})
	metrics.UpstreamDurationSeconds.WithLabelValues(s.repair.Name(), "repair", metrics.Result(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("repair request: %w", err)
	}
	payload, err := parseLenient(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("repair payload: %w", err)
	}
	return payload, nil
}

func (s *Service) timedOut(ctx context.Context, span trace.Span, provider, stage string, cause error) error {
	err := fmt.Errorf("%w: %s call: %w", domain.ErrGenerationTimeout, stage, ctx.Err())
	s.logger.Warn().
		Err(cause).
		Str("provider", provider).
		Str("stage", stage).
		Msg("describe: deadline reached")
	s.fail(span, provider, "timeout", err)
	return err
}

func (s *Service) fail(span trace.Span, provider, outcome string, err error) {
	metrics.GenerationsTotal.WithLabelValues(provider, outcome).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// resolveProvider picks the backend for a request: an explicit override,
// then the model catalog and name prefixes, then the configured default.
func (s *Service) resolveProvider(req domain.GenerationRequest) string {
	if p := strings.ToLower(strings.TrimSpace(req.Provider)); p != "" {
		return p
	}
	if p := ProviderForModel(req.Model); p != "" {
		return p
	}
	return s.defaultProvider
}

// ProviderForModel infers the provider serving a model identifier, or ""
// when the model is unknown.
func ProviderForModel(model string) string {
	model = strings.TrimSpace(model)
	if m, ok := domain.LookupModel(model); ok {
		return m.Provider
	}
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "gpt-"), isOpenAIReasoningModel(lower):
		return domain.ProviderOpenAI
	case strings.HasPrefix(lower, "gemini-"), strings.HasPrefix(lower, "models/gemini-"):
		return domain.ProviderGemini
	case strings.HasPrefix(lower, "meta-llama/"), strings.Contains(lower, "vision-instruct"):
		return domain.ProviderTogether
	}
	return ""
}

// isOpenAIReasoningModel matches o1, o3-mini, o4-mini and similar names.
func isOpenAIReasoningModel(lower string) bool {
	if len(lower) < 2 || lower[0] != 'o' {
		return false
	}
	return lower[1] >= '0' && lower[1] <= '9'
}
