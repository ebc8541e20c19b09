package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"productcopy/internal/infra"
)

const (
	geminiDefaultTimeout = 45 * time.Second
	geminiMaxImageBytes  = 20 << 20
)

// GeminiOptions configures the Gemini completion client.
type GeminiOptions struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration

	// ImageHTTPClient fetches request images. The default refuses
	// non-public destinations.
	ImageHTTPClient *http.Client
}

// GeminiClient calls Gemini through the genai SDK. Gemini does not fetch
// arbitrary image URLs itself, so the image is downloaded and sent inline.
type GeminiClient struct {
	client      *genai.Client
	imageClient *http.Client
	logger      *infra.Logger
}

// NewGeminiClient constructs a Gemini client backed by the Gemini API.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = geminiDefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	imageClient := opts.ImageHTTPClient
	if imageClient == nil {
		imageClient = newImageClient(timeout)
	}
	cc := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(opts.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		imageClient: imageClient,
		logger:      infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Name returns the provider label.
func (g *GeminiClient) Name() string {
	return "gemini"
}

// Complete generates content for one user turn and returns the response text.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "gemini.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", g.Name()),
		attribute.String("model", req.Model),
	)

	resp, err := g.complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (g *GeminiClient) complete(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, errors.New("gemini: model is required")
	}
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if img := strings.TrimSpace(req.ImageURL); img != "" {
		data, mime, err := g.download(ctx, img)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	config := &genai.GenerateContentConfig{}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
		if len(req.Schema) > 0 {
			var schema map[string]any
			if err := json.Unmarshal(req.Schema, &schema); err != nil {
				return nil, fmt.Errorf("gemini: decode schema: %w", err)
			}
			config.ResponseJsonSchema = schema
		}
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	out, err := g.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	text := strings.TrimSpace(out.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	g.logger.Debug().
		Str("provider", g.Name()).
		Str("model", req.Model).
		Int("chars", len(text)).
		Msg("completion: received response")
	return &Response{Text: text, Model: req.Model, Provider: g.Name()}, nil
}

func (g *GeminiClient) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, "", fmt.Errorf("gemini: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("gemini: build download request: %w", err)
	}
	resp, err := g.imageClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("gemini: download image: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("gemini: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, geminiMaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("gemini: read image: %w", err)
	}
	if len(data) > geminiMaxImageBytes {
		return nil, "", fmt.Errorf("gemini: image exceeds %d bytes", geminiMaxImageBytes)
	}
	mime := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

var _ Completer = (*GeminiClient)(nil)
