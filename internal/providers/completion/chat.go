package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"productcopy/internal/infra"
)

const chatDefaultTimeout = 45 * time.Second

// ChatOptions configures a client for an OpenAI-compatible
// /chat/completions endpoint (OpenAI, Together).
type ChatOptions struct {
	Name           string
	APIKey         string
	BaseURL        string
	Organization   string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// ChatClient performs HTTP calls to an OpenAI-compatible chat completion API.
type ChatClient struct {
	name         string
	apiKey       string
	baseURL      string
	organization string
	httpClient   *http.Client
	logger       *infra.Logger
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage content is either a plain string or a list of parts.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type   string          `json:"type"`
	Schema json.RawMessage `json:"schema,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// NewChatClient constructs a client with sane defaults and injected dependencies.
func NewChatClient(opts ChatOptions) (*ChatClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "openai"
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = chatDefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &ChatClient{
		name:         name,
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		httpClient:   httpClient,
		logger:       infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Name returns the provider label.
func (c *ChatClient) Name() string {
	return c.name
}

// Complete sends one non-streaming chat completion and returns the text of
// the first choice.
func (c *ChatClient) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "chat.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", c.name),
		attribute.String("model", req.Model),
	)

	resp, err := c.complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (c *ChatClient) complete(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("%s: model is required", c.name)
	}
	payload := buildChatRequest(req)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", c.name, err)
	}
	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.organization)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: http request: %w", c.name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.name, err)
	}

	if resp.StatusCode >= 300 {
		return nil, c.decodeError(resp.StatusCode, raw)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", c.name, ErrEmptyResponse)
	}
	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", c.name, ErrEmptyResponse)
	}
	c.logger.Debug().
		Str("provider", c.name).
		Str("model", req.Model).
		Int("chars", len(text)).
		Msg("completion: received response")
	return &Response{Text: text, Model: coalesce(decoded.Model, req.Model), Provider: c.name}, nil
}

func (c *ChatClient) decodeError(status int, raw []byte) error {
	apiErr := &APIError{Provider: c.name, StatusCode: status}
	var detail chatErrorResponse
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
		apiErr.Message = detail.Error.Message
		switch code := detail.Error.Code.(type) {
		case string:
			apiErr.Code = code
		case float64:
			apiErr.Code = fmt.Sprintf("%d", int(code))
		}
		if apiErr.Code == "" {
			apiErr.Code = detail.Error.Type
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if len(apiErr.Message) > 512 {
		apiErr.Message = apiErr.Message[:512]
	}
	return apiErr
}

func buildChatRequest(req Request) chatRequest {
	payload := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}
	if system := strings.TrimSpace(req.System); system != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: system})
	}
	if img := strings.TrimSpace(req.ImageURL); img != "" {
		payload.Messages = append(payload.Messages, chatMessage{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: req.Prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: img}},
			},
		})
	} else {
		payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.Prompt})
	}
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object", Schema: req.Schema}
	}
	return payload
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

// IsAPIError reports whether err carries a provider status error and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

var _ Completer = (*ChatClient)(nil)
