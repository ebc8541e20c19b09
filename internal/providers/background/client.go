// Package background relays background-replacement requests to the external
// image editing service.
package background

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"productcopy/internal/domain"
	"productcopy/internal/infra"
	"productcopy/internal/metrics"
)

var tracer = otel.Tracer("productcopy/background")

const defaultTimeout = 60 * time.Second

// Options configures the relay client.
type Options struct {
	Endpoint       string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client posts {imageUrl, prompt} to the editing service and returns the URL
// of the edited image.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *infra.Logger
}

type replaceRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

type replaceResponse struct {
	URL string `json:"url"`
}

// NewClient builds a relay client for the given endpoint.
func NewClient(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("background: endpoint is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Replace makes exactly one call to the editing service. Any failure is
// reported as domain.ErrRelayFailed with the cause attached.
func (c *Client) Replace(ctx context.Context, imageURL, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "background.replace")
	defer span.End()
	span.SetAttributes(attribute.String("background.endpoint", c.endpoint))

	url, err := c.replace(ctx, imageURL, prompt)
	metrics.RelayTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().Err(err).Str("image_url", imageURL).Msg("background: replace failed")
		return "", fmt.Errorf("%w: %w", domain.ErrRelayFailed, err)
	}
	return url, nil
}

func (c *Client) replace(ctx context.Context, imageURL, prompt string) (string, error) {
	body, err := json.Marshal(replaceRequest{ImageURL: imageURL, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(raw)), 256))
	}

	var decoded replaceResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	url := strings.TrimSpace(decoded.URL)
	if url == "" {
		return "", errors.New("response missing url")
	}
	return url, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
