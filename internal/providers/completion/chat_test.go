package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type captureTransport struct {
	status   int
	body     []byte
	lastReq  *http.Request
	lastBody []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	_ = req.Body.Close()
	c.lastReq = req
	c.lastBody = body
	return &http.Response{
		StatusCode: c.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(c.body)),
	}, nil
}

func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"model": "served-model",
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return body
}

func newTestChatClient(t *testing.T, rt http.RoundTripper) *ChatClient {
	t.Helper()
	client, err := NewChatClient(ChatOptions{
		Name:         "together",
		APIKey:       "test-key",
		BaseURL:      "https://api.together.test/v1/",
		Organization: "org-1",
		HTTPClient:   &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewChatClient: %v", err)
	}
	return client
}

func TestNewChatClientRequiresAPIKey(t *testing.T) {
	if _, err := NewChatClient(ChatOptions{APIKey: "  "}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestChatClientMultimodalPayload(t *testing.T) {
	transport := &captureTransport{status: http.StatusOK, body: chatReply(t, `{"ok":true}`)}
	client := newTestChatClient(t, transport)

	resp, err := client.Complete(context.Background(), Request{
		Model:       "meta-llama/Llama-3.2-11B-Vision-Instruct-Turbo",
		System:      "only JSON",
		Prompt:      "describe this",
		ImageURL:    "https://x/img.jpg",
		Temperature: Temperature(0.2),
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != `{"ok":true}` {
		t.Fatalf("Text = %q", resp.Text)
	}
	if resp.Provider != "together" || resp.Model != "served-model" {
		t.Fatalf("provider/model = %q/%q", resp.Provider, resp.Model)
	}

	req := transport.lastReq
	if req.URL.String() != "https://api.together.test/v1/chat/completions" {
		t.Fatalf("url = %s", req.URL)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Fatalf("Authorization = %q", got)
	}
	if got := req.Header.Get("OpenAI-Organization"); got != "org-1" {
		t.Fatalf("OpenAI-Organization = %q", got)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["temperature"] != 0.2 {
		t.Fatalf("temperature = %v, want 0.2", payload["temperature"])
	}
	if payload["max_tokens"] != float64(1000) {
		t.Fatalf("max_tokens = %v, want 1000", payload["max_tokens"])
	}
	if payload["stream"] != false {
		t.Fatalf("stream = %v, want false", payload["stream"])
	}
	if _, ok := payload["response_format"]; ok {
		t.Fatal("response_format should be omitted outside JSON mode")
	}
	messages := payload["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages len = %d, want 2", len(messages))
	}
	system := messages[0].(map[string]any)
	if system["role"] != "system" || system["content"] != "only JSON" {
		t.Fatalf("system message = %v", system)
	}
	content := messages[1].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content len = %d, want 2", len(content))
	}
	if text := content[0].(map[string]any)["text"]; text != "describe this" {
		t.Fatalf("text part = %v", text)
	}
	image := content[1].(map[string]any)
	if image["type"] != "image_url" {
		t.Fatalf("image part type = %v", image["type"])
	}
	if u := image["image_url"].(map[string]any)["url"]; u != "https://x/img.jpg" {
		t.Fatalf("image url = %v", u)
	}
}

func TestChatClientJSONModeCarriesSchema(t *testing.T) {
	transport := &captureTransport{status: http.StatusOK, body: chatReply(t, `{}`)}
	client := newTestChatClient(t, transport)

	schema := json.RawMessage(`{"type":"object"}`)
	if _, err := client.Complete(context.Background(), Request{
		Model:    "small",
		Prompt:   "raw text",
		JSONMode: true,
		Schema:   schema,
	}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, ok := payload["temperature"]; ok {
		t.Fatal("temperature should be omitted when unset")
	}
	format := payload["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("response_format.type = %v", format["type"])
	}
	if format["schema"].(map[string]any)["type"] != "object" {
		t.Fatalf("response_format.schema = %v", format["schema"])
	}
	messages := payload["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("messages len = %d, want 1 (no system)", len(messages))
	}
	if content := messages[0].(map[string]any)["content"]; content != "raw text" {
		t.Fatalf("user content = %v, want plain string", content)
	}
}

func TestChatClientDecodesAPIError(t *testing.T) {
	transport := &captureTransport{
		status: http.StatusTooManyRequests,
		body:   []byte(`{"error":{"message":"rate limited","type":"rate_limit_error","code":"rate_limit"}}`),
	}
	client := newTestChatClient(t, transport)

	_, err := client.Complete(context.Background(), Request{Model: "m", Prompt: "p"})
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Code != "rate_limit" || apiErr.Message != "rate limited" {
		t.Fatalf("apiErr = %#v", apiErr)
	}
}

func TestChatClientNonJSONError(t *testing.T) {
	transport := &captureTransport{status: http.StatusBadGateway, body: []byte("upstream exploded")}
	client := newTestChatClient(t, transport)

	_, err := client.Complete(context.Background(), Request{Model: "m", Prompt: "p"})
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "upstream exploded" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestChatClientEmptyChoices(t *testing.T) {
	transport := &captureTransport{status: http.StatusOK, body: []byte(`{"choices":[]}`)}
	client := newTestChatClient(t, transport)

	_, err := client.Complete(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestChatClientTransportFailureKeepsContextError(t *testing.T) {
	client := newTestChatClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	}))

	_, err := client.Complete(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want wrapped DeadlineExceeded", err)
	}
}
