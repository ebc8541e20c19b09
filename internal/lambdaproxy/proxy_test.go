package lambdaproxy

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestHandlerRoundTrip(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotBody, gotCT, gotRID, gotRemote string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("debug")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotCT = r.Header.Get("Content-Type")
		gotRID = r.Header.Get("X-Request-ID")
		gotRemote = r.RemoteAddr
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		http.SetCookie(w, &http.Cookie{Name: "a", Value: "1"})
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("languages: must contain at least 1 element"))
	})

	event := events.APIGatewayV2HTTPRequest{
		RawPath:         "/api/descriptions",
		RawQueryString:  "debug=1",
		Headers:         map[string]string{"content-type": "application/json"},
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"languages":[]}`)),
		IsBase64Encoded: true,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RequestID: "gw-req-1",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:   http.MethodPost,
				SourceIP: "203.0.113.9",
			},
		},
	}

	resp, err := Handler(h)(context.Background(), event)
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/descriptions" || gotQuery != "1" {
		t.Fatalf("request = %s %s debug=%s", gotMethod, gotPath, gotQuery)
	}
	if gotBody != `{"languages":[]}` || gotCT != "application/json" {
		t.Fatalf("body/content-type = %q/%q", gotBody, gotCT)
	}
	if gotRID != "gw-req-1" || gotRemote != "203.0.113.9" {
		t.Fatalf("request id/remote = %q/%q", gotRID, gotRemote)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Body != "languages: must contain at least 1 element" || resp.IsBase64Encoded {
		t.Fatalf("body = %q (base64=%v)", resp.Body, resp.IsBase64Encoded)
	}
	if resp.Headers["Content-Type"] != "text/plain; charset=utf-8" {
		t.Fatalf("headers = %v", resp.Headers)
	}
	if len(resp.Cookies) != 1 || resp.Cookies[0] != "a=1" {
		t.Fatalf("cookies = %v", resp.Cookies)
	}
}

func TestHandlerBinaryBodyIsBase64(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfe, 0x00})
	})
	resp, err := Handler(h)(context.Background(), events.APIGatewayV2HTTPRequest{RawPath: "/"})
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !resp.IsBase64Encoded {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Body != base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x00}) {
		t.Fatalf("body = %q", resp.Body)
	}
}

func TestNewRequestRejectsBadBase64(t *testing.T) {
	_, err := NewRequest(context.Background(), events.APIGatewayV2HTTPRequest{RawPath: "/", Body: "%%%", IsBase64Encoded: true})
	if err == nil {
		t.Fatal("expected decode error")
	}
}
