package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLocale(t *testing.T) {
	codes, matcher := newLocaleMatcher("en", []string{"th", "en", "fr", "ja", "zh"})

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "TH")
				r.Header.Set("Accept-Language", "fr-FR")
			},
			want: "th",
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
			},
			want: "fr",
		},
		{
			name: "accept-language quality order",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "de;q=0.9,ja;q=0.8")
			},
			want: "ja",
		},
		{
			name: "unknown x-locale falls through",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "not a locale")
				r.Header.Set("Accept-Language", "zh-Hans")
			},
			want: "zh",
		},
		{
			name: "unsupported falls back to default",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "sw")
			},
			want: "en",
		},
		{
			name: "no headers",
			want: "en",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			if got := detectLocale(req, codes, matcher); got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleMiddleware(t *testing.T) {
	var seen string
	handler := Locale("en", []string{"en", "ja"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set("Accept-Language", "ja-JP")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "ja" || rec.Header().Get("Content-Language") != "ja" {
		t.Fatalf("locale = %q, header = %q", seen, rec.Header().Get("Content-Language"))
	}
}

func TestLocaleFromContext(t *testing.T) {
	ctx := context.Background()
	if got := LocaleFromContext(ctx); got != "en" {
		t.Fatalf("LocaleFromContext() default = %q, want %q", got, "en")
	}
	ctx = context.WithValue(ctx, LocaleKey, "th")
	if got := LocaleFromContext(ctx); got != "th" {
		t.Fatalf("LocaleFromContext() with value = %q, want %q", got, "th")
	}
}
