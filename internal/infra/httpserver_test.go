package infra

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPServerExtendsWriteTimeoutPastRequestBudget(t *testing.T) {
	cfg := &Config{Port: "9090", HTTPWriteTimeout: 30 * time.Second, RequestTimeout: 60 * time.Second}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr() != ":9090" {
		t.Fatalf("Addr = %q, want :9090", srv.Addr())
	}
	if srv.WriteTimeout() != 65*time.Second {
		t.Fatalf("WriteTimeout = %v, want 65s", srv.WriteTimeout())
	}
}

func TestNewHTTPServerKeepsLongerWriteTimeout(t *testing.T) {
	cfg := &Config{Port: "8080", HTTPWriteTimeout: 120 * time.Second, RequestTimeout: 60 * time.Second}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	if srv.WriteTimeout() != 120*time.Second {
		t.Fatalf("WriteTimeout = %v, want 120s", srv.WriteTimeout())
	}
}
