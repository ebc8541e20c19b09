package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()

	err := prometheus.Register(GenerationsTotal)
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		t.Fatalf("Register() should have registered GenerationsTotal, got %v", err)
	}
}

func TestCountersByLabel(t *testing.T) {
	before := testutil.ToFloat64(FallbacksTotal.WithLabelValues("parse_payload"))
	FallbacksTotal.WithLabelValues("parse_payload").Inc()
	if got := testutil.ToFloat64(FallbacksTotal.WithLabelValues("parse_payload")); got != before+1 {
		t.Fatalf("fallbacks = %v, want %v", got, before+1)
	}
}

func TestResult(t *testing.T) {
	if Result(nil) != "ok" || Result(errors.New("x")) != "error" {
		t.Fatal("unexpected Result labels")
	}
}
