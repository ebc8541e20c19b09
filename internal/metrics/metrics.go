package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// GenerationsTotal counts finished generation requests by provider and outcome
	// (primary, repaired, failed, timeout).
	GenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "productcopy",
		Subsystem: "describe",
		Name:      "generations_total",
		Help:      "Total number of product copy generations, labeled by provider and outcome.",
	}, []string{"provider", "outcome"})

	// FallbacksTotal counts repair-model invocations by trigger reason.
	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "productcopy",
		Subsystem: "describe",
		Name:      "fallbacks_total",
		Help:      "Total number of repair-model calls, labeled by the reason the primary output was rejected.",
	}, []string{"reason"})

	// UpstreamDurationSeconds is wall time per upstream model call.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "productcopy",
		Subsystem: "upstream",
		Name:      "call_duration_seconds",
		Help:      "Duration of upstream model calls, labeled by provider, stage (primary|repair) and result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider", "stage", "result"})

	// RelayTotal counts background replacement relay calls by result.
	RelayTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "productcopy",
		Subsystem: "background",
		Name:      "relay_total",
		Help:      "Total number of background replacement relay calls, labeled by result.",
	}, []string{"result"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			GenerationsTotal,
			FallbacksTotal,
			UpstreamDurationSeconds,
			RelayTotal,
		)
	})
}

// Result maps an error to the "ok"/"error" label used by the histograms.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
