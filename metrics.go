package envdep

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAbsent     = "absent"
	outcomeIntegrated = "integrated"
	outcomeFailed     = "failed"
)

var (
	integrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envdep_integrations_total",
		Help: "Integration attempts, partitioned by container and outcome (absent, integrated, failed).",
	}, []string{"container", "outcome"})

	hookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "envdep_hook_duration_seconds",
		Help:    "Time spent running an integration's setup hook.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"container"})
)
