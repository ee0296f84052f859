package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Validation metrics
	ValidationsTotal   *prometheus.CounterVec
	ViolationsTotal    *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	TransferAmountUSD  prometheus.Histogram

	// Upstream status source metrics
	StatusFetches       *prometheus.CounterVec
	StatusFetchDuration *prometheus.HistogramVec
	StatusCacheHits     prometheus.Counter
	StatusCacheMisses   prometheus.Counter

	// Refresher metrics
	RefreshRuns   prometheus.Counter
	RefreshErrors *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridgecheck_validations_total",
				Help: "Total transfer validations by token and outcome",
			},
			[]string{"token", "outcome"},
		),
		ViolationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridgecheck_violations_total",
				Help: "Total violations reported by kind",
			},
			[]string{"token", "kind"},
		),
		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bridgecheck_validation_duration_seconds",
			Help:    "Duration of validations including upstream lookups",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmountUSD: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bridgecheck_transfer_amount_usd",
			Help:    "USD value of validated transfers",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		StatusFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridgecheck_status_fetches_total",
				Help: "Total upstream fetches by resource and status",
			},
			[]string{"resource", "status"},
		),
		StatusFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridgecheck_status_fetch_duration_seconds",
				Help:    "Upstream fetch duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		StatusCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridgecheck_status_cache_hits_total",
			Help: "Bridge status lookups served from cache",
		}),
		StatusCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridgecheck_status_cache_misses_total",
			Help: "Bridge status lookups that went upstream",
		}),

		RefreshRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridgecheck_status_refresh_runs_total",
			Help: "Total status refresh cycles",
		}),
		RefreshErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridgecheck_status_refresh_errors_total",
				Help: "Status refresh failures by token",
			},
			[]string{"token"},
		),
	}
}
