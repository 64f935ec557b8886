package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Balances
	BalanceUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_balance_updates_total",
			Help: "Balance updates by direction and result",
		},
		[]string{"direction", "result"}, // add|sub, ok|rejected|error
	)

	// Rate provider
	RateLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_rate_lookups_total",
			Help: "Exchange rate lookups by result",
		},
		[]string{"result"}, // ok|unsupported|transient
	)
	RateLookupLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wallet_rate_lookup_latency_seconds",
			Help:    "Latency of exchange rate lookups.",
			Buckets: prometheus.DefBuckets,
		},
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPLatency)
		prometheus.MustRegister(BalanceUpdatesTotal)
		prometheus.MustRegister(RateLookupsTotal)
		prometheus.MustRegister(RateLookupLatency)
		prometheus.MustRegister(RateLimitedTotal)
	})
}
