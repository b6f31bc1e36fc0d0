package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultNamespace = "fitcourses"
	DefaultSubsystem = "client"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterCacheHits           *prometheus.CounterVec
	CounterCacheMisses         *prometheus.CounterVec
	CounterCacheClears         prometheus.Counter
	CounterOfflineFallbacks    *prometheus.CounterVec
	CounterRateLimitedRequests prometheus.Counter
	CounterAuthEvents          *prometheus.CounterVec
	CounterHandlerPanics       prometheus.Counter

	// gauges
	GaugeInFlightRequests prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager(DefaultNamespace, "test_client", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(DefaultNamespace, "test_client", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_requests",
		Help:      "The total number of API requests by method and status",
	}, []string{"method", "status"})
	counterCacheHits := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_hits",
		Help:      "The total number of response cache hits",
	}, []string{"tier"})
	counterCacheMisses := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_misses",
		Help:      "The total number of response cache misses",
	}, []string{"tier"})
	counterCacheClears := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_clears",
		Help:      "The total number of response cache invalidations",
	})
	counterOfflineFallbacks := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "offline_fallbacks",
		Help:      "The total number of results served from stale or shadow data",
	}, []string{"resource"})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of requests delayed by the client side rate limiter",
	})
	counterAuthEvents := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "auth_events",
		Help:      "Login, register and logout attempts by outcome",
	}, []string{"event", "outcome"})
	counterHandlerPanics := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handler_panics",
		Help:      "The total number of recovered panics in http handlers",
	})

	gaugeInFlightRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "in_flight_requests",
		Help:      "Current number of API requests in flight",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "Histogram of API response time in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "status"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterCacheHits:           counterCacheHits,
		CounterCacheMisses:         counterCacheMisses,
		CounterCacheClears:         counterCacheClears,
		CounterOfflineFallbacks:    counterOfflineFallbacks,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterAuthEvents:          counterAuthEvents,
		CounterHandlerPanics:       counterHandlerPanics,
		GaugeInFlightRequests:      gaugeInFlightRequests,
		HistogramRequestDuration:   histogramRequestDuration,
	}
}
