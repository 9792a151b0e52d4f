// Package metrics provides Prometheus metrics for the ranking service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of ranking runs
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager holds the collectors of one registry.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Ranking runs
	rankings        *prometheus.CounterVec
	rankingDuration prometheus.Histogram
	playersRanked   prometheus.Counter
	playersStruck   prometheus.Counter
	sharedRanks     prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// NewManager creates the collectors on a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "ttrank",
		// Ranking a group takes micro- to milliseconds
		histogramBuckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rankings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rankings_total",
		Help:      "Total number of ranking runs by outcome",
	}, []string{"outcome"})

	m.rankingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "ranking_duration_seconds",
		Help:      "Time spent building and ranking one competition",
		Buckets:   m.histogramBuckets,
	})

	m.playersRanked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "players_ranked_total",
		Help:      "Total number of players that were ranked",
	})

	m.playersStruck = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "players_struck_total",
		Help:      "Total number of players that were struck for giving up too many sets",
	})

	m.sharedRanks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "shared_ranks_total",
		Help:      "Total number of ranks that no criterion could break",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

// RecordRanking records a successful ranking run.
func (m *Manager) RecordRanking(duration time.Duration, ranked, struck, shared int) {
	m.rankings.WithLabelValues(OutcomeOK).Inc()
	m.rankingDuration.Observe(duration.Seconds())
	m.playersRanked.Add(float64(ranked))
	m.playersStruck.Add(float64(struck))
	m.sharedRanks.Add(float64(shared))
}

// RecordRankingError records a ranking run that failed.
func (m *Manager) RecordRankingError() {
	m.rankings.WithLabelValues(OutcomeError).Inc()
}

// RecordHTTPRequest records a served request.
func (m *Manager) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry returns the registry that the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics of the registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
