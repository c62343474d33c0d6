package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"smd/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncGatewayRequests(endpoint string, status int)
	ObserveAggregationDuration(timeRange string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncSyncTriggers(result string)
	SetAccountsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	gatewayRequests     *prometheus.CounterVec
	aggregationDuration *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	syncTriggers        *prometheus.CounterVec
	accountsTotal       prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncGatewayRequests(endpoint string, status int) {
	m.gatewayRequests.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveAggregationDuration(timeRange string, duration time.Duration) {
	m.aggregationDuration.WithLabelValues(timeRange).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncSyncTriggers(result string) {
	m.syncTriggers.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetAccountsTotal(count int) {
	m.accountsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "smd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		gatewayRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "smd_gateway_requests_total",
			Help: "Total number of requests issued to the integration gateway",
		}, []string{"endpoint", "status"}),

		aggregationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smd_aggregation_duration_seconds",
			Help:    "Duration of metrics aggregation fan-outs in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"range"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		syncTriggers: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "smd_sync_triggers_total",
			Help: "Total number of sync trigger attempts by outcome",
		}, []string{"result"}),

		accountsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "smd_accounts_total",
			Help: "Number of connected accounts seen by the last aggregation",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncGatewayRequests(_ string, _ int)                   {}
func (n *noopMetrics) ObserveAggregationDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                        {}
func (n *noopMetrics) IncCacheMisses()                                      {}
func (n *noopMetrics) IncSyncTriggers(_ string)                             {}
func (n *noopMetrics) SetAccountsTotal(_ int)                               {}
