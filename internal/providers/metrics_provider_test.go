package providers

import (
	"smd/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsConfig(enabled bool) *structures.Config {
	return &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: enabled},
	}
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	provider := NewMetricsProvider(metricsConfig(false))
	assert.IsType(t, &noopMetrics{}, provider)

	// All methods are safe no-ops.
	provider.IncRequestsTotal("/dashboard", 200)
	provider.ObserveRequestDuration("/dashboard", time.Millisecond)
	provider.IncGatewayRequests("/integrations", 200)
	provider.ObserveAggregationDuration("7d", time.Second)
	provider.IncCacheHits()
	provider.IncCacheMisses()
	provider.IncSyncTriggers("ok")
	provider.SetAccountsTotal(5)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	// Swap in a fresh registry so promauto registration does not collide
	// with other tests.
	registry := prometheus.NewRegistry()
	origRegisterer := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	defer func() {
		prometheus.DefaultRegisterer = origRegisterer
		prometheus.DefaultGatherer = origGatherer
	}()

	provider := NewMetricsProvider(metricsConfig(true))
	assert.IsType(t, &MetricsProvider{}, provider)

	provider.IncRequestsTotal("/dashboard", 200)
	provider.ObserveRequestDuration("/dashboard", 10*time.Millisecond)
	provider.IncGatewayRequests("/integrations", 502)
	provider.ObserveAggregationDuration("30d", time.Second)
	provider.IncCacheHits()
	provider.IncCacheMisses()
	provider.IncSyncTriggers("blocked")
	provider.SetAccountsTotal(7)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["smd_requests_total"])
	assert.True(t, names["smd_gateway_requests_total"])
	assert.True(t, names["smd_aggregation_duration_seconds"])
	assert.True(t, names["smd_sync_triggers_total"])
	assert.True(t, names["smd_accounts_total"])
}

func TestHttpStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(0))
	assert.Equal(t, "2xx", httpStatusBucket(204))
	assert.Equal(t, "3xx", httpStatusBucket(302))
	assert.Equal(t, "4xx", httpStatusBucket(429))
	assert.Equal(t, "5xx", httpStatusBucket(502))
}
