package testutil

import (
	"context"
	"smd/internal/models"
	"smd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were recorded at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// observations.
type MockMetrics struct {
	mu           sync.Mutex
	SyncTriggers map[string]int
	Accounts     int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{SyncTriggers: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (m *MockMetrics) IncGatewayRequests(_ string, _ int)                   {}
func (m *MockMetrics) ObserveAggregationDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                        {}
func (m *MockMetrics) IncCacheMisses()                                      {}

func (m *MockMetrics) IncSyncTriggers(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncTriggers[result]++
}

func (m *MockMetrics) SetAccountsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts = count
}

func (m *MockMetrics) SyncTriggerCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SyncTriggers[result]
}

// MockGateway implements gateway.GatewayInterface with injectable
// behavior and per-method call counters.
type MockGateway struct {
	mu    sync.Mutex
	Calls map[string]int

	ListAccountsFn      func(ctx context.Context, token string) ([]models.Account, error)
	AccountMetricsFn    func(ctx context.Context, token string, platform models.Platform, accountID string) ([]models.Payload, error)
	CustomRangeFn       func(ctx context.Context, token, startDate, endDate string) ([]models.MetricItem, error)
	TriggerSyncFn       func(ctx context.Context, token string) (*models.SyncResult, error)
	SyncStatusFn        func(ctx context.Context, token string) (*models.SyncStatus, error)
	RemoveIntegrationFn func(ctx context.Context, token string, platform models.Platform, accountID string) error
	ConnectURLFn        func(ctx context.Context, token string, platform models.Platform) (string, error)
}

func NewMockGateway() *MockGateway {
	return &MockGateway{Calls: make(map[string]int)}
}

func (m *MockGateway) count(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
}

func (m *MockGateway) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockGateway) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		n += c
	}
	return n
}

func (m *MockGateway) ListAccounts(ctx context.Context, token string) ([]models.Account, error) {
	m.count("ListAccounts")
	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(ctx, token)
	}
	return nil, nil
}

func (m *MockGateway) AccountMetrics(ctx context.Context, token string, platform models.Platform, accountID string) ([]models.Payload, error) {
	m.count("AccountMetrics")
	if m.AccountMetricsFn != nil {
		return m.AccountMetricsFn(ctx, token, platform, accountID)
	}
	return nil, nil
}

func (m *MockGateway) CustomRange(ctx context.Context, token, startDate, endDate string) ([]models.MetricItem, error) {
	m.count("CustomRange")
	if m.CustomRangeFn != nil {
		return m.CustomRangeFn(ctx, token, startDate, endDate)
	}
	return nil, nil
}

func (m *MockGateway) TriggerSync(ctx context.Context, token string) (*models.SyncResult, error) {
	m.count("TriggerSync")
	if m.TriggerSyncFn != nil {
		return m.TriggerSyncFn(ctx, token)
	}
	return &models.SyncResult{SyncCount: 1}, nil
}

func (m *MockGateway) SyncStatus(ctx context.Context, token string) (*models.SyncStatus, error) {
	m.count("SyncStatus")
	if m.SyncStatusFn != nil {
		return m.SyncStatusFn(ctx, token)
	}
	status := models.DefaultSyncStatus()
	return &status, nil
}

func (m *MockGateway) RemoveIntegration(ctx context.Context, token string, platform models.Platform, accountID string) error {
	m.count("RemoveIntegration")
	if m.RemoveIntegrationFn != nil {
		return m.RemoveIntegrationFn(ctx, token, platform, accountID)
	}
	return nil
}

func (m *MockGateway) ConnectURL(ctx context.Context, token string, platform models.Platform) (string, error) {
	m.count("ConnectURL")
	if m.ConnectURLFn != nil {
		return m.ConnectURLFn(ctx, token, platform)
	}
	return "", nil
}

// MockDashboardService implements services.DashboardServiceInterface.
type MockDashboardService struct {
	mu          sync.Mutex
	RowsFn      func(ctx context.Context, token string, sel models.Selection) ([]models.Row, error)
	WarmUpCalls int
	Invalidated int
	Snapshot    *models.Snapshot
	Restored    *models.Snapshot
	Accounts    int
	warmedUp    chan struct{}
}

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{warmedUp: make(chan struct{}, 16)}
}

func (m *MockDashboardService) Rows(ctx context.Context, token string, sel models.Selection) ([]models.Row, error) {
	if m.RowsFn != nil {
		return m.RowsFn(ctx, token, sel)
	}
	return nil, nil
}

func (m *MockDashboardService) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated++
}

func (m *MockDashboardService) WarmUp(_ context.Context, _ string) {
	m.mu.Lock()
	m.WarmUpCalls++
	m.mu.Unlock()
	m.warmedUp <- struct{}{}
}

// WaitWarmUp blocks until a WarmUp call happens or the timeout expires.
func (m *MockDashboardService) WaitWarmUp(timeout time.Duration) bool {
	select {
	case <-m.warmedUp:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (m *MockDashboardService) WarmUpCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WarmUpCalls
}

func (m *MockDashboardService) LastAccountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Accounts
}

func (m *MockDashboardService) GetSnapshot() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot != nil {
		return m.Snapshot
	}
	return &models.Snapshot{Items: make(map[string][]models.MetricItem)}
}

func (m *MockDashboardService) RestoreSnapshot(snap *models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = snap
}
