package services

import (
	"context"
	"hash/fnv"
	"smd/internal/gateway"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/structures"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

type DashboardServiceInterface interface {
	Rows(ctx context.Context, token string, sel models.Selection) ([]models.Row, error)
	Invalidate()
	WarmUp(ctx context.Context, token string)
	LastAccountCount() int
	GetSnapshot() *models.Snapshot
	RestoreSnapshot(snap *models.Snapshot)
}

// DashboardService aggregates per-account metrics from the gateway and
// projects them into display rows. Fixed-window results are cached for
// the configured staleness tolerance; custom ranges always go to the
// gateway. A monotonic request generation enforces last-request-wins:
// a slow fan-out that finishes after a newer one started is discarded
// instead of overwriting fresher state.
type DashboardService struct {
	conf    *structures.Config
	logger  providers.Logger
	gw      gateway.GatewayInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface

	cacheGen atomic.Uint64
	reqGen   atomic.Uint64
	accounts atomic.Int64

	mu   sync.RWMutex
	last map[string][]models.MetricItem
}

func NewDashboardService(conf *structures.Config, logger providers.Logger, gw gateway.GatewayInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) DashboardServiceInterface {
	return &DashboardService{
		conf:    conf,
		logger:  logger,
		gw:      gw,
		cache:   cache,
		metrics: metrics,
		last:    make(map[string][]models.MetricItem),
	}
}

func (s *DashboardService) Rows(ctx context.Context, token string, sel models.Selection) ([]models.Row, error) {
	items, err := s.fetchItems(ctx, token, sel)
	if err != nil {
		return nil, err
	}
	rows := make([]models.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.ProjectRow(item, sel))
	}
	return rows, nil
}

func (s *DashboardService) fetchItems(ctx context.Context, token string, sel models.Selection) ([]models.MetricItem, error) {
	if sel.Range == models.RangeCustom && sel.Custom != nil {
		start := time.Now()
		items, err := s.gw.CustomRange(ctx, token, sel.Custom.Start, sel.Custom.End)
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveAggregationDuration(string(sel.Range), time.Since(start))
		return items, nil
	}

	cacheKey := s.cacheKey(token, sel)
	if data, ok := s.cache.Get(cacheKey); ok {
		var items []models.MetricItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	reqID := s.reqGen.Inc()
	start := time.Now()

	accounts, err := s.gw.ListAccounts(ctx, token)
	if err != nil {
		s.logger.Warnf(providers.TypeGateway, "Account list fetch failed: %s", err)
		return []models.MetricItem{}, nil
	}
	if len(accounts) == 0 {
		return []models.MetricItem{}, nil
	}

	s.accounts.Store(int64(len(accounts)))
	s.metrics.SetAccountsTotal(len(accounts))

	items := s.fanOut(ctx, token, accounts)
	s.metrics.ObserveAggregationDuration(string(sel.Range), time.Since(start))

	// A newer request started while this one was in flight; its result
	// owns the cache now.
	if s.reqGen.Load() != reqID {
		return items, nil
	}

	if data, err := json.Marshal(items); err == nil {
		s.cache.Set(cacheKey, data)
	}
	s.mu.Lock()
	s.last[sel.Key()] = items
	s.mu.Unlock()

	return items, nil
}

// fanOut fetches every account's metrics concurrently, preserving
// account-list order. A failed or empty fetch degrades that account to
// the zero-valued payload; it never aborts the others.
func (s *DashboardService) fanOut(ctx context.Context, token string, accounts []models.Account) []models.MetricItem {
	items := make([]models.MetricItem, len(accounts))

	var wg sync.WaitGroup
	for i, acc := range accounts {
		wg.Add(1)
		go func(i int, acc models.Account) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.conf.Aggregation.AccountTimeout)
			defer cancel()

			data := models.DefaultPayload()
			snapshots, err := s.gw.AccountMetrics(fetchCtx, token, acc.Platform, acc.AccountID)
			switch {
			case err != nil:
				s.logger.Warnf(providers.TypeGateway, "Metrics fetch failed for %s/%s: %s", acc.Platform, acc.AccountID, err)
			case len(snapshots) > 0:
				data = snapshots[0]
			}

			items[i] = models.MetricItem{
				AccountName: acc.DisplayName(),
				Platform:    acc.Platform,
				Data:        data,
			}
		}(i, acc)
	}
	wg.Wait()

	return items
}

// Invalidate drops all cached rows by rotating the cache generation;
// entries under the old generation age out of freecache on their own.
func (s *DashboardService) Invalidate() {
	s.cacheGen.Inc()
}

// WarmUp refreshes both fixed windows after a sync, replacing whatever
// the cache held with post-sync data.
func (s *DashboardService) WarmUp(ctx context.Context, token string) {
	s.Invalidate()
	for _, r := range []models.TimeRange{models.Range7d, models.Range30d} {
		if _, err := s.fetchItems(ctx, token, models.NewSelection(r)); err != nil {
			s.logger.Warnf(providers.TypeGateway, "Warm-up fetch for %s failed: %s", r, err)
		}
	}
}

func (s *DashboardService) LastAccountCount() int {
	return int(s.accounts.Load())
}

func (s *DashboardService) GetSnapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string][]models.MetricItem, len(s.last))
	for k, v := range s.last {
		items[k] = v
	}
	return &models.Snapshot{
		SavedAt: time.Now().UTC(),
		Items:   items,
	}
}

// RestoreSnapshot reloads the last persisted aggregation and primes the
// row cache for the service token, so dashboards have data right after
// a restart. Normal staleness rules apply: entries age out after the
// cache TTL and the next request refetches.
func (s *DashboardService) RestoreSnapshot(snap *models.Snapshot) {
	if snap == nil || len(snap.Items) == 0 {
		return
	}

	s.mu.Lock()
	s.last = make(map[string][]models.MetricItem, len(snap.Items))
	for k, v := range snap.Items {
		s.last[k] = v
	}
	s.mu.Unlock()

	if s.conf.Gateway.Token == "" {
		return
	}
	for _, r := range []models.TimeRange{models.Range7d, models.Range30d} {
		sel := models.NewSelection(r)
		if items, ok := snap.Items[sel.Key()]; ok {
			if data, err := json.Marshal(items); err == nil {
				s.cache.Set(s.cacheKey(s.conf.Gateway.Token, sel), data)
			}
		}
	}
}

// cacheKey scopes cached rows by generation, range, and token so one
// user's rows never serve another's request.
func (s *DashboardService) cacheKey(token string, sel models.Selection) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return "rows:" + strconv.FormatUint(s.cacheGen.Load(), 10) + ":" + sel.Key() + ":" + strconv.FormatUint(uint64(h.Sum32()), 16)
}
