package syncer

import (
	"context"
	"errors"
	"smd/internal/gateway"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/services"
	"smd/internal/structures"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrLimitReached gates triggers client-side once the gateway reported
// the limit flag; no request is sent until a poll clears it.
var ErrLimitReached = errors.New("sync limit reached, cooldown active")

// ErrSyncInFlight rejects overlapping triggers; one sync per session.
var ErrSyncInFlight = errors.New("sync already in progress")

const refetchTimeout = time.Minute

type TriggerInterface interface {
	Trigger(ctx context.Context, token string) (*models.SyncResult, error)
	Status() models.SyncStatus
	StatusFor(ctx context.Context, token string) models.SyncStatus
	RefreshStatus(ctx context.Context)
}

// Trigger drives the client-observed sync state machine: Idle while
// nothing is in flight, Syncing while a trigger request runs, and
// cooldown-blocked once sync_limit_stat is set. The limit counter is
// owned by the gateway; the local copy is updated optimistically after
// a successful trigger and overwritten wholesale by every poll.
type Trigger struct {
	conf    *structures.Config
	logger  providers.Logger
	gw      gateway.GatewayInterface
	service services.DashboardServiceInterface
	metrics providers.MetricsProviderInterface

	syncing atomic.Bool

	mu          sync.RWMutex
	status      models.SyncStatus
	statusKnown bool
}

func NewTrigger(conf *structures.Config, logger providers.Logger, gw gateway.GatewayInterface, service services.DashboardServiceInterface, metrics providers.MetricsProviderInterface) TriggerInterface {
	return &Trigger{
		conf:    conf,
		logger:  logger,
		gw:      gw,
		service: service,
		metrics: metrics,
		status:  models.DefaultSyncStatus(),
	}
}

func (t *Trigger) Trigger(ctx context.Context, token string) (*models.SyncResult, error) {
	if t.Status().SyncLimitStat {
		t.metrics.IncSyncTriggers("blocked")
		return nil, ErrLimitReached
	}
	if !t.syncing.CompareAndSwap(false, true) {
		t.metrics.IncSyncTriggers("overlap")
		return nil, ErrSyncInFlight
	}
	defer t.syncing.Store(false)

	result, err := t.gw.TriggerSync(ctx, token)
	if err != nil {
		t.metrics.IncSyncTriggers("error")
		t.logger.Warnf(providers.TypeSync, "Sync trigger failed: %s", err)
		// The gateway may have started the sync before the connection
		// died; refetch anyway, best effort.
		t.scheduleRefetch(token)
		return nil, err
	}

	t.applyResult(result)
	t.metrics.IncSyncTriggers("ok")
	t.logger.Infof(providers.TypeSync, "Sync triggered: %d/%d used, limit_reached=%t", result.SyncCount, t.Status().MaxLimit, result.LimitReached)
	t.scheduleRefetch(token)

	return result, nil
}

// applyResult is the optimistic local update; the next poll reconciles
// it with the gateway's authoritative state.
func (t *Trigger) applyResult(result *models.SyncResult) {
	now := time.Now().UTC().Format(time.RFC3339)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.SyncCount = result.SyncCount
	t.status.SyncLimitStat = result.LimitReached
	t.status.LastSyncTime = &now
	if t.status.MaxLimit <= 0 {
		t.status.MaxLimit = models.DefaultSyncMaxLimit
	}
	t.statusKnown = true
}

// scheduleRefetch re-fetches metrics after a short propagation delay
// instead of trusting any metrics embedded in the sync response.
func (t *Trigger) scheduleRefetch(token string) {
	time.AfterFunc(t.conf.Aggregation.RefetchDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
		defer cancel()
		t.service.WarmUp(ctx, token)
	})
}

func (t *Trigger) Status() models.SyncStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// StatusFor serves the freshest status available for a caller: a live
// gateway read when possible, else the poll-reconciled local copy.
func (t *Trigger) StatusFor(ctx context.Context, token string) models.SyncStatus {
	status, err := t.gw.SyncStatus(ctx, token)
	if err != nil {
		t.logger.Debugf(providers.TypeSync, "Live status fetch failed, serving local copy: %s", err)
		return t.Status()
	}
	t.store(*status)
	return *status
}

// RefreshStatus is the periodic poll. Any successful poll overwrites
// local optimistic state; the server wins and inconsistency is bounded
// by the poll interval.
func (t *Trigger) RefreshStatus(ctx context.Context) {
	token := t.conf.Gateway.Token
	if token == "" {
		t.logger.Debugf(providers.TypeSync, "No gateway token configured, skipping status poll")
		return
	}

	status, err := t.gw.SyncStatus(ctx, token)
	if err != nil {
		t.logger.Warnf(providers.TypeSync, "Status poll failed: %s", err)
		return
	}
	t.store(*status)
}

func (t *Trigger) store(status models.SyncStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	t.statusKnown = true
}
