package syncer

import (
	"context"
	"errors"
	"smd/internal/models"
	"smd/internal/structures"
	"smd/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triggerConfig(token string) *structures.Config {
	return &structures.Config{
		Gateway: structures.GatewayConfig{
			BaseURL: "http://localhost:8000",
			Token:   token,
		},
		Aggregation: structures.AggregationConfig{
			RefetchDelay: 10 * time.Millisecond,
		},
	}
}

func newTestTrigger(conf *structures.Config, gw *testutil.MockGateway) (*Trigger, *testutil.MockDashboardService, *testutil.MockMetrics) {
	service := testutil.NewMockDashboardService()
	metrics := testutil.NewMockMetrics()
	tr := NewTrigger(conf, &testutil.MockLogger{}, gw, service, metrics)
	return tr.(*Trigger), service, metrics
}

func TestTrigger_Success(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.TriggerSyncFn = func(_ context.Context, _ string) (*models.SyncResult, error) {
		return &models.SyncResult{Message: "Sync started", SyncCount: 2}, nil
	}
	tr, service, metrics := newTestTrigger(triggerConfig(""), gw)

	result, err := tr.Trigger(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 2, result.SyncCount)
	assert.Equal(t, 1, metrics.SyncTriggerCount("ok"))

	// Optimistic local update.
	status := tr.Status()
	assert.Equal(t, 2, status.SyncCount)
	assert.False(t, status.SyncLimitStat)
	assert.Equal(t, models.DefaultSyncMaxLimit, status.MaxLimit)
	require.NotNil(t, status.LastSyncTime)

	// The delayed refetch fires.
	assert.True(t, service.WaitWarmUp(time.Second))
}

func TestTrigger_LimitBlocksWithoutNetworkCall(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.TriggerSyncFn = func(_ context.Context, _ string) (*models.SyncResult, error) {
		return &models.SyncResult{SyncCount: 3, LimitReached: true}, nil
	}
	tr, service, metrics := newTestTrigger(triggerConfig(""), gw)

	_, err := tr.Trigger(context.Background(), "t")
	require.NoError(t, err)
	require.True(t, tr.Status().SyncLimitStat)
	require.True(t, service.WaitWarmUp(time.Second))

	_, err = tr.Trigger(context.Background(), "t")
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, 1, gw.CallCount("TriggerSync"))
	assert.Equal(t, 1, metrics.SyncTriggerCount("blocked"))
}

func TestTrigger_OverlapRejected(t *testing.T) {
	release := make(chan struct{})
	gw := testutil.NewMockGateway()
	gw.TriggerSyncFn = func(_ context.Context, _ string) (*models.SyncResult, error) {
		<-release
		return &models.SyncResult{SyncCount: 1}, nil
	}
	tr, _, metrics := newTestTrigger(triggerConfig(""), gw)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Trigger(context.Background(), "t")
		done <- err
	}()

	// Wait until the first trigger is inside the gateway call.
	require.Eventually(t, func() bool {
		return gw.CallCount("TriggerSync") == 1
	}, time.Second, time.Millisecond)

	_, err := tr.Trigger(context.Background(), "t")
	assert.ErrorIs(t, err, ErrSyncInFlight)
	assert.Equal(t, 1, metrics.SyncTriggerCount("overlap"))

	close(release)
	require.NoError(t, <-done)
}

func TestTrigger_ErrorStillSchedulesRefetch(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.TriggerSyncFn = func(_ context.Context, _ string) (*models.SyncResult, error) {
		return nil, errors.New("connection reset")
	}
	tr, service, metrics := newTestTrigger(triggerConfig(""), gw)

	_, err := tr.Trigger(context.Background(), "t")
	require.Error(t, err)
	assert.Equal(t, 1, metrics.SyncTriggerCount("error"))

	// Local state untouched by the failure.
	assert.Equal(t, 0, tr.Status().SyncCount)
	assert.Nil(t, tr.Status().LastSyncTime)

	// The gateway may have started the sync anyway; a refetch is still
	// scheduled.
	assert.True(t, service.WaitWarmUp(time.Second))
}

func TestRefreshStatus_ServerOverwritesOptimisticState(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.TriggerSyncFn = func(_ context.Context, _ string) (*models.SyncResult, error) {
		return &models.SyncResult{SyncCount: 3, LimitReached: true}, nil
	}
	gw.SyncStatusFn = func(_ context.Context, token string) (*models.SyncStatus, error) {
		assert.Equal(t, "service-token", token)
		return &models.SyncStatus{SyncCount: 0, SyncLimitStat: false, MaxLimit: 3}, nil
	}
	tr, service, _ := newTestTrigger(triggerConfig("service-token"), gw)

	_, err := tr.Trigger(context.Background(), "t")
	require.NoError(t, err)
	require.True(t, tr.Status().SyncLimitStat)
	require.True(t, service.WaitWarmUp(time.Second))

	// Cooldown expired server-side; the poll clears the local gate.
	tr.RefreshStatus(context.Background())
	assert.False(t, tr.Status().SyncLimitStat)
	assert.Equal(t, 0, tr.Status().SyncCount)

	_, err = tr.Trigger(context.Background(), "t")
	assert.NoError(t, err)
}

func TestRefreshStatus_NoTokenSkipsPoll(t *testing.T) {
	gw := testutil.NewMockGateway()
	tr, _, _ := newTestTrigger(triggerConfig(""), gw)

	tr.RefreshStatus(context.Background())

	assert.Equal(t, 0, gw.CallCount("SyncStatus"))
}

func TestRefreshStatus_PollErrorKeepsLocalState(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.SyncStatusFn = func(_ context.Context, _ string) (*models.SyncStatus, error) {
		return nil, errors.New("gateway down")
	}
	tr, _, _ := newTestTrigger(triggerConfig("service-token"), gw)

	before := tr.Status()
	tr.RefreshStatus(context.Background())
	assert.Equal(t, before, tr.Status())
}

func TestStatusFor_LiveReadWins(t *testing.T) {
	last := "2026-08-29T10:00:00Z"
	gw := testutil.NewMockGateway()
	gw.SyncStatusFn = func(_ context.Context, token string) (*models.SyncStatus, error) {
		assert.Equal(t, "user-token", token)
		return &models.SyncStatus{SyncCount: 2, SyncLimitStat: false, LastSyncTime: &last, MaxLimit: 3}, nil
	}
	tr, _, _ := newTestTrigger(triggerConfig(""), gw)

	status := tr.StatusFor(context.Background(), "user-token")
	assert.Equal(t, 2, status.SyncCount)

	// The live read also refreshed the local copy.
	assert.Equal(t, 2, tr.Status().SyncCount)
}

func TestStatusFor_FallsBackToLocalCopy(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.SyncStatusFn = func(_ context.Context, _ string) (*models.SyncStatus, error) {
		return nil, errors.New("gateway down")
	}
	tr, _, _ := newTestTrigger(triggerConfig(""), gw)

	status := tr.StatusFor(context.Background(), "user-token")
	assert.Equal(t, models.DefaultSyncStatus(), status)
}
