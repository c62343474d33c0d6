package gateway

import (
	"context"
	"errors"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/structures"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerClient guards the gateway with a circuit breaker so a dead or
// slow gateway fails fast instead of stacking up timed-out requests.
// 4xx responses are the gateway doing its job (auth, rate limit) and do
// not count as failures; network errors and 5xx do.
type BreakerClient struct {
	inner  GatewayInterface
	cb     *gobreaker.CircuitBreaker[any]
	logger providers.Logger
}

func newBreaker(logger providers.Logger) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "integration-gateway",
		MaxRequests: 2,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(providers.TypeGateway, "Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// NewGatewayProvider builds the gateway client, breaker-wrapped when
// enabled in config.
func NewGatewayProvider(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) GatewayInterface {
	client := NewClient(conf, logger, metrics)
	if !conf.Gateway.Breaker {
		return client
	}
	return &BreakerClient{
		inner:  client,
		cb:     newBreaker(logger),
		logger: logger,
	}
}

func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (b *BreakerClient) ListAccounts(ctx context.Context, token string) ([]models.Account, error) {
	return execute(b, func() ([]models.Account, error) {
		return b.inner.ListAccounts(ctx, token)
	})
}

func (b *BreakerClient) AccountMetrics(ctx context.Context, token string, platform models.Platform, accountID string) ([]models.Payload, error) {
	return execute(b, func() ([]models.Payload, error) {
		return b.inner.AccountMetrics(ctx, token, platform, accountID)
	})
}

func (b *BreakerClient) CustomRange(ctx context.Context, token, startDate, endDate string) ([]models.MetricItem, error) {
	return execute(b, func() ([]models.MetricItem, error) {
		return b.inner.CustomRange(ctx, token, startDate, endDate)
	})
}

func (b *BreakerClient) TriggerSync(ctx context.Context, token string) (*models.SyncResult, error) {
	return execute(b, func() (*models.SyncResult, error) {
		return b.inner.TriggerSync(ctx, token)
	})
}

func (b *BreakerClient) SyncStatus(ctx context.Context, token string) (*models.SyncStatus, error) {
	return execute(b, func() (*models.SyncStatus, error) {
		return b.inner.SyncStatus(ctx, token)
	})
}

func (b *BreakerClient) RemoveIntegration(ctx context.Context, token string, platform models.Platform, accountID string) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.RemoveIntegration(ctx, token, platform, accountID)
	})
	return err
}

func (b *BreakerClient) ConnectURL(ctx context.Context, token string, platform models.Platform) (string, error) {
	return execute(b, func() (string, error) {
		return b.inner.ConnectURL(ctx, token, platform)
	})
}
