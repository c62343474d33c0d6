package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/structures"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// GatewayInterface covers the Backend Integration Gateway surface. The
// gateway owns OAuth, the sync rate-limit state, and stored metrics;
// every call carries the caller's bearer token explicitly.
type GatewayInterface interface {
	ListAccounts(ctx context.Context, token string) ([]models.Account, error)
	AccountMetrics(ctx context.Context, token string, platform models.Platform, accountID string) ([]models.Payload, error)
	CustomRange(ctx context.Context, token, startDate, endDate string) ([]models.MetricItem, error)
	TriggerSync(ctx context.Context, token string) (*models.SyncResult, error)
	SyncStatus(ctx context.Context, token string) (*models.SyncStatus, error)
	RemoveIntegration(ctx context.Context, token string, platform models.Platform, accountID string) error
	ConnectURL(ctx context.Context, token string, platform models.Platform) (string, error)
}

// APIError is a non-2xx gateway response. Detail carries the server's
// human-readable message when one was provided.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("gateway responded with status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	limit := rate.Inf
	burst := 0
	if conf.Gateway.RequestsPerSecond > 0 {
		limit = rate.Limit(conf.Gateway.RequestsPerSecond)
		burst = max(conf.Gateway.Burst, 1)
	}
	return &Client{
		baseURL: conf.Gateway.BaseURL,
		httpClient: &http.Client{
			Timeout: conf.Gateway.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Client) ListAccounts(ctx context.Context, token string) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.do(ctx, http.MethodGet, "/integrations", token, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// AccountMetrics returns stored snapshots newest first; callers use
// only the head.
func (c *Client) AccountMetrics(ctx context.Context, token string, platform models.Platform, accountID string) ([]models.Payload, error) {
	path := "/metrics/" + url.PathEscape(string(platform)) + "/" + url.PathEscape(accountID)
	var payloads []models.Payload
	if err := c.do(ctx, http.MethodGet, path, token, nil, &payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}

// CustomRange asks the gateway for a batched custom-window report; the
// per-account fan-out happens server-side for custom ranges.
func (c *Client) CustomRange(ctx context.Context, token, startDate, endDate string) ([]models.MetricItem, error) {
	body := map[string]string{
		"start_date": startDate,
		"end_date":   endDate,
	}
	var items []models.MetricItem
	if err := c.do(ctx, http.MethodPost, "/metrics/custom_range", token, body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) TriggerSync(ctx context.Context, token string) (*models.SyncResult, error) {
	var result models.SyncResult
	if err := c.do(ctx, http.MethodPost, "/sync", token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SyncStatus(ctx context.Context, token string) (*models.SyncStatus, error) {
	var status models.SyncStatus
	if err := c.do(ctx, http.MethodGet, "/sync/status", token, nil, &status); err != nil {
		return nil, err
	}
	if status.MaxLimit <= 0 {
		status.MaxLimit = models.DefaultSyncMaxLimit
	}
	return &status, nil
}

func (c *Client) RemoveIntegration(ctx context.Context, token string, platform models.Platform, accountID string) error {
	path := "/integrations/" + url.PathEscape(string(platform)) + "/" + url.PathEscape(accountID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

func (c *Client) ConnectURL(ctx context.Context, token string, platform models.Platform) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	path := "/auth/" + url.PathEscape(string(platform)) + "/login"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncGatewayRequests(path, 0)
		return err
	}
	defer resp.Body.Close()

	c.metrics.IncGatewayRequests(path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		c.logger.Debugf(providers.TypeGateway, "%s %s -> %d: %s", method, path, resp.StatusCode, apiErr.Detail)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
