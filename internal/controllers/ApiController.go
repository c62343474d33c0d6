package controllers

import (
	"errors"
	json "github.com/goccy/go-json"
	"net/http"
	"smd/internal/gateway"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/services"
	"smd/internal/structures"
	"smd/internal/syncer"
	"strings"
)

type ApiController struct {
	conf    *structures.Config
	logger  providers.Logger
	service services.DashboardServiceInterface
	trigger syncer.TriggerInterface
	gw      gateway.GatewayInterface
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.DashboardServiceInterface, trigger syncer.TriggerInterface, gw gateway.GatewayInterface) *ApiController {
	return &ApiController{
		conf:    conf,
		logger:  logger,
		service: service,
		trigger: trigger,
		gw:      gw,
	}
}

// bearerToken extracts the caller's token, falling back to the
// configured service token.
func (ac *ApiController) bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return token
	}
	return ac.conf.Gateway.Token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeDetail mirrors the gateway's error envelope so the UI handles
// both origins the same way.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// gatewayError maps an upstream failure onto our response: gateway
// verdicts (auth, rate limit) pass through with their detail, anything
// else becomes a 502 with a generic connectivity message.
func (ac *ApiController) gatewayError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		writeDetail(w, apiErr.StatusCode, apiErr.Error())
		return
	}
	ac.logger.Errorf(providers.TypeGateway, "%s: %s", fallback, err)
	writeDetail(w, http.StatusBadGateway, fallback)
}

func (ac *ApiController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := models.ParseSelection(q.Get("range"), q.Get("start"), q.Get("end"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := ac.service.Rows(r.Context(), ac.bearerToken(r), sel)
	if err != nil {
		ac.gatewayError(w, err, "Failed to fetch metrics from gateway")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (ac *ApiController) GetIntegrations(w http.ResponseWriter, r *http.Request) {
	accounts, err := ac.gw.ListAccounts(r.Context(), ac.bearerToken(r))
	if err != nil {
		ac.gatewayError(w, err, "Failed to fetch integrations")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (ac *ApiController) DeleteIntegration(w http.ResponseWriter, r *http.Request) {
	platform := models.NormalizePlatform(r.PathValue("platform"))
	accountID := r.PathValue("id")
	if !platform.Known() || accountID == "" {
		writeDetail(w, http.StatusBadRequest, "Unknown platform or empty account id")
		return
	}

	if err := ac.gw.RemoveIntegration(r.Context(), ac.bearerToken(r), platform, accountID); err != nil {
		ac.gatewayError(w, err, "Failed to remove integration")
		return
	}
	ac.logger.Infof(providers.TypeApp, "Removed integration %s/%s", platform, accountID)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetConnectURL(w http.ResponseWriter, r *http.Request) {
	platform := models.NormalizePlatform(r.PathValue("platform"))
	if !platform.Known() {
		writeDetail(w, http.StatusBadRequest, "Unknown platform")
		return
	}

	url, err := ac.gw.ConnectURL(r.Context(), ac.bearerToken(r), platform)
	if err != nil {
		ac.gatewayError(w, err, "Failed to get connect URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (ac *ApiController) TriggerSync(w http.ResponseWriter, r *http.Request) {
	result, err := ac.trigger.Trigger(r.Context(), ac.bearerToken(r))
	switch {
	case errors.Is(err, syncer.ErrLimitReached):
		writeDetail(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, syncer.ErrSyncInFlight):
		writeDetail(w, http.StatusConflict, err.Error())
	case err != nil:
		ac.gatewayError(w, err, "Failed to trigger sync")
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (ac *ApiController) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.trigger.StatusFor(r.Context(), ac.bearerToken(r)))
}
