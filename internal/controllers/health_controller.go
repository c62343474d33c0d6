package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"smd/internal/services"
	"smd/internal/syncer"
	"time"
)

type HealthController struct {
	service   services.DashboardServiceInterface
	trigger   syncer.TriggerInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Accounts      int     `json:"accounts"`
	SyncCount     int     `json:"sync_count"`
	SyncLimited   bool    `json:"sync_limited"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	status := hc.trigger.Status()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Accounts:      hc.service.LastAccountCount(),
		SyncCount:     status.SyncCount,
		SyncLimited:   status.SyncLimitStat,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.DashboardServiceInterface, trigger syncer.TriggerInterface) *HealthController {
	return &HealthController{
		service:   service,
		trigger:   trigger,
		startTime: time.Now(),
	}
}
