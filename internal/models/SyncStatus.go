package models

// SyncStatus is the gateway-owned rate-limit state. The client only
// reads it; the single local mutation is the optimistic update applied
// right after a successful trigger, reconciled by the next poll.
type SyncStatus struct {
	SyncCount     int     `json:"sync_count"`
	SyncLimitStat bool    `json:"sync_limit_stat"`
	LastSyncTime  *string `json:"last_sync_time"`
	MaxLimit      int     `json:"max_limit"`
}

// DefaultSyncMaxLimit matches the gateway default of 3 syncs per
// cooldown window.
const DefaultSyncMaxLimit = 3

func DefaultSyncStatus() SyncStatus {
	return SyncStatus{MaxLimit: DefaultSyncMaxLimit}
}

// SyncResult is the gateway's answer to a sync trigger. Metrics, when
// present, are advisory only; the authoritative data arrives with the
// delayed refetch.
type SyncResult struct {
	Message      string       `json:"message,omitempty"`
	SyncCount    int          `json:"sync_count"`
	LimitReached bool         `json:"limit_reached"`
	Metrics      []MetricItem `json:"metrics,omitempty"`
}
