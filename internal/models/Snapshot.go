package models

import "time"

// Snapshot is the persisted last-known aggregation, one item list per
// range key. Restored on boot so the dashboard has data before the
// first gateway round-trip.
type Snapshot struct {
	SavedAt time.Time               `json:"saved_at"`
	Items   map[string][]MetricItem `json:"items"`
}
