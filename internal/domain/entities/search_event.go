package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	ResultCount   int       `json:"result_count"`
	LatencyMs     int       `json:"latency_ms"`
	UserLatitude  float64   `json:"user_latitude"`
	UserLongitude float64   `json:"user_longitude"`
	SessionID     string    `json:"session_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
