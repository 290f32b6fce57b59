// Package alerts filters and summarizes the health alert feed. Alert records
// are owned by the upstream alert generator; this package reads them, derives
// counts and trends, and forwards read/delete mutations upstream.
package alerts

import "time"

// Severity levels in the upstream alert vocabulary.
const (
	TypeCritical = "critical"
	TypeWarning  = "warning"
	TypeInfo     = "info"
	TypeSuccess  = "success"
)

// Alert is one record in the patient's alert feed.
type Alert struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Value           string    `json:"value,omitempty"`
	DataType        string    `json:"dataType,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	IsRead          bool      `json:"isRead"`
	Source          string    `json:"source"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Actions         []string  `json:"actions,omitempty"`
	EmergencyLevel  string    `json:"emergencyLevel,omitempty"`
}

// Counts summarizes a feed for the dashboard badges.
type Counts struct {
	Total          int `json:"total"`
	Unread         int `json:"unread"`
	CriticalUnread int `json:"criticalUnread"`
	Critical       int `json:"critical"`
	Warning        int `json:"warning"`
	Info           int `json:"info"`
}

// Trend classifications for the weekly alert volume.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)
