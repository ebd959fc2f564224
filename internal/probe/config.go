package probe

import "time"

// Defaults used when Config fields are zero.
const (
	DefaultBaseURL  = "http://localhost:9080"
	DefaultRequests = 200
	DefaultWorkers  = 8
	DefaultTimeout  = 10 * time.Second
	DefaultTopN     = 5
)

// Config holds configuration for one probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Read requests spread across the panel routes
	Workers  int           // Concurrent requests in flight
	Timeout  time.Duration // Per-request timeout
	TopN     int           // Leaderboard size to fetch and verify
	SkipAuth bool          // Skip the signup/login round trip
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Requests <= 0 {
		c.Requests = DefaultRequests
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	return c
}

// Stats summarizes a probe run.
type Stats struct {
	RequestsSent       int            `json:"requests_sent"`
	RequestsSuccessful int            `json:"requests_successful"`
	RequestsFailed     int            `json:"requests_failed"`
	StatusCounts       map[string]int `json:"status_counts"`
	LeaderboardEntries int            `json:"leaderboard_entries"`
	SnapshotVersion    uint64         `json:"snapshot_version"`
	AuthChecked        bool           `json:"auth_checked"`
	Mismatches         []string       `json:"mismatches,omitempty"`
	StartTime          time.Time      `json:"start_time"`
	Duration           time.Duration  `json:"duration_ns"`
	RequestsPerSecond  float64        `json:"requests_per_second"`
}
