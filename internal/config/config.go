// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and TRENDBOARD_* env vars on top of New().
// - Validation failures wrap ErrInvalidConfig.
package config

// Polarity values for the high-demand threshold comparison.
const (
	PolarityBelow = "below"
	PolarityAbove = "above"
)

// Identity backends.
const (
	IdentityMemory = "memory"
	IdentitySQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// CorsOrigins lists origins allowed to call the API from a browser.
	CorsOrigins []string `koanf:"cors_origins"`

	// DatasetPath points at the JSON dataset snapshot loaded on start.
	DatasetPath string `koanf:"dataset_path"`
	// DatasetWatch reloads the snapshot when the dataset file changes.
	DatasetWatch bool `koanf:"dataset_watch"`

	// DefaultTopN is used when GET /leaderboard has no limit.
	DefaultTopN int `koanf:"default_top_n"`
	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// HighDemandThreshold and HighDemandPolarity drive the high-demand bucket.
	HighDemandThreshold int    `koanf:"high_demand_threshold"`
	HighDemandPolarity  string `koanf:"high_demand_polarity"`
	// UntappedThreshold is the inclusive ceiling for untapped topics.
	UntappedThreshold int `koanf:"untapped_threshold"`

	// ReferenceGraph is the graph whose data keys form the overlap reference set.
	ReferenceGraph string `koanf:"reference_graph"`
	// InfluenceGraph holds platform -> month -> count data.
	InfluenceGraph string `koanf:"influence_graph"`
	// DefaultMonth is used by GET /influence without ?month.
	DefaultMonth string `koanf:"default_month"`

	// IdentityBackend selects memory or sqlite credential storage.
	IdentityBackend string `koanf:"identity_backend"`
	// IdentityDSN is the sqlite data source name.
	IdentityDSN string `koanf:"identity_dsn"`
	// BcryptCost is the password hashing cost.
	BcryptCost int `koanf:"bcrypt_cost"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		CorsOrigins: []string{
			"https://axioma-six.vercel.app",
			"https://newsroom-analytics-demo.vercel.app",
			"http://localhost:5173",
		},
		DatasetPath:         "data/data.json",
		DatasetWatch:        false,
		DefaultTopN:         5,
		MaxLeaderboardLimit: 100,
		HighDemandThreshold: 100,
		HighDemandPolarity:  PolarityBelow,
		UntappedThreshold:   50,
		ReferenceGraph:      "News Topic Counts of Articles",
		InfluenceGraph:      "Trending Conversations",
		DefaultMonth:        "Jan",
		IdentityBackend:     IdentityMemory,
		IdentityDSN:         "file:identity.db?cache=shared",
		BcryptCost:          10,
	}
}
