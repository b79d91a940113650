// Package config handles configuration for the client: defaults, optional
// JSON file overlay, and command-line flags, in that order of precedence.
package config

import "time"

// Storage mode for profile/history and identity.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Config holds runtime settings for the MedAI client.
//
// Fields:
//   - Mode: "remote" (identity/document backend) or "local" (SQLite file).
//   - ServerAddr: base URL of the identity/document backend.
//   - PredictionAddr: base URL of the prediction service.
//   - DatabasePath: SQLite file used in local mode.
//   - PredictTimeout: upper bound on the prediction request wait.
//   - HistoryLimit: maximum retained history entries.
type Config struct {
	Mode           string
	ServerAddr     string
	PredictionAddr string
	DatabasePath   string
	PredictTimeout time.Duration
	HistoryLimit   int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeRemote
	c.ServerAddr = "http://127.0.0.1:8080"
	c.PredictionAddr = "http://127.0.0.1:8000"
	c.DatabasePath = "medai.db"
	c.PredictTimeout = 60 * time.Second
	c.HistoryLimit = 10
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
