package config

import "time"

// Config holds runtime settings for the dream journal CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API, no trailing slash.
//   - CacheDSN: sqlite file backing the local cache.
//   - TokenFile: optional path to a stored ID token; empty starts signed out.
//   - OnlineCheckInterval: how often the client probes API reachability.
//   - PageSize: remote listing page size.
type Config struct {
	APIBaseURL          string
	CacheDSN            string
	TokenFile           string
	OnlineCheckInterval time.Duration
	PageSize            int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.CacheDSN = "dreams.db"
	c.TokenFile = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.PageSize = 10
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
