package config

import (
	"time"

	"github.com/dmitrijs2005/doccheck/internal/client/api"
)

// Config holds runtime settings for the doccheck client.
//
// Fields:
//   - APIBaseURL: root of the backend REST API.
//   - StoragePath: SQLite file for the token and user cache, or "memory".
//   - RequestTimeout: per-request HTTP timeout, 0 for none.
//   - UserFallback: fill a missing login user id/name with the submitted login.
//   - LogLevel, LogFormat: see logging.New.
//   - DownloadDir: where downloaded documents are saved.
type Config struct {
	APIBaseURL     string
	StoragePath    string
	RequestTimeout time.Duration
	UserFallback   bool
	LogLevel       string
	LogFormat      string
	DownloadDir    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = api.DefaultBaseURL
	c.StoragePath = "doccheck.db"
	c.RequestTimeout = 0
	c.UserFallback = true
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.DownloadDir = "downloads"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a config file (if given) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
