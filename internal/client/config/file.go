package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/doccheck/internal/flagx"
	"gopkg.in/yaml.v3"
)

// Duration reads either a duration string like "30s" or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = parsed
	return nil
}

// fileConfig is a DTO for the config file. Pointer fields tell an absent
// key from a zero value.
type fileConfig struct {
	APIBaseURL     *string   `json:"api_base_url" yaml:"api_base_url"`
	StoragePath    *string   `json:"storage_path" yaml:"storage_path"`
	RequestTimeout *Duration `json:"request_timeout" yaml:"request_timeout"`
	UserFallback   *bool     `json:"user_fallback" yaml:"user_fallback"`
	LogLevel       *string   `json:"log_level" yaml:"log_level"`
	LogFormat      *string   `json:"log_format" yaml:"log_format"`
	DownloadDir    *string   `json:"download_dir" yaml:"download_dir"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.StoragePath != nil {
		cfg.StoragePath = *fc.StoragePath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.UserFallback != nil {
		cfg.UserFallback = *fc.UserFallback
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
	if fc.DownloadDir != nil {
		cfg.DownloadDir = *fc.DownloadDir
	}
}
