// Package config loads runtime configuration for the doccheck client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after loading an optional .env file.
//  3. Optional JSON or YAML file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// # Environment
//
//	DOCCHECK_API_BASE_URL     backend root, e.g. http://localhost:3000/api
//	DOCCHECK_STORAGE_PATH     SQLite file or "memory"
//	DOCCHECK_REQUEST_TIMEOUT  duration, e.g. 30s
//	DOCCHECK_USER_FALLBACK    true/false
//	DOCCHECK_LOG_LEVEL        debug, info, warn, error
//	DOCCHECK_LOG_FORMAT       text, json, zap
//	DOCCHECK_DOWNLOAD_DIR     directory for downloaded documents
//
// # Flags
//
//	-a string   backend API base URL
//	-s string   storage path
//	-l string   log level
//
// # File schema
//
// Durations may be strings like "30s" or integer nanoseconds. Keys left out
// of the file keep their previous value:
//
//	{
//	  "api_base_url": "http://localhost:3000/api",
//	  "storage_path": "doccheck.db",
//	  "request_timeout": "30s",
//	  "user_fallback": true,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "download_dir": "downloads"
//	}
package config
