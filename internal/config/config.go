// Package config loads service configuration from environment variables,
// applying defaults and validating everything on startup.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Report  ReportConfig
	Cache   CacheConfig
	Extract ExtractConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxBodyBytes caps the size of a request body (default: 1MiB)
	MaxBodyBytes int64 `env:"SERVER_MAX_BODY_BYTES" default:"1048576"`
}

// ReportConfig locates the source workbook.
type ReportConfig struct {
	// FilePath is the workbook to extract from. Relative paths are resolved
	// against the working directory.
	FilePath string `env:"REPORT_FILE_PATH" envAlt:"FILE_PATH" required:"true"`
}

// CacheConfig holds extraction cache settings.
type CacheConfig struct {
	TTL time.Duration `env:"CACHE_TTL" default:"30m"`

	// Mode is legacy (match on mapping count) or strict (match on mapping content)
	Mode string `env:"CACHE_MODE" default:"legacy"`

	// Backend is memory or sqlite
	Backend string `env:"CACHE_BACKEND" default:"memory"`

	SQLitePath string `env:"CACHE_SQLITE_PATH" default:"finreport-cache.db"`

	// SweepInterval is how often the sqlite backend deletes expired rows
	SweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" default:"5m"`
}

// ExtractConfig describes the worksheet layout.
type ExtractConfig struct {
	FirstColumn int `env:"EXTRACT_FIRST_COLUMN" default:"6"`
	HeaderRow   int `env:"EXTRACT_HEADER_ROW" default:"2"`

	// MaxWorkers bounds concurrent column reads; 0 means one per column
	MaxWorkers int `env:"EXTRACT_MAX_WORKERS" default:"0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// ResolvedPath returns FilePath, joined onto the working directory when it
// is relative.
func (c *ReportConfig) ResolvedPath() (string, error) {
	if filepath.IsAbs(c.FilePath) {
		return c.FilePath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, c.FilePath), nil
}
