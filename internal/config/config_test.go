package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REPORT_FILE_PATH", "data/report.xlsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "legacy", cfg.Cache.Mode)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 6, cfg.Extract.FirstColumn)
	assert.Equal(t, 2, cfg.Extract.HeaderRow)
	assert.Equal(t, 0, cfg.Extract.MaxWorkers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("REPORT_FILE_PATH", "data/report.xlsx")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("CACHE_MODE", "strict")
	t.Setenv("EXTRACT_MAX_WORKERS", "8")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "strict", cfg.Cache.Mode)
	assert.Equal(t, 8, cfg.Extract.MaxWorkers)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("REPORT_FILE_PATH", "")
	t.Setenv("FILE_PATH", "legacy/path.xlsx")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy/path.xlsx", cfg.Report.FilePath)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("REPORT_FILE_PATH", "")
	t.Setenv("FILE_PATH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_FILE_PATH")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{"bad duration", map[string]string{"CACHE_TTL": "soon"}, "invalid duration"},
		{"bad int", map[string]string{"SERVER_PORT": "eighty"}, "invalid integer"},
		{"port range", map[string]string{"SERVER_PORT": "70000"}, "SERVER_PORT"},
		{"cache mode", map[string]string{"CACHE_MODE": "fuzzy"}, "CACHE_MODE"},
		{"cache backend", map[string]string{"CACHE_BACKEND": "redis"}, "CACHE_BACKEND"},
		{"header row", map[string]string{"EXTRACT_HEADER_ROW": "0"}, "EXTRACT_HEADER_ROW"},
		{"log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REPORT_FILE_PATH", "data/report.xlsx")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errMsg), err.Error())
		})
	}
}

func TestResolvedPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "report.xlsx")
	rc := ReportConfig{FilePath: abs}
	got, err := rc.ResolvedPath()
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	rc.FilePath = filepath.Join("data", "report.xlsx")
	got, err = rc.ResolvedPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.True(t, strings.HasSuffix(got, rc.FilePath))
}
