package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "STRUCTURED", cfg.Logging.Profile)
	assert.Equal(t, "data", cfg.Data.Root)
	assert.Empty(t, cfg.Analyzer.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Analyzer.ProbeTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Converter.Timeout)
	assert.Equal(t, int64(64<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 0.0, cfg.Upload.RatePerSecond)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 0.0.0.0
  port: 9090
  read_timeout: 45s
data:
  root: /var/lib/word-fetcher
analyzer:
  endpoint: http://analyzer:8000
converter:
  timeout: 5m
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/var/lib/word-fetcher", cfg.Data.Root)
	assert.Equal(t, "http://analyzer:8000", cfg.Analyzer.Endpoint)
	assert.Equal(t, 5*time.Minute, cfg.Converter.Timeout)

	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WORDFETCHER_SERVER_PORT", "7070")
	t.Setenv("WORDFETCHER_LOGGING_LEVEL", "debug")
	t.Setenv("WORDFETCHER_ANALYZER_PROBE_TIMEOUT", "500ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Analyzer.ProbeTimeout)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("WORDFETCHER_SERVER_PORT", "70000")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestDataDirs(t *testing.T) {
	cfg := &Config{Data: DataConfig{Root: "/srv/wf"}}
	assert.Equal(t, filepath.Join("/srv/wf", "jobs"), cfg.JobsDir())
	assert.Equal(t, filepath.Join("/srv/wf", "dicts"), cfg.DictsDir())
}
