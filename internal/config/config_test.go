package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.WorkerPool.CoreSize)
	assert.Equal(t, 100, cfg.WorkerPool.QueueSize)
	assert.Equal(t, "info", cfg.System.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFromFile(filepath.Join(dir, "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"workerPool":{"coreSize":8},"system":{"logLevel":"debug"}}`), 0o600))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.WorkerPool.CoreSize)
		assert.Equal(t, 100, cfg.WorkerPool.QueueSize)
		assert.Equal(t, "debug", cfg.System.LogLevel)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"workerPool":`), 0o600))
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	cfg := DefaultConfig()
	cfg.WorkerPool.CoreSize = 12
	cfg.Jobs.ShutdownTimeout = time.Minute
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveToFile_DurationsAreReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, DefaultConfig().SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"shutdownTimeout": "10s"`)

	require.NoError(t, os.WriteFile(path, []byte(`{"jobs":{"shutdownTimeout":"1m30s"}}`), 0o600))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Jobs.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Jobs.StatsInterval)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(map[string]string{
		"JOBCORE_WORKER_POOL_CORE_SIZE":  "3",
		"JOBCORE_SYSTEM_LOG_LEVEL":       "warn",
		"JOBCORE_SYSTEM_METRICS_ENABLED": "true",
		"JOBCORE_JOBS_SHUTDOWN_TIMEOUT":  "2s",
		"WORKER_POOL_QUEUE_SIZE":         "1", // unprefixed, ignored
	})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.WorkerPool.CoreSize)
	assert.Equal(t, 100, cfg.WorkerPool.QueueSize)
	assert.Equal(t, "warn", cfg.System.LogLevel)
	assert.True(t, cfg.System.MetricsEnabled)
	assert.Equal(t, 2*time.Second, cfg.Jobs.ShutdownTimeout)

	assert.Error(t, DefaultConfig().ApplyEnv(map[string]string{"JOBCORE_WORKER_POOL_CORE_SIZE": "many"}))
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"workerPool":{"coreSize":8}}`), 0o600))
	t.Setenv("JOBCORE_WORKER_POOL_CORE_SIZE", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.WorkerPool.CoreSize)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero core size":        func(c *Config) { c.WorkerPool.CoreSize = 0 },
		"zero queue size":       func(c *Config) { c.WorkerPool.QueueSize = 0 },
		"unknown log level":     func(c *Config) { c.System.LogLevel = "loud" },
		"empty log level":       func(c *Config) { c.System.LogLevel = "" },
		"metrics without addr":  func(c *Config) { c.System.MetricsEnabled, c.System.MetricsAddress = true, "" },
		"no shutdown timeout":   func(c *Config) { c.Jobs.ShutdownTimeout = 0 },
		"negative stats period": func(c *Config) { c.Jobs.StatsInterval = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
