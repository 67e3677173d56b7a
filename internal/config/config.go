package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "JOBCORE_"

// Config holds all configuration settings for the job core.
type Config struct {
	System     SystemConfig     `json:"system" envPrefix:"SYSTEM_"`
	WorkerPool WorkerPoolConfig `json:"workerPool" envPrefix:"WORKER_POOL_"`
	Jobs       JobsConfig       `json:"jobs" envPrefix:"JOBS_"`
}

// SystemConfig holds general system settings.
type SystemConfig struct {
	LogLevel       string `json:"logLevel" env:"LOG_LEVEL"`             // trace, debug, info, warn, error
	LogJSON        bool   `json:"logJSON" env:"LOG_JSON"`               // Structured output instead of console
	MetricsEnabled bool   `json:"metricsEnabled" env:"METRICS_ENABLED"` // Serve Prometheus metrics
	MetricsAddress string `json:"metricsAddress" env:"METRICS_ADDRESS"` // Listen address of the metrics endpoint
}

// WorkerPoolConfig holds settings for the worker pool.
type WorkerPoolConfig struct {
	CoreSize  int `json:"coreSize" env:"CORE_SIZE"`   // Number of workers, read once at manager construction
	QueueSize int `json:"queueSize" env:"QUEUE_SIZE"` // Jobs waiting for a worker before submissions are rejected
}

// JobsConfig holds settings for the job manager.
type JobsConfig struct {
	ShutdownTimeout time.Duration `json:"shutdownTimeout,format:units" env:"SHUTDOWN_TIMEOUT"` // Wait for workers after shutdown
	StatsInterval   time.Duration `json:"statsInterval,format:units" env:"STATS_INTERVAL"`     // Period of the stats log line, 0 disables it
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		System: SystemConfig{
			LogLevel:       "info",
			MetricsEnabled: false,
			MetricsAddress: ":9091",
		},
		WorkerPool: WorkerPoolConfig{
			CoreSize:  5,
			QueueSize: 100,
		},
		Jobs: JobsConfig{
			ShutdownTimeout: 10 * time.Second,
			StatsInterval:   5 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional JSON file at filePath and
// JOBCORE_* environment variables, in that order, and validates the result.
func Load(filePath string) (*Config, error) {
	cfg := DefaultConfig()
	if filePath != "" {
		var err error
		if cfg, err = LoadFromFile(filePath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file on top of the defaults.
// A missing file is not an error.
func LoadFromFile(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", filePath).Msg("Config file not found, using defaults")
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	log.Debug().Str("path", filePath).Msg("Loaded configuration")
	return config, nil
}

// ApplyEnv overrides settings from JOBCORE_* environment variables, e.g.
// JOBCORE_WORKER_POOL_CORE_SIZE. A nil environment reads the process environment.
func (c *Config) ApplyEnv(environment map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}
	return nil
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(filePath string) error {
	data, err := json.Marshal(c, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	log.Debug().Str("path", filePath).Msg("Saved configuration")
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.System.LogLevel); err != nil || c.System.LogLevel == "" {
		return fmt.Errorf("unknown logLevel %q", c.System.LogLevel)
	}
	if c.System.MetricsEnabled && c.System.MetricsAddress == "" {
		return fmt.Errorf("metricsAddress is required when metrics are enabled")
	}

	if c.WorkerPool.CoreSize < 1 {
		return fmt.Errorf("coreSize must be at least 1")
	}
	if c.WorkerPool.QueueSize < 1 {
		return fmt.Errorf("queueSize must be at least 1")
	}

	if c.Jobs.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdownTimeout must be positive")
	}
	if c.Jobs.StatsInterval < 0 {
		return fmt.Errorf("statsInterval cannot be negative")
	}

	return nil
}
