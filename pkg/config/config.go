// Package config provides the configuration system for tablebridge.
// A single Config structure carries every tunable of the conversion engine,
// organized into logical sections:
//   - Conversion: the legacy mode flag and sequential fallbacks
//   - Concurrency: worker counts and the small-table threshold
//   - Logging: zap logger settings
//   - Serialization: codec used for portable columnar view bytes
//   - Observability: metrics and tracing switches
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Conversion.LegacyMode = true
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"

	"github.com/ajitpratap0/tablebridge/pkg/compression"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
)

// Config is the single configuration structure of tablebridge.
type Config struct {
	// Conversion settings control the type mapping behavior
	Conversion ConversionConfig `yaml:"conversion" json:"conversion" mapstructure:"conversion"`

	// Concurrency settings control how column tasks are scheduled
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`

	// Logging configures the zap logger
	Logging logger.Config `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Serialization configures portable view bytes
	Serialization SerializationConfig `yaml:"serialization" json:"serialization" mapstructure:"serialization"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// ConversionConfig contains type mapping settings.
type ConversionConfig struct {
	// LegacyMode switches integer rounding to the legacy half-up rule
	LegacyMode bool `yaml:"legacy_mode" json:"legacy_mode" mapstructure:"legacy_mode"`
}

// ConcurrencyConfig contains scheduling settings for column tasks.
type ConcurrencyConfig struct {
	// Workers defines the number of concurrent column tasks (0 = NumCPU)
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
	// SmallTableCells is the rows*columns product below which tasks run inline
	SmallTableCells int `yaml:"small_table_cells" json:"small_table_cells" mapstructure:"small_table_cells"`
}

// SerializationConfig contains settings for portable view bytes.
type SerializationConfig struct {
	// Compression selects the codec (none, gzip, snappy, lz4, zstd, s2)
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	// EnableMetrics activates prometheus metrics recording
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// EnableTracing activates OpenTelemetry spans on the stdout exporter
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			LegacyMode: false,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         runtime.NumCPU(),
			SmallTableCells: 4096,
		},
		Logging: logger.Config{
			Level:    "info",
			Encoding: "json",
		},
		Serialization: SerializationConfig{
			Compression: "zstd",
		},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			EnableTracing: false,
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	if c.Concurrency.Workers < 0 {
		return errors.New(errors.ErrorTypeConfig, "concurrency.workers cannot be negative")
	}
	if c.Concurrency.SmallTableCells < 0 {
		return errors.New(errors.ErrorTypeConfig, "concurrency.small_table_cells cannot be negative")
	}
	if _, err := compression.Parse(c.Serialization.Compression); err != nil {
		return errors.Newf(errors.ErrorTypeConfig, "unknown serialization.compression %q", c.Serialization.Compression)
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown logging.encoding %q", c.Logging.Encoding)
	}
	return nil
}

// GetWorkers returns the number of workers, ensuring it's at least 1
func (c *ConcurrencyConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
