package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

func TestLoadFileWithEnvSubstitution(t *testing.T) {
	t.Setenv("TB_TEST_CODEC", "lz4")

	path := filepath.Join(t.TempDir(), "bridge.yaml")
	content := `
conversion:
  legacy_mode: true
concurrency:
  workers: 3
serialization:
  compression: ${TB_TEST_CODEC}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Conversion.LegacyMode)
	assert.Equal(t, 3, cfg.Concurrency.GetWorkers())
	assert.Equal(t, "lz4", cfg.Serialization.Compression)
	// untouched sections keep their defaults
	assert.Equal(t, Default().Concurrency.SmallTableCells, cfg.Concurrency.SmallTableCells)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Conversion.LegacyMode = true
	cfg.Serialization.Compression = "s2"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Concurrency.Workers = -1 }},
		{"negative threshold", func(c *Config) { c.Concurrency.SmallTableCells = -5 }},
		{"unknown codec", func(c *Config) { c.Serialization.Compression = "brotli" }},
		{"unknown encoding", func(c *Config) { c.Logging.Encoding = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("conversion.legacy_mode", true)
	v.Set("concurrency.workers", 2)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Conversion.LegacyMode)
	assert.Equal(t, 2, cfg.Concurrency.Workers)
	assert.Equal(t, "zstd", cfg.Serialization.Compression)

	v.Set("serialization.compression", "rar")
	_, err = FromViper(v)
	assert.Error(t, err)
}
