package clinic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10.0, cfg.Threshold())
	assert.Nil(t, cfg.Seed)
}

func TestConfig_Validate_ReportsEveryInvalidField(t *testing.T) {
	// GIVEN a config with several broken fields
	cfg := DefaultConfig()
	cfg.Clinics = 0
	cfg.InitialLevel = 150
	cfg.PurchaseAmount = Range{Min: 5, Max: 2}
	cfg.Delivery.Traffic = Range{Min: -1, Max: 10}
	cfg.Inspection = "not a schedule"

	// WHEN validated
	err := cfg.Validate()

	// THEN every problem is named in one error
	require.Error(t, err)
	for _, field := range []string{"clinics", "initial_level", "purchase_amount", "delivery.traffic", "inspection"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestConfig_Validate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"threshold above 100", func(c *Config) { c.ThresholdPercent = 101 }},
		{"zero counter", func(c *Config) { c.CounterCapacity = 0 }},
		{"purchase above capacity", func(c *Config) { c.PurchaseAmount = Range{Min: 1, Max: 101} }},
		{"zero purchase rate", func(c *Config) { c.PurchaseRate = 0 }},
		{"zero inter-arrival", func(c *Config) { c.InterArrival = Range{Min: 0, Max: 0} }},
		{"negative horizon", func(c *Config) { c.Horizon = -1 }},
		{"inspection that never fires", func(c *Config) { c.Inspection = "0 0 30 2 *" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDecodeConfig_OverlaysDefaults(t *testing.T) {
	// GIVEN a partial YAML scenario
	data := []byte(`
clinics: 2
threshold_percent: 25
delivery:
  traffic: {min: 10, max: 20}
seed: 7
`)
	cfg := DefaultConfig()

	// WHEN decoded on top of the defaults
	require.NoError(t, DecodeConfig(data, &cfg))

	// THEN given fields change and the rest keep their defaults
	assert.Equal(t, 2, cfg.Clinics)
	assert.Equal(t, 25.0, cfg.ThresholdPercent)
	assert.Equal(t, Range{Min: 10, Max: 20}, cfg.Delivery.Traffic)
	assert.Equal(t, Range{Min: 100, Max: 200}, cfg.Delivery.Normal)
	assert.Equal(t, 100.0, cfg.Capacity)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
}

func TestDecodeConfig_UnknownField_Rejected(t *testing.T) {
	cfg := DefaultConfig()
	err := DecodeConfig([]byte("clinic_count: 3\n"), &cfg)
	assert.Error(t, err)
}

func TestDecodeConfig_EmptyDocument_KeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, DecodeConfig(nil, &cfg))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("horizon: 5000\ninspection: \"@every 250s\"\n"), 0o644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.Horizon)
	assert.Equal(t, "@every 250s", cfg.Inspection)
	assert.Equal(t, 5, cfg.Clinics)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
