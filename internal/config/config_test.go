package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that a bare environment yields a runnable config
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dispatch", cfg.Database.Name)
	assert.Equal(t, 50, cfg.Pricing.BaseFare)
	assert.Equal(t, 15, cfg.Pricing.PerKMRate)
	assert.Equal(t, 5000.0, cfg.Dispatch.DefaultRadiusMeters)
	assert.Equal(t, 2*time.Minute, cfg.Dispatch.CompletedWindow)
	assert.Nil(t, cfg.Kafka.Brokers)
}

// TestLoad_EnvOverrides tests environment variable overrides
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PRICING_BASE_FARE", "80")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 80, cfg.Pricing.BaseFare)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}

// TestValidate_RadiusBounds tests the dispatch radius sanity check
func TestValidate_RadiusBounds(t *testing.T) {
	t.Setenv("DISPATCH_DEFAULT_RADIUS_METERS", "100000")
	t.Setenv("DISPATCH_MAX_RADIUS_METERS", "50000")

	_, err := Load()
	assert.Error(t, err)
}
