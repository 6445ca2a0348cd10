package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.ZillowDelay)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "./output/call_sheets.csv", cfg.CSVOutputPath)
	assert.Contains(t, cfg.UserAgent, "Mozilla/5.0")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ZILLOW_DELAY", "0.5")
	t.Setenv("USER_AGENT", "test-agent")
	t.Setenv("POSTGRES_HOST", "db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay())
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Contains(t, cfg.DSN(), "host=db ")
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequestDelayNegative(t *testing.T) {
	cfg := &Config{ZillowDelay: -1}
	assert.Equal(t, time.Duration(0), cfg.RequestDelay())
}
