package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "identity-compass", cfg.DynamoDBTable)
	assert.Equal(t, 30, cfg.TemporalWindowMinutes)
	assert.Equal(t, 2, cfg.GraphMinFrequency)
	assert.Equal(t, 300, cfg.GraphNodeCap)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Minute, cfg.TemporalWindow())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TABLE_NAME", "compass-test")
	t.Setenv("TEMPORAL_WINDOW_MINUTES", "45")
	t.Setenv("GRAPH_NODE_CAP", "100")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "compass-test", cfg.DynamoDBTable)
	assert.Equal(t, 45*time.Minute, cfg.TemporalWindow())
	assert.Equal(t, 100, cfg.GraphNodeCap)
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph_min_frequency: 5\nlog_level: debug\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GraphMinFrequency)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched values keep their env defaults.
	assert.Equal(t, 300, cfg.GraphNodeCap)
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfigRejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "qa")

	_, err := LoadConfig()
	assert.Error(t, err)
}
