package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DefaultInferenceSampleSize, cfg.InferenceSampleSize)
	assert.Equal(t, DefaultParallelThreshold, cfg.ParallelThreshold)
	assert.Zero(t, cfg.WorkerPoolSize)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.MetricsCollection)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.ParallelThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.InferenceSampleSize = -1
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.WorkerPoolSize = -1
	assert.Error(t, cfg.Validate())
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{ParallelThreshold: 50, Debug: true}.WithDefaults()
	assert.Equal(t, 50, cfg.ParallelThreshold)
	assert.Equal(t, DefaultInferenceSampleSize, cfg.InferenceSampleSize)
	assert.True(t, cfg.Debug)
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON([]byte(`{"parallel_threshold": 200, "metrics_collection": true}`))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.ParallelThreshold)
	assert.True(t, cfg.MetricsCollection)
	assert.Equal(t, DefaultInferenceSampleSize, cfg.InferenceSampleSize)

	_, err = LoadFromJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("parallel_threshold: 42\ndebug: true\n"), 0o644))

	cfg, err := LoadFromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.ParallelThreshold)
	assert.True(t, cfg.Debug)

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"worker_pool_size": 8}`), 0o644))

	cfg, err = LoadFromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.WorkerPoolSize)

	_, err = LoadFromFile(filepath.Join(dir, "config.toml"))
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SLATE_PARALLEL_THRESHOLD", "321")
	t.Setenv("SLATE_METRICS_COLLECTION", "true")
	t.Setenv("SLATE_WORKER_POOL_SIZE", "not a number")

	cfg := LoadFromEnv()
	assert.Equal(t, 321, cfg.ParallelThreshold)
	assert.True(t, cfg.MetricsCollection)
	assert.Zero(t, cfg.WorkerPoolSize)
}
