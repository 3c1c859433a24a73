// Package config provides configuration management for slate table operations
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for slate table operations.
// Locale and parsing behaviour are never configured here: they are passed
// explicitly to the data type constructors. Config carries only performance
// and observability knobs.
type Config struct {
	// Type inference configuration
	InferenceSampleSize int `json:"inference_sample_size" yaml:"inference_sample_size"` // Rows sampled per column for type inference (0 = all rows)

	// Parallel processing configuration
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"` // Minimum rows to trigger parallel row processing
	WorkerPoolSize    int `json:"worker_pool_size" yaml:"worker_pool_size"`     // Number of worker goroutines (0 = auto-detect)
	ChunkSize         int `json:"chunk_size" yaml:"chunk_size"`                 // Size of row chunks for parallel processing (0 = auto-calculate)

	// Debugging configuration
	Debug             bool `json:"debug" yaml:"debug"`                           // Enable debug trace logging
	MetricsCollection bool `json:"metrics_collection" yaml:"metrics_collection"` // Enable metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultInferenceSampleSize = 100
	DefaultParallelThreshold   = 1000
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		InferenceSampleSize: DefaultInferenceSampleSize,

		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // Auto-detect
		ChunkSize:         0, // Auto-calculate

		Debug:             false,
		MetricsCollection: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.InferenceSampleSize < 0 {
		return fmt.Errorf("InferenceSampleSize must be non-negative, got %d", c.InferenceSampleSize)
	}

	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if c.ChunkSize < 0 {
		return fmt.Errorf("ChunkSize must be non-negative, got %d", c.ChunkSize)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.InferenceSampleSize == 0 {
		c.InferenceSampleSize = defaults.InferenceSampleSize
	}
	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.WorkerPoolSize == 0 {
		c.WorkerPoolSize = defaults.WorkerPoolSize
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = defaults.ChunkSize
	}

	// Boolean fields keep their explicit values so false stays
	// distinguishable from unset.

	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from SLATE_* environment variables.
// Only performance and debugging knobs are read from the environment;
// parsing behaviour always comes from explicit arguments.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("SLATE_INFERENCE_SAMPLE_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.InferenceSampleSize = parsed
		}
	}

	if val := os.Getenv("SLATE_PARALLEL_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ParallelThreshold = parsed
		}
	}

	if val := os.Getenv("SLATE_WORKER_POOL_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.WorkerPoolSize = parsed
		}
	}

	if val := os.Getenv("SLATE_CHUNK_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ChunkSize = parsed
		}
	}

	if val := os.Getenv("SLATE_DEBUG"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.Debug = parsed
		}
	}

	if val := os.Getenv("SLATE_METRICS_COLLECTION"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.MetricsCollection = parsed
		}
	}

	return config
}
