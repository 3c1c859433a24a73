// Package monitoring provides performance metrics collection for table
// operations, including hit/miss counters for the per-table aggregation
// result cache.
package monitoring

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/paveg/slate/internal/config"
)

// OperationMetrics represents performance metrics for a single table operation.
type OperationMetrics struct {
	Duration      time.Duration `json:"duration"`
	RowsProcessed int64         `json:"rows_processed"`
	Operation     string        `json:"operation"`
}

// CacheStats holds counters for the aggregation result cache.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// MetricsCollector collects and stores performance metrics for table operations.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]OperationMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// Record stores one operation measurement. Callers that time themselves
// report through here; RecordOperation wraps it for function-shaped work.
func (mc *MetricsCollector) Record(operation string, rows int64, duration time.Duration) {
	if !mc.IsEnabled() {
		return
	}
	mc.mu.Lock()
	mc.metrics = append(mc.metrics, OperationMetrics{
		Duration:      duration,
		RowsProcessed: rows,
		Operation:     operation,
	})
	mc.mu.Unlock()
}

// RecordOperation executes the given function and records its duration
// and row throughput.
func (mc *MetricsCollector) RecordOperation(operation string, rows int64, fn func() error) error {
	if !mc.IsEnabled() {
		return fn()
	}

	start := time.Now()
	err := fn()
	mc.Record(operation, rows, time.Since(start))

	return err
}

// RecordCacheHit counts one aggregation cache hit.
func (mc *MetricsCollector) RecordCacheHit() {
	if mc.IsEnabled() {
		mc.cacheHits.Add(1)
	}
}

// RecordCacheMiss counts one aggregation cache miss.
func (mc *MetricsCollector) RecordCacheMiss() {
	if mc.IsEnabled() {
		mc.cacheMisses.Add(1)
	}
}

// CacheStats returns the cache counters.
func (mc *MetricsCollector) CacheStats() CacheStats {
	return CacheStats{
		Hits:   mc.cacheHits.Load(),
		Misses: mc.cacheMisses.Load(),
	}
}

// GetMetrics returns a copy of all collected operation metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics and resets the cache counters.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	mc.metrics = mc.metrics[:0]
	mc.mu.Unlock()
	mc.cacheHits.Store(0)
	mc.cacheMisses.Store(0)
}

// GetSummary returns aggregate statistics for collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{Cache: mc.CacheStats()}
	}

	var totalDuration time.Duration
	var totalRows int64
	operationCounts := make(map[string]int)

	for _, metric := range mc.metrics {
		totalDuration += metric.Duration
		totalRows += metric.RowsProcessed
		operationCounts[metric.Operation]++
	}

	return MetricsSummary{
		TotalOperations: len(mc.metrics),
		TotalDuration:   totalDuration,
		TotalRows:       totalRows,
		OperationCounts: operationCounts,
		AverageDuration: totalDuration / time.Duration(len(mc.metrics)),
		Cache:           mc.CacheStats(),
	}
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations int            `json:"total_operations"`
	TotalDuration   time.Duration  `json:"total_duration"`
	TotalRows       int64          `json:"total_rows"`
	OperationCounts map[string]int `json:"operation_counts"`
	AverageDuration time.Duration  `json:"average_duration"`
	Cache           CacheStats     `json:"cache"`
}

// Global collector, enabled from config. The table core reports cache
// traffic here without owning any observability state itself.
var (
	globalMu        sync.RWMutex
	globalCollector = NewMetricsCollector(config.GetGlobalConfig().MetricsCollection)
)

// Global returns the process-wide metrics collector.
func Global() *MetricsCollector {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCollector
}

// SetGlobal replaces the process-wide metrics collector.
func SetGlobal(mc *MetricsCollector) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if mc != nil {
		globalCollector = mc
	}
}

// RecordCacheHit counts one cache hit on the global collector.
func RecordCacheHit() { Global().RecordCacheHit() }

// RecordCacheMiss counts one cache miss on the global collector.
func RecordCacheMiss() { Global().RecordCacheMiss() }
