// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Open and rebuild metrics.
	MetricOpens         = "linecache_opens_total"
	MetricRebuilds      = "linecache_rebuilds_total"
	MetricShardsWritten = "linecache_shards_written_total"
	MetricShardsRemoved = "linecache_shards_removed_total"
	MetricRebuildTime   = "linecache_rebuild_seconds"
	MetricShards        = "linecache_shards"

	// Read metrics.
	MetricLineReads    = "linecache_line_reads_total"
	MetricBoundsErrors = "linecache_bounds_errors_total"
	MetricShardLoads   = "linecache_shard_loads_total"

	// Residency metrics.
	MetricShardEvictions = "linecache_shard_evictions_total"
	MetricResidentShards = "linecache_resident_shards"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
