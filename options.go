package linecache

import (
	"go.uber.org/zap"

	"github.com/discochess/linecache/internal/builder"
	"github.com/discochess/linecache/internal/stats"
	"github.com/discochess/linecache/internal/store"
)

const (
	// DefaultMaxShardLines is the maximum number of lines per shard.
	DefaultMaxShardLines = builder.DefaultMaxShardLines

	// DefaultBlockSize is the number of source bytes read per block during
	// a rebuild.
	DefaultBlockSize = builder.DefaultBlockSize
)

// Option configures a Cache.
type Option interface {
	apply(*options)
}

// options holds the cache configuration.
type options struct {
	overlay       bool
	maxShardLines int64
	blockSize     int
	maxResident   int
	fileLock      bool
	store         store.Store
	stats         stats.Collector
	logger        *zap.Logger
	progress      builder.ProgressFunc
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		maxShardLines: DefaultMaxShardLines,
		blockSize:     DefaultBlockSize,
		stats:         stats.NewNoop(),
		logger:        zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithOverlay forces deletion of every existing shard and a full rebuild,
// even when the cache looks valid.
func WithOverlay(overlay bool) Option {
	return optionFunc(func(o *options) {
		o.overlay = overlay
	})
}

// WithMaxShardLines sets the maximum number of lines per shard used by
// rebuilds. Default is 10,000.
func WithMaxShardLines(n int64) Option {
	return optionFunc(func(o *options) {
		o.maxShardLines = n
	})
}

// WithBlockSize sets the number of source bytes read per block during a
// rebuild. Default is 10 MiB.
func WithBlockSize(n int) Option {
	return optionFunc(func(o *options) {
		o.blockSize = n
	})
}

// WithMaxResidentShards bounds how many shards keep their lines in memory.
// The least recently read shard is dropped and reloaded on demand.
// Zero, the default, keeps every loaded shard for the life of the cache.
func WithMaxResidentShards(n int) Option {
	return optionFunc(func(o *options) {
		o.maxResident = n
	})
}

// WithFileLock holds an advisory lock on "<source>.lock" while the cache is
// checked and rebuilt, serializing processes that open the same source.
func WithFileLock(enabled bool) Option {
	return optionFunc(func(o *options) {
		o.fileLock = enabled
	})
}

// WithStore replaces the directory listing and shard I/O backend.
// If not set, shards live next to the source file.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithProgress sets a callback that receives rebuild progress.
func WithProgress(fn builder.ProgressFunc) Option {
	return optionFunc(func(o *options) {
		o.progress = fn
	})
}
