// Package memlinecachefx provides an fx module for a line cache that keeps
// its shards in memory instead of next to the source file.
// Useful for testing.
package memlinecachefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/linecache"
	"github.com/discochess/linecache/internal/stats"
	"github.com/discochess/linecache/internal/stats/logger"
	"github.com/discochess/linecache/internal/store/memstore"
)

// Config holds configuration for the in-memory line cache.
type Config struct {
	// SourcePath is the text file to serve lines from.
	SourcePath string

	// MaxShardLines is the maximum number of lines per shard.
	MaxShardLines int64
}

// Module provides an in-memory line cache for testing.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("memlinecache",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newCache,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("linecache.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the cache.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided cache and store.
type Result struct {
	fx.Out

	Cache *linecache.Cache
	Store *memstore.Store // Exposed for test setup
}

func newCache(p Params) (Result, error) {
	opts := []linecache.Option{
		linecache.WithStore(p.Store),
		linecache.WithStats(p.Collector),
		linecache.WithLogger(p.Logger.Named("linecache")),
	}
	if p.Config.MaxShardLines > 0 {
		opts = append(opts, linecache.WithMaxShardLines(p.Config.MaxShardLines))
	}

	cache, err := linecache.Open(context.Background(), p.Config.SourcePath, opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})

	return Result{
		Cache: cache,
		Store: p.Store,
	}, nil
}
