// Package linecachefx provides an fx module for a line cache over one source
// file, with shards stored next to the file.
package linecachefx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/linecache"
	"github.com/discochess/linecache/internal/stats"
	"github.com/discochess/linecache/internal/stats/logger"
	promstats "github.com/discochess/linecache/internal/stats/prometheus"
)

// Config holds configuration for the line cache.
type Config struct {
	// SourcePath is the text file to serve lines from.
	SourcePath string

	// Overlay discards existing shards and rebuilds on start.
	Overlay bool

	// MaxShardLines is the maximum number of lines per shard.
	// Default is linecache.DefaultMaxShardLines.
	MaxShardLines int64

	// MaxResidentShards bounds the number of shards held in memory.
	// Zero keeps every loaded shard.
	MaxResidentShards int

	// FileLock takes an advisory lock on the source while opening.
	FileLock bool

	// Registerer receives Prometheus metrics when set. Otherwise metrics
	// are logged at debug level.
	Registerer prometheus.Registerer
}

// Module provides a *linecache.Cache.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("linecache",
	fx.Provide(
		newStatsCollector,
		newCache,
	),
)

func newStatsCollector(cfg Config, log *zap.Logger) stats.Collector {
	if cfg.Registerer != nil {
		return promstats.New(cfg.Registerer)
	}
	return logger.New(log.Named("linecache.stats"))
}

// Params holds dependencies for creating the cache.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided cache.
type Result struct {
	fx.Out

	Cache *linecache.Cache
}

func newCache(p Params) (Result, error) {
	maxLines := p.Config.MaxShardLines
	if maxLines <= 0 {
		maxLines = linecache.DefaultMaxShardLines
	}

	cache, err := linecache.Open(context.Background(), p.Config.SourcePath,
		linecache.WithOverlay(p.Config.Overlay),
		linecache.WithMaxShardLines(maxLines),
		linecache.WithMaxResidentShards(p.Config.MaxResidentShards),
		linecache.WithFileLock(p.Config.FileLock),
		linecache.WithStats(p.Collector),
		linecache.WithLogger(p.Logger.Named("linecache")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})

	return Result{Cache: cache}, nil
}
