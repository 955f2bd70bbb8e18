// Package linecache provides line-indexed random access to large text files
// through an on-disk cache of line-range shards kept next to the source.
//
// Example usage:
//
//	cache, err := linecache.Open(ctx, "/var/log/huge.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	line, err := cache.ReadLine(ctx, 25000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(line)
//
// Shards are named "<begin>_<end>.cache" after the inclusive, 1-based line
// range they hold. An existing shard set is reused when the sum of the shard
// sizes equals the source size; otherwise it is deleted and rebuilt.
package linecache

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/linecache/internal/builder"
	"github.com/discochess/linecache/internal/residency"
	"github.com/discochess/linecache/internal/search"
	"github.com/discochess/linecache/internal/shard"
	"github.com/discochess/linecache/internal/stats"
	"github.com/discochess/linecache/internal/store"
	"github.com/discochess/linecache/internal/store/diskstore"
)

// lockSuffix is appended to the source path to name the advisory lock file.
const lockSuffix = ".lock"

// Progress reports rebuild progress.
type Progress = builder.Progress

// ProgressFunc receives rebuild progress.
type ProgressFunc = builder.ProgressFunc

// ShardInfo describes one shard of an open cache.
type ShardInfo struct {
	Name   string
	Begin  int64
	End    int64
	Loaded bool
}

// Cache gives line-indexed access to one source file.
// A Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	sourcePath string
	store      store.Store
	shards     []*shard.Shard // sorted by begin line
	lineCount  int64
	rebuilt    bool
	resident   *residency.Tracker
	stats      stats.Collector
	logger     *zap.Logger
	closed     atomic.Bool
}

// Open opens the cache for sourcePath, reusing existing shards when they
// pass the size check and rebuilding them otherwise.
func Open(ctx context.Context, sourcePath string, opts ...Option) (*Cache, error) {
	if sourcePath == "" {
		return nil, ErrNoSource
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.stats == nil {
		cfg.stats = stats.NewNoop()
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("linecache: %s is not a regular file", sourcePath)
	}

	lockPath := sourcePath + lockSuffix
	st := cfg.store
	ownsStore := st == nil
	if ownsStore {
		st, err = diskstore.New(filepath.Dir(sourcePath),
			diskstore.WithExclude(filepath.Base(sourcePath), filepath.Base(lockPath)),
		)
		if err != nil {
			return nil, fmt.Errorf("opening shard directory: %w", err)
		}
	}

	// A failed Open leaves a caller-supplied store open.
	closeStore := func() {
		if ownsStore {
			st.Close()
		}
	}

	resident, err := residency.New(cfg.maxResident, cfg.stats)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("creating residency tracker: %w", err)
	}

	c := &Cache{
		sourcePath: sourcePath,
		store:      st,
		resident:   resident,
		stats:      cfg.stats,
		logger:     cfg.logger.With(zap.String("source", sourcePath)),
	}

	if cfg.fileLock {
		fl := flock.New(lockPath)
		if err := fl.Lock(); err != nil {
			closeStore()
			return nil, fmt.Errorf("locking %s: %w", lockPath, err)
		}
		defer fl.Unlock()
	}

	if err := c.load(ctx, info.Size(), &cfg); err != nil {
		closeStore()
		return nil, err
	}

	shard.Sort(c.shards)
	for _, s := range c.shards {
		c.lineCount = max(c.lineCount, s.End())
	}
	for _, p := range shard.CheckPartition(c.shards, c.lineCount) {
		c.logger.Warn("shard ranges do not partition the file", zap.Stringer("problem", p))
	}

	c.stats.IncCounter(stats.MetricOpens, 1)
	c.stats.SetGauge(stats.MetricShards, int64(len(c.shards)))
	c.logger.Debug("cache opened",
		zap.Int64("lines", c.lineCount),
		zap.Int("shards", len(c.shards)),
		zap.Bool("rebuilt", c.rebuilt),
	)

	return c, nil
}

// load adopts the existing shards when their total size matches sourceSize
// and rebuilds them otherwise.
func (c *Cache) load(ctx context.Context, sourceSize int64, cfg *options) error {
	entries, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing shards: %w", err)
	}

	if cfg.overlay {
		if err := c.removeShards(ctx, entries); err != nil {
			return err
		}
		entries = nil
	}

	cached := store.TotalSize(entries)
	if cached == sourceSize {
		return c.adopt(entries)
	}
	c.logger.Info("shard cache is stale",
		zap.Int64("cachedBytes", cached),
		zap.Int64("sourceBytes", sourceSize),
		zap.Int("staleShards", len(entries)),
		zap.Bool("overlay", cfg.overlay),
	)

	if err := c.removeShards(ctx, entries); err != nil {
		return err
	}
	return c.rebuild(ctx, sourceSize, cfg)
}

// adopt creates shards from existing file names without reading them.
func (c *Cache) adopt(entries []store.Entry) error {
	c.shards = make([]*shard.Shard, 0, len(entries))
	for _, e := range entries {
		s, err := shard.New(e.Name, shardLoader{c})
		if err != nil {
			return fmt.Errorf("adopting shards: %w", err)
		}
		c.shards = append(c.shards, s)
	}
	return nil
}

// rebuild splits the source into new shards.
func (c *Cache) rebuild(ctx context.Context, sourceSize int64, cfg *options) error {
	start := time.Now()

	f, err := os.Open(c.sourcePath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	if sw, ok := c.store.(store.TempSweeper); ok {
		n, err := sw.SweepTemp(ctx)
		if err != nil {
			return fmt.Errorf("sweeping temp files: %w", err)
		}
		if n > 0 {
			c.logger.Debug("removed leftover temp files", zap.Int("count", n))
		}
	}

	b := builder.NewBuilder(
		builder.WithMaxShardLines(cfg.maxShardLines),
		builder.WithBlockSize(cfg.blockSize),
		builder.WithSourceSize(sourceSize),
		builder.WithProgress(cfg.progress),
		builder.WithLogger(c.logger.Named("builder")),
	)
	res, err := b.Build(ctx, f, c.store)
	if err != nil {
		return fmt.Errorf("rebuilding shards: %w", err)
	}

	c.shards = make([]*shard.Shard, 0, len(res.Names))
	for _, name := range res.Names {
		s, err := shard.New(name, shardLoader{c})
		if err != nil {
			return err
		}
		c.shards = append(c.shards, s)
	}
	c.rebuilt = true

	elapsed := time.Since(start)
	c.stats.IncCounter(stats.MetricRebuilds, 1)
	c.stats.IncCounter(stats.MetricShardsWritten, int64(len(res.Names)))
	c.stats.ObserveHistogram(stats.MetricRebuildTime, elapsed.Seconds())
	c.logger.Info("shard cache rebuilt",
		zap.Int64("lines", res.Lines),
		zap.Int("shards", len(res.Names)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

// removeShards deletes every listed shard. Shards that vanished in the
// meantime are ignored; other failures are collected.
func (c *Cache) removeShards(ctx context.Context, entries []store.Entry) error {
	var errs error
	removed := 0
	for _, e := range entries {
		if err := c.store.RemoveShard(ctx, e.Name); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				errs = multierr.Append(errs, fmt.Errorf("removing %s: %w", e.Name, err))
			}
			continue
		}
		removed++
	}
	if removed > 0 {
		c.stats.IncCounter(stats.MetricShardsRemoved, int64(removed))
	}
	return errs
}

// SourcePath returns the path of the cached file.
func (c *Cache) SourcePath() string {
	return c.sourcePath
}

// LineCount returns the number of lines in the source file, computed once
// when the cache was opened.
func (c *Cache) LineCount() int64 {
	return c.lineCount
}

// Rebuilt reports whether Open had to rebuild the shards.
func (c *Cache) Rebuilt() bool {
	return c.rebuilt
}

// ReadLine returns the line at the 1-based index, including its line
// terminator as present in the source.
// It returns a *BoundsError when index is outside [1, LineCount()].
func (c *Cache) ReadLine(ctx context.Context, index int64) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	if index < 1 || index > c.lineCount {
		c.stats.IncCounter(stats.MetricBoundsErrors, 1)
		return "", &BoundsError{Index: index, Total: c.lineCount}
	}

	s, err := search.Locate(c.shards, index)
	if err != nil {
		return "", fmt.Errorf("%w: no shard covers line %d", ErrInconsistentCache, index)
	}

	line, err := s.ReadLine(ctx, index-s.Begin())
	if err != nil {
		if errors.Is(err, shard.ErrOutOfRange) {
			return "", fmt.Errorf("%w: %w", ErrInconsistentCache, err)
		}
		return "", err
	}
	c.resident.Touch(s)

	c.stats.IncCounter(stats.MetricLineReads, 1)
	return line, nil
}

// ReadLines returns a lazy sequence of the lines in [begin, end). Each call
// returns an independent sequence; loaded shards are shared between them.
// The sequence stops after yielding the first error.
func (c *Cache) ReadLines(ctx context.Context, begin, end int64) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i := begin; i < end; i++ {
			line, err := c.ReadLine(ctx, i)
			if err != nil {
				yield("", err)
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

// Shards describes the shards in line order.
func (c *Cache) Shards() []ShardInfo {
	infos := make([]ShardInfo, len(c.shards))
	for i, s := range c.shards {
		infos[i] = ShardInfo{
			Name:   s.Name(),
			Begin:  s.Begin(),
			End:    s.End(),
			Loaded: s.Loaded(),
		}
	}
	return infos
}

// Verify checks that the shards partition [1, LineCount()] and that every
// shard file holds exactly the number of lines its name claims. All
// problems found are returned together.
func (c *Cache) Verify(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	var errs error
	for _, p := range shard.CheckPartition(c.shards, c.lineCount) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInconsistentCache, p))
	}

	for _, s := range c.shards {
		data, err := c.store.ReadShard(ctx, s.Name())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reading shard %s: %w", s.Name(), err))
			continue
		}
		if n := shard.CountLines(data); n != s.Len() {
			errs = multierr.Append(errs, fmt.Errorf("%w: shard %s holds %d lines, name claims %d",
				ErrInconsistentCache, s.Name(), n, s.Len()))
		}
	}
	return errs
}

// Close releases all resources associated with the cache.
// Shard files stay on disk for the next Open.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	c.resident.Purge()
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// shardLoader reads shard content through the cache's store and records
// each load.
type shardLoader struct {
	c *Cache
}

func (l shardLoader) ReadShard(ctx context.Context, name string) ([]byte, error) {
	data, err := l.c.store.ReadShard(ctx, name)
	if err != nil {
		return nil, err
	}
	l.c.stats.IncCounter(stats.MetricShardLoads, 1)
	l.c.logger.Debug("shard loaded", zap.String("shard", name), zap.Int("bytes", len(data)))
	return data, nil
}
