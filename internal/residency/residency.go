// Package residency bounds how many shards keep their lines in memory.
package residency

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/linecache/internal/shard"
	"github.com/discochess/linecache/internal/stats"
)

// Tracker records recently read shards and releases the least recently used
// one once more than capacity are resident. A Tracker with capacity <= 0
// tracks nothing and never releases.
type Tracker struct {
	cache     *lru.Cache[string, *shard.Shard]
	collector stats.Collector
}

// New creates a Tracker. The collector is optional.
func New(capacity int, collector stats.Collector) (*Tracker, error) {
	if collector == nil {
		collector = stats.NewNoop()
	}
	t := &Tracker{collector: collector}
	if capacity <= 0 {
		return t, nil
	}

	c, err := lru.NewWithEvict[string, *shard.Shard](capacity, t.onEvict)
	if err != nil {
		return nil, err
	}
	t.cache = c
	return t, nil
}

// Touch marks s as most recently used.
func (t *Tracker) Touch(s *shard.Shard) {
	if t.cache == nil {
		return
	}
	t.cache.Add(s.Name(), s)
	t.collector.SetGauge(stats.MetricResidentShards, int64(t.cache.Len()))
}

// Len returns the number of tracked shards.
func (t *Tracker) Len() int {
	if t.cache == nil {
		return 0
	}
	return t.cache.Len()
}

// Purge releases every tracked shard.
func (t *Tracker) Purge() {
	if t.cache == nil {
		return
	}
	t.cache.Purge()
}

func (t *Tracker) onEvict(_ string, s *shard.Shard) {
	s.Release()
	t.collector.IncCounter(stats.MetricShardEvictions, 1)
}
