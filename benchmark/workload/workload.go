// Package workload generates line access patterns and replays them against a
// model of shard residency.
package workload

import (
	"fmt"
	"math/rand/v2"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Pattern names an access pattern.
type Pattern string

const (
	// Sequential reads lines in order, wrapping at the end of the file.
	Sequential Pattern = "sequential"
	// Random reads uniformly distributed lines.
	Random Pattern = "random"
	// Hotspot sends 90% of reads to a window of 1% of the file.
	Hotspot Pattern = "hotspot"
)

// Patterns lists every supported pattern.
var Patterns = []Pattern{Sequential, Random, Hotspot}

// Generate returns n 1-based line numbers in [1, lineCount] following
// pattern. The same seed always yields the same lines.
func Generate(pattern Pattern, lineCount int64, n int, seed uint64) ([]int64, error) {
	if lineCount <= 0 {
		return nil, fmt.Errorf("workload: no lines to read")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	lines := make([]int64, n)

	switch pattern {
	case Sequential:
		start := rng.Int64N(lineCount)
		for i := range lines {
			lines[i] = (start+int64(i))%lineCount + 1
		}
	case Random:
		for i := range lines {
			lines[i] = rng.Int64N(lineCount) + 1
		}
	case Hotspot:
		window := max(lineCount/100, 1)
		base := rng.Int64N(lineCount - window + 1)
		for i := range lines {
			if rng.IntN(10) < 9 {
				lines[i] = base + rng.Int64N(window) + 1
			} else {
				lines[i] = rng.Int64N(lineCount) + 1
			}
		}
	default:
		return nil, fmt.Errorf("workload: unknown pattern %q", pattern)
	}
	return lines, nil
}

// Result describes how a sequence of reads maps onto shards.
type Result struct {
	Reads         int
	ShardLoads    int           // Reads that had to load a shard.
	ShardSwitches int           // Consecutive reads landing in different shards.
	UniqueShards  int
	ShardHits     map[int64]int // Shard index -> reads.
}

// HitRate returns the percentage of reads served from a resident shard.
func (r *Result) HitRate() float64 {
	if r.Reads == 0 {
		return 0
	}
	return float64(r.Reads-r.ShardLoads) / float64(r.Reads) * 100
}

// Replay maps lines onto shards of maxShardLines lines and counts shard loads
// for a residency limit of capacity shards. Capacity 0 keeps every shard.
func Replay(lines []int64, maxShardLines int64, capacity int) (*Result, error) {
	if maxShardLines <= 0 {
		return nil, fmt.Errorf("workload: invalid shard size %d", maxShardLines)
	}

	res := &Result{
		Reads:     len(lines),
		ShardHits: make(map[int64]int),
	}

	var resident *lru.Cache[int64, struct{}]
	if capacity > 0 {
		var err error
		if resident, err = lru.New[int64, struct{}](capacity); err != nil {
			return nil, err
		}
	}
	seen := make(map[int64]bool)

	last := int64(-1)
	for _, line := range lines {
		idx := (line - 1) / maxShardLines
		res.ShardHits[idx]++

		if idx != last {
			res.ShardSwitches++
			last = idx
		}

		if resident != nil {
			if _, ok := resident.Get(idx); !ok {
				res.ShardLoads++
				resident.Add(idx, struct{}{})
			}
		} else if !seen[idx] {
			res.ShardLoads++
		}
		seen[idx] = true
	}

	res.UniqueShards = len(seen)
	return res, nil
}
