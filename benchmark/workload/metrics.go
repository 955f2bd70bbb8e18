package workload

import (
	"sort"
)

// Concentration returns the Gini coefficient of shard usage: 0 when every
// shard is read equally often, approaching 1 when a few shards take all
// reads.
func (r *Result) Concentration() float64 {
	if len(r.ShardHits) == 0 {
		return 0
	}

	values := make([]int, 0, len(r.ShardHits))
	for _, v := range r.ShardHits {
		values = append(values, v)
	}
	sort.Ints(values)

	n := float64(len(values))
	var sum, cumulativeSum float64
	for i, v := range values {
		sum += float64(v)
		cumulativeSum += float64(i+1) * float64(v)
	}
	if sum == 0 {
		return 0
	}
	return (2*cumulativeSum)/(n*sum) - (n+1)/n
}

// TopShardPct returns the percentage of reads landing in the most read
// fraction of shards.
func (r *Result) TopShardPct(fraction float64) float64 {
	if r.Reads == 0 || len(r.ShardHits) == 0 {
		return 0
	}

	hits := make([]int, 0, len(r.ShardHits))
	for _, h := range r.ShardHits {
		hits = append(hits, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(hits)))

	top := max(int(float64(len(hits))*fraction), 1)
	var topHits int
	for _, h := range hits[:min(top, len(hits))] {
		topHits += h
	}
	return float64(topHits) / float64(r.Reads) * 100
}
