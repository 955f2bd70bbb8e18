package shard

import (
	"fmt"
	"sort"
)

// Problem describes a hole or an overlap in a shard set.
type Problem struct {
	Kind  string // "gap" or "overlap"
	Begin int64
	End   int64
}

func (p Problem) String() string {
	return fmt.Sprintf("%s in lines [%d, %d]", p.Kind, p.Begin, p.End)
}

// Sort orders shards by begin line, breaking ties by end line.
func Sort(shards []*Shard) {
	sort.Slice(shards, func(i, j int) bool {
		if shards[i].begin != shards[j].begin {
			return shards[i].begin < shards[j].begin
		}
		return shards[i].end < shards[j].end
	})
}

// CheckPartition reports every gap and overlap between shards and the range
// [1, total]. The shards must already be sorted with Sort.
func CheckPartition(shards []*Shard, total int64) []Problem {
	var problems []Problem
	next := int64(1)
	for _, s := range shards {
		switch {
		case s.begin > next:
			problems = append(problems, Problem{Kind: "gap", Begin: next, End: s.begin - 1})
		case s.begin < next:
			problems = append(problems, Problem{Kind: "overlap", Begin: s.begin, End: min(s.end, next-1)})
		}
		next = max(next, s.end+1)
	}
	if next <= total {
		problems = append(problems, Problem{Kind: "gap", Begin: next, End: total})
	}
	return problems
}
