// Package search locates the shard covering a line.
package search

import (
	"errors"
	"sort"

	"github.com/discochess/linecache/internal/shard"
)

// ErrNotFound indicates no shard covers the requested line.
var ErrNotFound = errors.New("no shard covers line")

// Locate returns the shard whose range contains line.
// The shards must be sorted with shard.Sort.
func Locate(shards []*shard.Shard, line int64) (*shard.Shard, error) {
	// First shard ending at or after line.
	idx := sort.Search(len(shards), func(i int) bool {
		return shards[i].End() >= line
	})
	if idx < len(shards) && shards[idx].Contains(line) {
		return shards[idx], nil
	}

	// Overlapping shards break the ordering of End; scan for any cover.
	for _, s := range shards {
		if s.Contains(line) {
			return s, nil
		}
	}
	return nil, ErrNotFound
}
