// Package store defines the storage backend interface for shard files.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a shard does not exist in the store.
var ErrNotFound = errors.New("store: shard not found")

// Entry describes a shard candidate found by List.
type Entry struct {
	Name string
	Size int64
}

// Store defines the interface for storage backends.
// Implementations decide where shard files live and how candidates are
// discovered.
type Store interface {
	// List returns every shard candidate with its size in bytes.
	List(ctx context.Context) ([]Entry, error)

	// ReadShard reads the full content of the named shard.
	ReadShard(ctx context.Context, name string) ([]byte, error)

	// WriteShard creates or replaces the named shard.
	WriteShard(ctx context.Context, name string, data []byte) error

	// RemoveShard deletes the named shard.
	RemoveShard(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}

// TempSweeper is implemented by stores that stage writes in temp files.
// SweepTemp removes staged files left behind by an interrupted write and
// reports how many were removed.
type TempSweeper interface {
	SweepTemp(ctx context.Context) (int, error)
}

// TotalSize sums the sizes of entries.
func TotalSize(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total
}
