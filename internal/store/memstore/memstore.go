// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/discochess/linecache/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing. It counts mutating calls so tests
// can assert that an operation left the shard set untouched.
type Store struct {
	mu     sync.RWMutex
	shards map[string][]byte

	reads   atomic.Int64
	writes  atomic.Int64
	removes atomic.Int64
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		shards: make(map[string][]byte),
	}
}

// SetShard sets the data for a shard (for test setup) without counting it
// as a write. The data is copied to prevent caller mutations from affecting
// the store.
func (s *Store) SetShard(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shards[name] = append([]byte(nil), data...)
}

// List returns every stored shard.
func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]store.Entry, 0, len(s.shards))
	for name, data := range s.shards {
		entries = append(entries, store.Entry{Name: name, Size: int64(len(data))})
	}
	return entries, nil
}

// ReadShard reads a shard from memory.
func (s *Store) ReadShard(ctx context.Context, name string) ([]byte, error) {
	s.reads.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.shards[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

// WriteShard stores a copy of data under name.
func (s *Store) WriteShard(ctx context.Context, name string, data []byte) error {
	s.writes.Add(1)
	s.SetShard(name, data)
	return nil
}

// RemoveShard deletes a shard.
func (s *Store) RemoveShard(ctx context.Context, name string) error {
	s.removes.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shards[name]; !ok {
		return store.ErrNotFound
	}
	delete(s.shards, name)
	return nil
}

// Reads returns the number of ReadShard calls.
func (s *Store) Reads() int64 { return s.reads.Load() }

// Writes returns the number of WriteShard calls.
func (s *Store) Writes() int64 { return s.writes.Load() }

// Removes returns the number of RemoveShard calls.
func (s *Store) Removes() int64 { return s.removes.Load() }

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
