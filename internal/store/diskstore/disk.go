// Package diskstore implements a storage backend that keeps shard files in a
// single local directory.
package diskstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/discochess/linecache/internal/shard"
	"github.com/discochess/linecache/internal/store"
)

// Compile-time checks that Store implements the store interfaces.
var (
	_ store.Store       = (*Store)(nil)
	_ store.TempSweeper = (*Store)(nil)
)

// tempPrefix marks in-flight writes. Temp names never contain shard.Extension,
// so List ignores them.
const (
	tempPrefix = ".linecache-"
	tempSuffix = ".tmp"
)

// Store is a disk-based filesystem storage backend.
type Store struct {
	root    string
	exclude map[string]struct{}
	perm    os.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithExclude hides the given base names from List, e.g. the source file
// itself when its name happens to contain the shard extension.
func WithExclude(names ...string) Option {
	return func(s *Store) {
		for _, n := range names {
			s.exclude[n] = struct{}{}
		}
	}
}

// WithFileMode sets the permission bits of newly written shards.
// Defaults to 0644.
func WithFileMode(perm os.FileMode) Option {
	return func(s *Store) { s.perm = perm }
}

// New creates a new disk store rooted at the given directory.
// The directory must exist.
func New(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	s := &Store{
		root:    root,
		exclude: make(map[string]struct{}),
		perm:    0644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the directory holding the shards.
func (s *Store) Root() string {
	return s.root
}

// List returns every regular file whose name contains the shard extension.
func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading shard directory: %w", err)
	}

	var entries []store.Entry
	for _, de := range dirEntries {
		name := de.Name()
		if !strings.Contains(name, shard.Extension) {
			continue
		}
		if _, skip := s.exclude[name]; skip {
			continue
		}
		info, err := de.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, store.Entry{Name: name, Size: info.Size()})
	}
	return entries, nil
}

// ReadShard reads the content of the named shard.
func (s *Store) ReadShard(ctx context.Context, name string) ([]byte, error) {
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading shard: %w", err)
	}
	return data, nil
}

// WriteShard writes the shard to a temp file and renames it into place, so a
// shard file is either absent or complete.
func (s *Store) WriteShard(ctx context.Context, name string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	tmp := s.path(tempPrefix + uuid.NewString() + tempSuffix)
	if err := os.WriteFile(tmp, data, s.perm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing shard %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming shard %s: %w", name, err)
	}
	return nil
}

// RemoveShard deletes the named shard. Removing a missing shard returns
// store.ErrNotFound.
func (s *Store) RemoveShard(ctx context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("removing shard: %w", err)
	}
	return nil
}

// SweepTemp removes temp files left by a WriteShard that never reached its
// rename. It must not run concurrently with WriteShard.
func (s *Store) SweepTemp(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("reading shard directory: %w", err)
	}

	removed := 0
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := de.Name()
		if !de.Type().IsRegular() || !strings.HasPrefix(name, tempPrefix) || !strings.HasSuffix(name, tempSuffix) {
			continue
		}
		if _, excluded := s.exclude[name]; excluded {
			continue
		}
		if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("removing temp file %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// path returns the filesystem path for a shard name.
func (s *Store) path(name string) string {
	return filepath.Join(s.root, name)
}
