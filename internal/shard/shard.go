// Package shard implements a single on-disk cache unit covering a contiguous,
// inclusive range of source lines.
package shard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfRange indicates a local index outside the lines held by a shard.
var ErrOutOfRange = errors.New("shard: line index out of range")

// Loader reads the raw content of a shard file by name.
type Loader interface {
	ReadShard(ctx context.Context, name string) ([]byte, error)
}

// Shard covers source lines [Begin, End]. Its content is loaded on first
// read and kept until Release is called.
// A Shard is safe for concurrent use by multiple goroutines.
type Shard struct {
	name   string
	begin  int64
	end    int64
	loader Loader

	mu     sync.Mutex
	loaded bool
	lines  []string
}

// New creates a shard from its file name. No I/O is performed.
func New(name string, loader Loader) (*Shard, error) {
	begin, end, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	return &Shard{
		name:   name,
		begin:  begin,
		end:    end,
		loader: loader,
	}, nil
}

// Name returns the shard file name.
func (s *Shard) Name() string { return s.name }

// Begin returns the first line covered by the shard.
func (s *Shard) Begin() int64 { return s.begin }

// End returns the last line covered by the shard.
func (s *Shard) End() int64 { return s.end }

// Len returns the number of lines the shard name claims to cover.
func (s *Shard) Len() int64 { return s.end - s.begin + 1 }

// Contains reports whether line falls within [Begin, End].
func (s *Shard) Contains(line int64) bool {
	return line >= s.begin && line <= s.end
}

// Loaded reports whether the shard content is currently in memory.
func (s *Shard) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ReadLine returns the line at the zero-based local index.
// The first call reads the whole shard file; later calls reuse it.
func (s *Shard) ReadLine(ctx context.Context, local int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		data, err := s.loader.ReadShard(ctx, s.name)
		if err != nil {
			return "", fmt.Errorf("loading shard %s: %w", s.name, err)
		}
		s.lines = SplitLines(data)
		s.loaded = true
	}

	if local < 0 || local >= int64(len(s.lines)) {
		return "", fmt.Errorf("%w: shard %s holds %d lines, requested offset %d",
			ErrOutOfRange, s.name, len(s.lines), local)
	}
	return s.lines[local], nil
}

// Release drops the in-memory content. The next ReadLine reloads it.
func (s *Shard) Release() {
	s.mu.Lock()
	s.lines = nil
	s.loaded = false
	s.mu.Unlock()
}

// SplitLines splits data after every '\n', keeping the terminator on each
// line. A final line without a terminator is returned as is.
func SplitLines(data []byte) []string {
	lines := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:idx+1]))
		data = data[idx+1:]
	}
	return lines
}

// CountLines returns the number of lines SplitLines would produce for data
// without allocating them.
func CountLines(data []byte) int64 {
	n := int64(bytes.Count(data, []byte{'\n'}))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}
