package linecache

import (
	"errors"
	"fmt"

	"github.com/discochess/linecache/internal/shard"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the cache has been closed.
	ErrClosed = errors.New("linecache: cache closed")

	// ErrNoSource indicates an empty source path.
	ErrNoSource = errors.New("linecache: no source path provided")

	// ErrInconsistentCache indicates shard metadata or content that does not
	// match the line count, e.g. a missing range after external tampering.
	ErrInconsistentCache = errors.New("linecache: inconsistent cache")
)

// BoundsError reports a line index outside [1, Total].
type BoundsError struct {
	Index int64
	Total int64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("linecache: line %d out of range, file has %d lines", e.Index, e.Total)
}

// ParseError reports a shard file name that does not encode a line range.
type ParseError = shard.ParseError
