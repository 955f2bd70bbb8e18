// Package lz4codec provides an lz4 frame codec.
package lz4codec

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/discochess/linecache/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements lz4 frame compression.
type Codec struct {
	level lz4.CompressionLevel
}

// New returns an lz4 codec. A zero level means lz4.Fast.
func New(level lz4.CompressionLevel) *Codec {
	return &Codec{level: level}
}

// Reader wraps r to decompress lz4 frames.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// Writer wraps w to compress data into an lz4 frame.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(c.level)); err != nil {
		return nil, err
	}
	return zw, nil
}

// Extension returns "lz4".
func (c *Codec) Extension() string {
	return "lz4"
}
