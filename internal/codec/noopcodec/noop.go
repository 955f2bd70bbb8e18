// Package noopcodec exports lines uncompressed.
package noopcodec

import (
	"io"

	"github.com/discochess/linecache/internal/codec"
)

var _ codec.Codec = Codec{}

// Codec passes data through unchanged.
type Codec struct{}

// Reader returns r as a ReadCloser. Closing it does not close r.
func (Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w as a WriteCloser. Closing it does not close w, so an
// exported file stays owned by the caller.
func (Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Extension returns empty string.
func (Codec) Extension() string {
	return ""
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
