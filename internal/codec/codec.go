// Package codec compresses line ranges exported from a cache.
package codec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// Export compresses every line of seq into w and returns the number of lines
// written. Lines are written as given, terminators included. Export stops at
// the first error from seq, the codec or ctx.
func Export(ctx context.Context, w io.Writer, c Codec, seq iter.Seq2[string, error]) (int64, error) {
	cw, err := c.Writer(w)
	if err != nil {
		return 0, fmt.Errorf("creating %s writer: %w", name(c), err)
	}
	bw := bufio.NewWriter(cw)

	var n int64
	for line, err := range seq {
		if err != nil {
			cw.Close()
			return n, err
		}
		if err := ctx.Err(); err != nil {
			cw.Close()
			return n, err
		}
		if _, err := bw.WriteString(line); err != nil {
			cw.Close()
			return n, fmt.Errorf("writing line %d: %w", n+1, err)
		}
		n++
	}

	if err := bw.Flush(); err != nil {
		cw.Close()
		return n, fmt.Errorf("flushing: %w", err)
	}
	if err := cw.Close(); err != nil {
		return n, fmt.Errorf("closing %s writer: %w", name(c), err)
	}
	return n, nil
}

func name(c Codec) string {
	if ext := c.Extension(); ext != "" {
		return ext
	}
	return "plain"
}
