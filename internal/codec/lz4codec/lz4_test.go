package lz4codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestCodec_RoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("GET /index.html 200\n"), 5000)

	for _, level := range []lz4.CompressionLevel{lz4.Fast, lz4.Level5, lz4.Level9} {
		c := New(level)
		var compressed bytes.Buffer
		w, err := c.Writer(&compressed)
		if err != nil {
			t.Fatalf("Writer(%v) error = %v", level, err)
		}
		if _, err := w.Write(original); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if compressed.Len() >= len(original) {
			t.Errorf("level %v: %d bytes from %d, expected compression", level, compressed.Len(), len(original))
		}

		r, err := c.Reader(&compressed)
		if err != nil {
			t.Fatalf("Reader() error = %v", err)
		}
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, original) {
			t.Errorf("level %v: round trip changed data", level)
		}
	}
}

func TestCodec_Extension(t *testing.T) {
	if got := New(lz4.Fast).Extension(); got != "lz4" {
		t.Errorf("Extension() = %q, want %q", got, "lz4")
	}
}
