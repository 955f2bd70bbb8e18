package micro

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/discochess/linecache"
	"github.com/discochess/linecache/benchmark/workload"
)

const benchLines = 200_000

// writeSource creates a file of benchLines numbered lines, or uses
// LINECACHE_SOURCE when set.
func writeSource(b *testing.B) string {
	b.Helper()
	if path := os.Getenv("LINECACHE_SOURCE"); path != "" {
		return path
	}

	path := filepath.Join(b.TempDir(), "bench.log")
	f, err := os.Create(path)
	if err != nil {
		b.Fatal(err)
	}
	w := bufio.NewWriter(f)
	for i := 1; i <= benchLines; i++ {
		fmt.Fprintf(w, "2024-01-01T00:00:00Z INFO request %d served in 12ms\n", i)
	}
	if err := w.Flush(); err != nil {
		b.Fatal(err)
	}
	if err := f.Close(); err != nil {
		b.Fatal(err)
	}
	return path
}

func openCache(b *testing.B, path string, opts ...linecache.Option) *linecache.Cache {
	b.Helper()
	c, err := linecache.Open(context.Background(), path, opts...)
	if err != nil {
		b.Fatalf("opening cache: %v", err)
	}
	b.Cleanup(func() { c.Close() })
	return c
}

// BenchmarkOpen_Rebuild measures splitting the source into shards.
func BenchmarkOpen_Rebuild(b *testing.B) {
	path := writeSource(b)
	info, err := os.Stat(path)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(info.Size())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := linecache.Open(context.Background(), path, linecache.WithOverlay(true))
		if err != nil {
			b.Fatal(err)
		}
		c.Close()
	}
}

// BenchmarkOpen_Reuse measures opening a valid cache.
func BenchmarkOpen_Reuse(b *testing.B) {
	path := writeSource(b)
	openCache(b, path).Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := linecache.Open(context.Background(), path)
		if err != nil {
			b.Fatal(err)
		}
		c.Close()
	}
}

// BenchmarkReadLine measures line reads per access pattern with every
// shard kept resident.
func BenchmarkReadLine(b *testing.B) {
	path := writeSource(b)
	c := openCache(b, path)
	ctx := context.Background()

	for _, pattern := range workload.Patterns {
		b.Run(string(pattern), func(b *testing.B) {
			lines, err := workload.Generate(pattern, c.LineCount(), 4096, 1)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.ReadLine(ctx, lines[i%len(lines)]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkReadLine_Evicting measures random reads when only two shards
// may stay resident.
func BenchmarkReadLine_Evicting(b *testing.B) {
	path := writeSource(b)
	c := openCache(b, path, linecache.WithMaxResidentShards(2))
	ctx := context.Background()

	lines, err := workload.Generate(workload.Random, c.LineCount(), 4096, 1)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.ReadLine(ctx, lines[i%len(lines)]); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadLines measures iterating a full shard.
func BenchmarkReadLines(b *testing.B) {
	path := writeSource(b)
	c := openCache(b, path)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, err := range c.ReadLines(ctx, 1, linecache.DefaultMaxShardLines+1) {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
