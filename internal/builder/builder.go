package builder

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/linecache/internal/shard"
)

const (
	// DefaultMaxShardLines is the maximum number of lines per shard.
	DefaultMaxShardLines = 10000

	// DefaultBlockSize is the number of bytes read from the source per block.
	DefaultBlockSize = 10 << 20

	readBufferSize = 64 << 10
)

// ShardWriter persists a finished shard.
type ShardWriter interface {
	WriteShard(ctx context.Context, name string, data []byte) error
}

// Builder splits a source stream into line-range shards.
type Builder struct {
	maxLines   int64
	blockSize  int
	sourceSize int64
	progress   ProgressFunc
	logger     *zap.Logger
}

// Option configures the Builder.
type Option func(*Builder)

// WithMaxShardLines sets the maximum number of lines per shard.
func WithMaxShardLines(n int64) Option {
	return func(b *Builder) { b.maxLines = n }
}

// WithBlockSize sets the source block size in bytes.
func WithBlockSize(n int) Option {
	return func(b *Builder) { b.blockSize = n }
}

// WithSourceSize sets the expected source size, used only for progress.
func WithSourceSize(n int64) Option {
	return func(b *Builder) { b.sourceSize = n }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Builder) { b.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a new Builder with the given options.
// Non-positive sizes fall back to the defaults.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		maxLines:  DefaultMaxShardLines,
		blockSize: DefaultBlockSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxLines <= 0 {
		b.maxLines = DefaultMaxShardLines
	}
	if b.blockSize <= 0 {
		b.blockSize = DefaultBlockSize
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// Result summarizes a finished build.
type Result struct {
	// Names lists the written shards in creation order.
	Names []string
	// Lines is the number of source lines.
	Lines int64
	// Bytes is the total size of the written shards.
	Bytes int64
}

// piece is one shard worth of lines cut from a block.
type piece struct {
	begin int64
	end   int64
	data  []byte
}

// Build reads src once, front to back, and writes shards to dst.
// Reading the next block overlaps with writing the previous shard, but
// shards are always written one at a time in line order.
func (b *Builder) Build(ctx context.Context, src io.Reader, dst ShardWriter) (*Result, error) {
	startTime := time.Now()

	var bytesRead atomic.Int64
	reader := bufio.NewReaderSize(newProgressReader(src, &bytesRead), readBufferSize)

	pieces := make(chan piece, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pieces)
		return b.split(gctx, reader, pieces)
	})

	result := &Result{}
	g.Go(func() error {
		for p := range pieces {
			name := shard.FormatName(p.begin, p.end)
			if err := dst.WriteShard(gctx, name, p.data); err != nil {
				return fmt.Errorf("writing shard %s: %w", name, err)
			}
			result.Names = append(result.Names, name)
			result.Lines = p.end
			result.Bytes += int64(len(p.data))

			b.logger.Debug("shard written",
				zap.String("shard", name),
				zap.Int("bytes", len(p.data)),
			)
			b.reportProgress(Progress{
				Phase:         PhaseSplit,
				BytesRead:     bytesRead.Load(),
				BytesTotal:    b.sourceSize,
				LinesWritten:  result.Lines,
				ShardsCreated: len(result.Names),
				StartTime:     startTime,
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		b.reportProgress(Progress{Phase: PhaseError, Error: err, StartTime: startTime})
		return nil, err
	}

	b.reportProgress(Progress{
		Phase:         PhaseDone,
		BytesRead:     bytesRead.Load(),
		BytesTotal:    b.sourceSize,
		LinesWritten:  result.Lines,
		ShardsCreated: len(result.Names),
		StartTime:     startTime,
	})
	return result, nil
}

// split cuts the source into pieces of at most maxLines lines. Line numbers
// continue across blocks, starting at 1.
func (b *Builder) split(ctx context.Context, r *bufio.Reader, out chan<- piece) error {
	next := int64(1)
	for {
		block, err := b.readBlock(r)
		if err != nil {
			return err
		}
		if len(block) == 0 {
			return nil
		}

		for len(block) > 0 {
			n, cut := cutLines(block, b.maxLines)
			p := piece{begin: next, end: next + n - 1, data: block[:cut]}
			select {
			case out <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
			next += n
			block = block[cut:]
		}
	}
}

// readBlock reads up to blockSize bytes and extends the block to the next
// line boundary so no line spans two blocks. It returns an empty block at
// end of input.
func (b *Builder) readBlock(r *bufio.Reader) ([]byte, error) {
	buf := make([]byte, b.blockSize)
	n, err := io.ReadFull(r, buf)
	switch {
	case err == io.EOF:
		return nil, nil
	case err == io.ErrUnexpectedEOF:
		return buf[:n], nil
	case err != nil:
		return nil, fmt.Errorf("reading source: %w", err)
	}

	if buf[n-1] == '\n' {
		return buf, nil
	}
	rest, err := r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return append(buf, rest...), nil
}

// cutLines returns the number of lines in the longest prefix of data holding
// at most limit lines, and the byte length of that prefix. An unterminated
// tail counts as one line.
func cutLines(data []byte, limit int64) (int64, int) {
	var n int64
	off := 0
	for n < limit && off < len(data) {
		idx := bytes.IndexByte(data[off:], '\n')
		if idx < 0 {
			return n + 1, len(data)
		}
		off += idx + 1
		n++
	}
	return n, off
}

func (b *Builder) reportProgress(p Progress) {
	if b.progress != nil {
		b.progress(p)
	}
}
