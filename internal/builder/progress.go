// Package builder splits a source file into line-range shard files.
package builder

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Build phases reported through Progress.
const (
	PhaseSplit = "split"
	PhaseDone  = "done"
	PhaseError = "error"
)

// Progress tracks build progress.
type Progress struct {
	Phase         string
	BytesRead     int64
	BytesTotal    int64
	LinesWritten  int64
	ShardsCreated int
	StartTime     time.Time
	Error         error
}

// ProgressFunc is called with progress updates.
type ProgressFunc func(Progress)

// progressReader wraps an io.Reader to track bytes read.
type progressReader struct {
	r    io.Reader
	read *atomic.Int64
}

func newProgressReader(r io.Reader, counter *atomic.Int64) *progressReader {
	return &progressReader{r: r, read: counter}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read.Add(int64(n))
	return n, err
}

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// NewPrinter returns a ProgressFunc that writes one status line to w,
// rewriting it in place while splitting.
func NewPrinter(w io.Writer) ProgressFunc {
	return func(p Progress) {
		switch p.Phase {
		case PhaseSplit:
			pct := float64(0)
			if p.BytesTotal > 0 {
				pct = float64(p.BytesRead) / float64(p.BytesTotal) * 100
			}
			fmt.Fprintf(w, "\r[Split] %s / %s (%.1f%%), %d shards, %d lines",
				FormatBytes(p.BytesRead), FormatBytes(p.BytesTotal), pct, p.ShardsCreated, p.LinesWritten)
		case PhaseDone:
			elapsed := time.Since(p.StartTime)
			fmt.Fprintf(w, "\n[Done] %d lines in %d shards (%s)\n",
				p.LinesWritten, p.ShardsCreated, FormatDuration(elapsed))
		case PhaseError:
			fmt.Fprintf(w, "\n[Error] %v\n", p.Error)
		}
	}
}
