// Package reporting renders read benchmark results as Markdown.
package reporting

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/discochess/linecache/benchmark/analysis"
	"github.com/discochess/linecache/benchmark/workload"
)

// Run is the outcome of one benchmark configuration.
type Run struct {
	Name      string
	Resident  int // 0 keeps every shard.
	Latencies []float64
	Workload  *workload.Result
}

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(source string, lines int64, reads int, pattern workload.Pattern) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Source:** %s (%d lines)\n", source, lines)
	fmt.Fprintf(r.w, "- **Reads per run:** %d\n", reads)
	fmt.Fprintf(r.w, "- **Access pattern:** %s\n", pattern)
	fmt.Fprintln(r.w, "- **Metric:** ReadLine latency in microseconds (lower is better)")
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes one row per run.
func (r *MarkdownReport) WriteSummaryTable(runs []Run) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Run | Resident | Mean (us) | P50 | P90 | P99 | Shard Loads | Hit Rate |")
	fmt.Fprintln(r.w, "|-----|----------|-----------|-----|-----|-----|-------------|----------|")

	for _, run := range runs {
		s := analysis.Describe(run.Latencies)
		resident := "all"
		if run.Resident > 0 {
			resident = fmt.Sprint(run.Resident)
		}
		loads, hitRate := "-", "-"
		if run.Workload != nil {
			loads = fmt.Sprint(run.Workload.ShardLoads)
			hitRate = fmt.Sprintf("%.1f%%", run.Workload.HitRate())
		}
		fmt.Fprintf(r.w, "| %s | %s | %.2f | %.2f | %.2f | %.2f | %s | %s |\n",
			run.Name, resident, s.Mean, s.P50, s.P90, s.P99, loads, hitRate)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section.
func (r *MarkdownReport) WriteComparison(comp *analysis.Comparison) {
	fmt.Fprintf(r.w, "## %s vs %s\n\n", comp.Name1, comp.Name2)

	fmt.Fprintln(r.w, "### Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Metric | "+comp.Name1+" | "+comp.Name2+" |")
	fmt.Fprintln(r.w, "|--------|"+strings.Repeat("-", len(comp.Name1)+2)+"|"+strings.Repeat("-", len(comp.Name2)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %.2f | %.2f |\n", comp.Stats1.Mean, comp.Stats2.Mean)
	fmt.Fprintf(r.w, "| P50 | %.2f | %.2f |\n", comp.Stats1.P50, comp.Stats2.P50)
	fmt.Fprintf(r.w, "| P99 | %.2f | %.2f |\n", comp.Stats1.P99, comp.Stats2.P99)
	fmt.Fprintf(r.w, "| Std Dev | %.2f | %.2f |\n", comp.Stats1.StdDev, comp.Stats2.StdDev)
	fmt.Fprintf(r.w, "| Max | %.2f | %.2f |\n", comp.Stats1.Max, comp.Stats2.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	if comp.WinnerConfident {
		loser := comp.Name1
		if comp.Winner == comp.Name1 {
			loser = comp.Name2
		}
		fmt.Fprintf(r.w, "**%s** reads significantly faster than %s ", comp.Winner, loser)
		fmt.Fprintf(r.w, "(p < 0.05, effect size: %s).\n", comp.EffectSize.Interpretation)
	} else {
		fmt.Fprintln(r.w, "No statistically significant difference detected between runs (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

// WriteDistributionChart writes an ASCII latency histogram.
func (r *MarkdownReport) WriteDistributionChart(name string, latencies []float64) {
	fmt.Fprintf(r.w, "### %s Distribution\n\n", name)
	fmt.Fprintln(r.w, "```")

	edges, hist := makeHistogram(latencies, 10)
	maxCount := 0
	for _, count := range hist {
		maxCount = max(maxCount, count)
	}

	const width = 40
	for i, count := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = count * width / maxCount
		}
		fmt.Fprintf(r.w, "%9.1f-%9.1f │ %s %d\n", edges[i], edges[i+1], strings.Repeat("█", barLen), count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

// makeHistogram buckets data into equal-width bins and returns the bin edges
// alongside the counts.
func makeHistogram(data []float64, buckets int) ([]float64, []int) {
	hist := make([]int, buckets)
	edges := make([]float64, buckets+1)
	if len(data) == 0 {
		return edges, hist
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	size := (hi - lo) / float64(buckets)
	for i := range edges {
		edges[i] = lo + float64(i)*size
	}
	for _, v := range data {
		bucket := min(int((v-lo)/size), buckets-1)
		hist[bucket]++
	}
	return edges, hist
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by linecache bench*")
}
