package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/linecache"
	"github.com/discochess/linecache/benchmark/analysis"
	"github.com/discochess/linecache/benchmark/reporting"
	"github.com/discochess/linecache/benchmark/workload"
)

var benchCmd = &cobra.Command{
	Use:   "bench FILE",
	Short: "Measure read latency and write a Markdown report",
	Long: `Replay a generated access pattern against the cache of FILE and report
ReadLine latency.

With --compare-resident N, the same reads are replayed a second time with
at most N shards resident and both runs are compared.

Examples:
  linecache bench ./access.log --reads 20000 --pattern hotspot
  linecache bench ./access.log --pattern random --compare-resident 4 > report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

var (
	benchReads      int
	benchPattern    string
	benchSeed       uint64
	compareResident int
)

func init() {
	benchCmd.Flags().IntVar(&benchReads, "reads", 10000, "number of reads per run")
	benchCmd.Flags().StringVar(&benchPattern, "pattern", string(workload.Random), "access pattern: sequential, random, hotspot")
	benchCmd.Flags().Uint64Var(&benchSeed, "seed", 1, "seed for the access pattern")
	benchCmd.Flags().IntVar(&compareResident, "compare-resident", 0, "also run with at most this many resident shards")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	// The first open builds the cache if needed so that runs only time reads.
	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	lineCount := cache.LineCount()
	cleanup()

	pattern := workload.Pattern(benchPattern)
	lines, err := workload.Generate(pattern, lineCount, benchReads, benchSeed)
	if err != nil {
		return err
	}

	configs := []int{maxResident}
	if compareResident > 0 {
		configs = append(configs, compareResident)
	}

	var runs []reporting.Run
	for _, resident := range configs {
		run, err := benchRun(ctx, args[0], lines, resident)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	r := reporting.NewMarkdownReport(cmd.OutOrStdout())
	r.WriteHeader("linecache Read Benchmark")
	r.WriteMethodology(args[0], lineCount, benchReads, pattern)
	r.WriteSummaryTable(runs)
	if len(runs) == 2 {
		r.WriteComparison(analysis.Compare(
			analysis.Sample{Name: runs[0].Name, Latencies: runs[0].Latencies},
			analysis.Sample{Name: runs[1].Name, Latencies: runs[1].Latencies},
		))
	}
	for _, run := range runs {
		r.WriteDistributionChart(run.Name, run.Latencies)
	}
	r.WriteFooter()
	return nil
}

// benchRun opens a fresh cache limited to resident shards and times every
// read in lines.
func benchRun(ctx context.Context, path string, lines []int64, resident int) (reporting.Run, error) {
	name := "all-resident"
	if resident > 0 {
		name = fmt.Sprintf("resident-%d", resident)
	}

	cache, cleanup, err := openCache(ctx, path, linecache.WithMaxResidentShards(resident))
	if err != nil {
		return reporting.Run{}, err
	}
	defer cleanup()

	latencies := make([]float64, len(lines))
	for i, line := range lines {
		start := time.Now()
		if _, err := cache.ReadLine(ctx, line); err != nil {
			return reporting.Run{}, err
		}
		latencies[i] = float64(time.Since(start).Nanoseconds()) / 1e3
	}

	replay, err := workload.Replay(lines, maxShardLines, resident)
	if err != nil {
		return reporting.Run{}, err
	}

	return reporting.Run{
		Name:      name,
		Resident:  resident,
		Latencies: latencies,
		Workload:  replay,
	}, nil
}
