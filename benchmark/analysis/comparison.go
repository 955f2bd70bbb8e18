package analysis

import (
	"fmt"
)

// Sample is a named set of read latencies in microseconds.
type Sample struct {
	Name      string
	Latencies []float64
}

// Comparison contains a statistical comparison between two runs.
type Comparison struct {
	Name1           string
	Name2           string
	Stats1          *DescriptiveStats
	Stats2          *DescriptiveStats
	MannWhitney     *MannWhitneyResult
	EffectSize      *EffectSize
	Winner          string // Name of the run with lower mean latency, or "tie".
	WinnerConfident bool   // True if statistically significant.
}

// Compare performs a statistical comparison between two runs.
func Compare(s1, s2 Sample) *Comparison {
	stats1 := Describe(s1.Latencies)
	stats2 := Describe(s2.Latencies)
	mw := MannWhitneyU(s1.Latencies, s2.Latencies)

	winner := "tie"
	switch {
	case stats1.Mean < stats2.Mean:
		winner = s1.Name
	case stats2.Mean < stats1.Mean:
		winner = s2.Name
	}

	return &Comparison{
		Name1:           s1.Name,
		Name2:           s2.Name,
		Stats1:          stats1,
		Stats2:          stats2,
		MannWhitney:     mw,
		EffectSize:      ComputeEffectSize(s1.Latencies, s2.Latencies),
		Winner:          winner,
		WinnerConfident: winner != "tie" && mw.Significant,
	}
}

// Summary returns a human-readable summary of the comparison.
func (c *Comparison) Summary() string {
	sig := "not statistically significant"
	if c.MannWhitney.Significant {
		sig = fmt.Sprintf("statistically significant (p=%.4f)", c.MannWhitney.PValue)
	}

	return fmt.Sprintf(
		"%s vs %s:\n"+
			"  %s: mean=%.2fus, p50=%.2fus, p99=%.2fus\n"+
			"  %s: mean=%.2fus, p50=%.2fus, p99=%.2fus\n"+
			"  Difference: %.2fus (%.1f%%)\n"+
			"  Effect size: %.2f (%s)\n"+
			"  Result: %s, %s",
		c.Name1, c.Name2,
		c.Name1, c.Stats1.Mean, c.Stats1.P50, c.Stats1.P99,
		c.Name2, c.Stats2.Mean, c.Stats2.P50, c.Stats2.P99,
		c.Stats1.Mean-c.Stats2.Mean,
		safePctDiff(c.Stats1.Mean, c.Stats2.Mean),
		c.EffectSize.CohensD, c.EffectSize.Interpretation,
		c.Winner, sig,
	)
}

func safePctDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}
