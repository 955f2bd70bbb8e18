package analysis

import (
	"strings"
	"testing"
)

func TestMannWhitneyU(t *testing.T) {
	tests := []struct {
		name       string
		sample1    []float64
		sample2    []float64
		wantSignif bool
	}{
		{
			name:       "identical samples",
			sample1:    []float64{1, 2, 3, 4, 5},
			sample2:    []float64{1, 2, 3, 4, 5},
			wantSignif: false,
		},
		{
			name:       "clearly different samples",
			sample1:    []float64{1, 2, 3, 4, 5},
			sample2:    []float64{10, 11, 12, 13, 14},
			wantSignif: true,
		},
		{
			name:       "highly overlapping samples",
			sample1:    []float64{3, 4, 5, 6, 7},
			sample2:    []float64{4, 5, 6, 7, 8},
			wantSignif: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MannWhitneyU(tt.sample1, tt.sample2)
			if result.Significant != tt.wantSignif {
				t.Errorf("Significant = %v, want %v (p=%f)", result.Significant, tt.wantSignif, result.PValue)
			}
		})
	}
}

func TestMannWhitneyU_Empty(t *testing.T) {
	result := MannWhitneyU([]float64{}, []float64{1, 2, 3})
	if result.U != 0 {
		t.Errorf("U = %f, want 0 for empty sample", result.U)
	}
}

func TestEffectSize(t *testing.T) {
	tests := []struct {
		name       string
		sample1    []float64
		sample2    []float64
		wantInterp string
	}{
		{
			name:       "large effect",
			sample1:    []float64{1, 2, 3, 4, 5},
			sample2:    []float64{10, 11, 12, 13, 14},
			wantInterp: "large",
		},
		{
			name:       "negligible effect",
			sample1:    []float64{5, 5, 5, 5, 5},
			sample2:    []float64{5.1, 5, 4.9, 5, 5},
			wantInterp: "negligible",
		},
		{
			name:       "too small",
			sample1:    []float64{1},
			sample2:    []float64{2, 3},
			wantInterp: "undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeEffectSize(tt.sample1, tt.sample2)
			if result.Interpretation != tt.wantInterp {
				t.Errorf("Interpretation = %s, want %s (d=%f)", result.Interpretation, tt.wantInterp, result.CohensD)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	sample := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	stats := Describe(sample)

	if stats.N != 10 {
		t.Errorf("N = %d, want 10", stats.N)
	}
	if stats.Mean != 5.5 {
		t.Errorf("Mean = %f, want 5.5", stats.Mean)
	}
	if stats.Min != 1 || stats.Max != 10 {
		t.Errorf("Min, Max = %f, %f, want 1, 10", stats.Min, stats.Max)
	}
	if stats.P50 != 5 {
		t.Errorf("P50 = %f, want 5", stats.P50)
	}
	if stats.P99 != 10 {
		t.Errorf("P99 = %f, want 10", stats.P99)
	}
	if sample[0] != 10 {
		t.Error("Describe() reordered its input")
	}
}

func TestDescribe_Empty(t *testing.T) {
	stats := Describe([]float64{})
	if stats.N != 0 {
		t.Errorf("N = %d, want 0", stats.N)
	}
}

func TestDescribe_Single(t *testing.T) {
	stats := Describe([]float64{42})
	if stats.StdDev != 0 || stats.P50 != 42 {
		t.Errorf("Describe([42]) = %+v", stats)
	}
}

func TestCompare(t *testing.T) {
	fast := Sample{Name: "resident", Latencies: []float64{1, 1.2, 0.9, 1.1, 1, 1.05, 0.95}}
	slow := Sample{Name: "evicting", Latencies: []float64{40, 52, 38, 61, 45, 49, 55}}

	c := Compare(fast, slow)
	if c.Winner != "resident" {
		t.Errorf("Winner = %q, want %q", c.Winner, "resident")
	}
	if !c.WinnerConfident {
		t.Errorf("WinnerConfident = false (p=%f)", c.MannWhitney.PValue)
	}
	if !strings.Contains(c.Summary(), "resident vs evicting") {
		t.Errorf("Summary() = %q", c.Summary())
	}

	tie := Compare(fast, fast)
	if tie.Winner != "tie" || tie.WinnerConfident {
		t.Errorf("Compare(same) = %q, confident %v", tie.Winner, tie.WinnerConfident)
	}
}
