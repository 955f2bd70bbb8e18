package workload

import (
	"math"
	"slices"
	"testing"
)

func TestGenerate(t *testing.T) {
	for _, p := range Patterns {
		t.Run(string(p), func(t *testing.T) {
			lines, err := Generate(p, 1000, 500, 7)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(lines) != 500 {
				t.Fatalf("len = %d, want 500", len(lines))
			}
			for _, l := range lines {
				if l < 1 || l > 1000 {
					t.Fatalf("line %d out of [1, 1000]", l)
				}
			}

			again, _ := Generate(p, 1000, 500, 7)
			if !slices.Equal(lines, again) {
				t.Error("same seed produced different lines")
			}
		})
	}
}

func TestGenerate_SequentialWraps(t *testing.T) {
	lines, err := Generate(Sequential, 3, 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(lines); i++ {
		want := lines[i-1]%3 + 1
		if lines[i] != want {
			t.Errorf("lines[%d] = %d, want %d", i, lines[i], want)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	if _, err := Generate(Random, 0, 10, 1); err == nil {
		t.Error("expected error for empty file")
	}
	if _, err := Generate("zigzag", 10, 10, 1); err == nil {
		t.Error("expected error for unknown pattern")
	}
}

func TestReplay(t *testing.T) {
	// Shards of 10 lines: 1-10 is shard 0, 11-20 is shard 1, 21-30 is shard 2.
	lines := []int64{1, 11, 2, 21, 12, 3}

	tests := []struct {
		name      string
		capacity  int
		wantLoads int
	}{
		{name: "unbounded", capacity: 0, wantLoads: 3},
		{name: "fits", capacity: 3, wantLoads: 3},
		{name: "one resident", capacity: 1, wantLoads: 6},
		{name: "two resident", capacity: 2, wantLoads: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Replay(lines, 10, tt.capacity)
			if err != nil {
				t.Fatalf("Replay() error = %v", err)
			}
			if res.ShardLoads != tt.wantLoads {
				t.Errorf("ShardLoads = %d, want %d", res.ShardLoads, tt.wantLoads)
			}
			if res.ShardSwitches != 6 {
				t.Errorf("ShardSwitches = %d, want 6", res.ShardSwitches)
			}
			if res.UniqueShards != 3 {
				t.Errorf("UniqueShards = %d, want 3", res.UniqueShards)
			}
		})
	}
}

func TestReplay_InvalidShardSize(t *testing.T) {
	if _, err := Replay([]int64{1}, 0, 0); err == nil {
		t.Error("expected error for zero shard size")
	}
}

func TestResultMetrics(t *testing.T) {
	even := &Result{Reads: 4, ShardHits: map[int64]int{0: 1, 1: 1, 2: 1, 3: 1}}
	if c := even.Concentration(); math.Abs(c) > 1e-9 {
		t.Errorf("Concentration() = %f, want 0", c)
	}
	if p := even.TopShardPct(0.25); p != 25 {
		t.Errorf("TopShardPct(0.25) = %f, want 25", p)
	}

	skewed := &Result{Reads: 10, ShardLoads: 2, ShardHits: map[int64]int{0: 9, 1: 1}}
	if c := skewed.Concentration(); c <= 0 {
		t.Errorf("Concentration() = %f, want > 0", c)
	}
	if hr := skewed.HitRate(); hr != 80 {
		t.Errorf("HitRate() = %f, want 80", hr)
	}
}
