package smoothing

import "testing"

func TestComputeDUsesConstantWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SmoothingDiscountValue = 0.75
	d := ComputeD(cfg, []Histogram{{1: 10, 2: 5}})
	if d[0] != 0.75 {
		t.Fatalf("got %v, want 0.75", d[0])
	}
}

func TestComputeDFitsAndClamps(t *testing.T) {
	cfg := DefaultConfig()
	h := Histogram{1: 100, 2: 50}
	d := ComputeD(cfg, []Histogram{h})
	want := float32(100.0 / (100.0 + 2*50.0))
	if d[0] != want {
		t.Fatalf("got %v, want %v", d[0], want)
	}

	cfg.SmoothingDiscountMax = 0.3
	d = ComputeD(cfg, []Histogram{h})
	if d[0] != float32(0.3) {
		t.Fatalf("expected clamp to max, got %v", d[0])
	}
}

func TestComputeDFallsBackWhenHistogramEmpty(t *testing.T) {
	cfg := DefaultConfig()
	d := ComputeD(cfg, []Histogram{{}})
	if float64(d[0]) < cfg.SmoothingDiscountMin-1e-9 || float64(d[0]) > cfg.SmoothingDiscountMax+1e-9 {
		t.Fatalf("fallback D %v out of clamp range", d[0])
	}
}

func TestShouldPruneByCountUsesPerOrderThreshold(t *testing.T) {
	cfg := Config{NGramPruningCountThreshold: []int64{5, 2}}
	if !cfg.ShouldPruneByCount(1, 4) {
		t.Fatal("count 4 < threshold 5 at order 1 should prune")
	}
	if cfg.ShouldPruneByCount(1, 5) {
		t.Fatal("count 5 >= threshold 5 at order 1 should not prune")
	}
	if !cfg.ShouldPruneByCount(2, 1) {
		t.Fatal("count 1 < threshold 2 at order 2 should prune")
	}
	// Order 3 has no explicit entry, falls back to last (2).
	if cfg.ShouldPruneByCount(3, 2) {
		t.Fatal("count 2 >= fallback threshold 2 should not prune")
	}
}

func TestParsePruningMethodRoundTrips(t *testing.T) {
	cases := map[string]PruningMethod{
		"":                             PruneNone,
		"NONE":                         PruneNone,
		"RAW_COUNT":                    PruneRawCount,
		"ORDER_COUNT":                  PruneOrderCount,
		"WEIGHTED_DIFFERENCE_RAW_PROB": PruneWeightedDifferenceRawProb,
		"WEIGHTED_DIFFERENCE_FULL_PROB": PruneWeightedDifferenceFullProb,
	}
	for s, want := range cases {
		got, err := ParsePruningMethod(s)
		if err != nil {
			t.Fatalf("ParsePruningMethod(%q) error: %v", s, err)
		}
		if got != want {
			t.Fatalf("ParsePruningMethod(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParsePruningMethod("NOT_A_METHOD"); err == nil {
		t.Fatal("expected error for unknown pruning method")
	}
}

func TestKeepOrderCountThresholdWithNoConfig(t *testing.T) {
	cfg := Config{}
	if cfg.KeepOrderCountThreshold(1) != 0 {
		t.Fatal("expected zero threshold with no configured values")
	}
}
