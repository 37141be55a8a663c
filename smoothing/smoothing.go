// Package smoothing implements absolute-discounting back-off and the
// pruning policies applied to n-gram tries (spec.md §4.7). It has no
// dependency on the ngram package: ngram calls into smoothing for pure
// numeric decisions and feeds back the histograms it gathered itself.
package smoothing

import "fmt"

// PruningMethod selects how dynamic n-gram trie edges are discarded
// before a model is frozen into its static form (spec.md §4.7).
type PruningMethod int

const (
	PruneNone PruningMethod = iota
	PruneRawCount
	PruneOrderCount
	PruneWeightedDifferenceRawProb
	PruneWeightedDifferenceFullProb
)

// Config holds every smoothing/pruning tunable of spec.md §6.
type Config struct {
	// SmoothingDiscountValue, when >= 0, overrides the fitted D
	// coefficient for every order with this constant value.
	SmoothingDiscountValue float64

	// SmoothingDiscountMin/Max clamp each fitted per-order D.
	SmoothingDiscountMin float64
	SmoothingDiscountMax float64

	PruningMethod PruningMethod

	// NGramPruningCountThreshold is the raw or per-order count floor
	// used by PruneRawCount/PruneOrderCount.
	NGramPruningCountThreshold []int64

	// NGramPruningWeightedDifferenceThreshold is the minimum smoothed
	// frequency a child must retain under the WEIGHTED_DIFFERENCE
	// methods (see DESIGN.md for the simplification applied).
	NGramPruningWeightedDifferenceThreshold float64
}

// DefaultConfig returns the values spec.md §6 documents as defaults.
func DefaultConfig() Config {
	return Config{
		SmoothingDiscountValue:                  -1,
		SmoothingDiscountMin:                     0.1,
		SmoothingDiscountMax:                     1.0,
		PruningMethod:                            PruneOrderCount,
		NGramPruningCountThreshold:               []int64{-1, 2, 3, 4},
		NGramPruningWeightedDifferenceThreshold:  1e-4,
	}
}

// Histogram maps an observed count to the number of k-grams of one order
// that were seen exactly that many times: Cn_k in spec.md §4.6's
// Kneser-Ney derivation.
type Histogram map[int64]int64

// ComputeD fits one discount coefficient per n-gram order from its count
// histogram, using the standard Kneser-Ney closed form:
//
//	D_k = C1_k / (C1_k + 2*C2_k)
//
// clamped to [cfg.SmoothingDiscountMin, cfg.SmoothingDiscountMax]. If
// cfg.SmoothingDiscountValue is >= 0, every order uses that constant
// instead (spec.md §4.7/§6).
func ComputeD(cfg Config, histograms []Histogram) []float32 {
	out := make([]float32, len(histograms))
	for i, h := range histograms {
		if cfg.SmoothingDiscountValue >= 0 {
			out[i] = float32(cfg.SmoothingDiscountValue)
			continue
		}
		c1 := float64(h[1])
		c2 := float64(h[2])
		d := 0.5
		if c1+2*c2 > 0 {
			d = c1 / (c1 + 2*c2)
		}
		if d < cfg.SmoothingDiscountMin {
			d = cfg.SmoothingDiscountMin
		}
		if d > cfg.SmoothingDiscountMax {
			d = cfg.SmoothingDiscountMax
		}
		out[i] = float32(d)
	}
	return out
}

// KeepOrderCountThreshold returns the count threshold configured for
// n-gram order (1-based), falling back to the last configured value.
func (c Config) KeepOrderCountThreshold(order int) int64 {
	if len(c.NGramPruningCountThreshold) == 0 {
		return 0
	}
	idx := order - 1
	if idx >= len(c.NGramPruningCountThreshold) {
		idx = len(c.NGramPruningCountThreshold) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return c.NGramPruningCountThreshold[idx]
}

// ParsePruningMethod maps a configuration string (spec.md §6's
// "pruningMethod" key) to its PruningMethod value.
func ParsePruningMethod(s string) (PruningMethod, error) {
	switch s {
	case "", "NONE":
		return PruneNone, nil
	case "RAW_COUNT":
		return PruneRawCount, nil
	case "ORDER_COUNT":
		return PruneOrderCount, nil
	case "WEIGHTED_DIFFERENCE_RAW_PROB":
		return PruneWeightedDifferenceRawProb, nil
	case "WEIGHTED_DIFFERENCE_FULL_PROB":
		return PruneWeightedDifferenceFullProb, nil
	default:
		return PruneNone, fmt.Errorf("smoothing: unknown pruning method %q", s)
	}
}

// ShouldPruneByCount applies RAW_COUNT/ORDER_COUNT pruning: an edge is
// dropped when its observed count falls below the configured threshold
// for its order (RAW_COUNT uses the same threshold at every order by
// supplying a single-element NGramPruningCountThreshold; ORDER_COUNT
// supplies one per order).
func (c Config) ShouldPruneByCount(order int, count int64) bool {
	return count < c.KeepOrderCountThreshold(order)
}
