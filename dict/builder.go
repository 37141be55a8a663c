package dict

import (
	"sort"
	"strings"
)

// BuildConfig carries the corpus-policy thresholds from spec.md §4.4/§6.
type BuildConfig struct {
	DirectlyValidWordCountThreshold         int
	UnknownWordCountThreshold                int
	UpperCaseReplacementThreshold            float64
	ConvertCaseFromDictionaryModelThreshold  float64
}

// DefaultBuildConfig returns the thresholds documented in spec.md §6.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		DirectlyValidWordCountThreshold:        20,
		UnknownWordCountThreshold:               0,
		UpperCaseReplacementThreshold:           0.35,
		ConvertCaseFromDictionaryModelThreshold: 1e-8,
	}
}

// BaseWordDictionary is the external base-word reference consulted for
// case-conversion decisions (spec.md §4.4). Implementations typically load
// a per-language frequency list (baseWordDictionaryPath); that loading is
// outside this package's scope, per spec.md §1.
type BaseWordDictionary interface {
	// CasingFrequency returns the best-known casing of lower and its
	// relative frequency in the reference corpus, if lower is known at all.
	CasingFrequency(lower string) (form string, freq float64, ok bool)
}

// Builder accumulates per-surface corpus counts and applies the C4
// build-time policy to produce a Dictionary (spec.md §4.4).
type Builder struct {
	cfg         BuildConfig
	base        BaseWordDictionary
	lowerCounts map[string]map[string]int
}

// NewBuilder creates a Builder. base may be nil when no reference
// dictionary is configured.
func NewBuilder(cfg BuildConfig, base BaseWordDictionary) *Builder {
	return &Builder{cfg: cfg, base: base, lowerCounts: make(map[string]map[string]int)}
}

// Observe records one occurrence of surface in the corpus.
func (b *Builder) Observe(surface string) {
	lower := strings.ToLower(surface)
	variants := b.lowerCounts[lower]
	if variants == nil {
		variants = make(map[string]int)
		b.lowerCounts[lower] = variants
	}
	variants[surface]++
}

// Build applies the directly-valid / unknown / case-policy decisions and
// returns the resulting Dictionary. Surfaces resolving to UNKNOWN are not
// minted as words at all; callers resolve them to the synthetic
// TagWord(UNKNOWN) at lookup time. Groups are visited in sorted lowercase
// order, so two builds over the same observations assign identical ids.
func (b *Builder) Build() *Dictionary {
	d := New()
	lowers := make([]string, 0, len(b.lowerCounts))
	for lower := range b.lowerCounts {
		lowers = append(lowers, lower)
	}
	sort.Strings(lowers)
	for _, lower := range lowers {
		variants := b.lowerCounts[lower]
		total := 0
		for _, c := range variants {
			total += c
		}
		if total <= b.cfg.UnknownWordCountThreshold {
			continue
		}
		if total < b.cfg.DirectlyValidWordCountThreshold {
			// Below the directly-valid bar: only the base dictionary can
			// corroborate this is a real corpus-specific word.
			if b.base == nil {
				continue
			}
			if _, _, ok := b.base.CasingFrequency(lower); !ok {
				continue
			}
		}
		canonical := b.canonicalForm(lower, variants, total)
		d.AddSystemWord(canonical, 1)
	}
	return d
}

// canonicalForm picks the surface form that should represent this
// lowercase group, applying upper-case replacement and base-dictionary
// case conversion in that order (spec.md §4.4).
func (b *Builder) canonicalForm(lower string, variants map[string]int, total int) string {
	if lowerCount := variants[lower]; total > 0 &&
		float64(lowerCount)/float64(total) > b.cfg.UpperCaseReplacementThreshold {
		return lower
	}

	best, bestCount := lower, variants[lower]
	for surf, c := range variants {
		if c > bestCount || (c == bestCount && surf < best) {
			best, bestCount = surf, c
		}
	}

	if b.base != nil {
		if form, freq, ok := b.base.CasingFrequency(lower); ok &&
			freq > b.cfg.ConvertCaseFromDictionaryModelThreshold {
			return form
		}
	}
	return best
}
