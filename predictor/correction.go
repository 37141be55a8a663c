package predictor

import "sort"

// CorrectionRule substitutes From with one of To at a fixed Cost, the unit
// spec.md §4.9/§6 calls "the correction rule tree" and "correctionMaxCost".
// Loading the actual rule resource is outside this module's scope (spec.md
// §1: "language-specific resource loading ... out of scope"); this type is
// the pluggable shape a caller populates from wherever that resource lives.
type CorrectionRule struct {
	From rune
	To   []rune
	Cost int
}

// CorrectionCandidate is one spelling-corrected alternative to a detected
// prefix, with the cumulative cost of the substitutions that produced it.
type CorrectionCandidate struct {
	Prefix string
	Cost   int
}

// CorrectionGenerator expands a prefix into alternatives consistent with a
// correction rule tree, up to a maximum total cost (spec.md §4.9: "query
// the correction generator for alternative prefixes consistent with the
// correction rule tree up to correctionMaxCost").
type CorrectionGenerator interface {
	Generate(prefix string, maxCost int) []CorrectionCandidate
}

// RuleSetCorrector is a minimal CorrectionGenerator driven by a flat list
// of per-character substitution rules, applied at any position and in any
// combination whose total cost stays within budget. It is grounded on
// spec.md §6 S5's "ACCENTS rule" scenario (il e -> était, est): the default
// constructed by NewAccentCorrector folds unaccented Latin vowels/cedilla
// onto their accented French forms.
type RuleSetCorrector struct {
	bySource map[rune][]CorrectionRule
}

// NewRuleSetCorrector builds a corrector from an explicit rule list.
func NewRuleSetCorrector(rules []CorrectionRule) *RuleSetCorrector {
	c := &RuleSetCorrector{bySource: make(map[rune][]CorrectionRule)}
	for _, r := range rules {
		c.bySource[r.From] = append(c.bySource[r.From], r)
	}
	return c
}

// NewAccentCorrector returns the default ACCENTS rule set: each unaccented
// vowel (and c) may be substituted for its accented French variants at
// cost 1, matching spec.md §8 S5's example ("il e" -> "était"/"est").
func NewAccentCorrector() *RuleSetCorrector {
	return NewRuleSetCorrector([]CorrectionRule{
		{From: 'e', To: []rune{'é', 'è', 'ê', 'ë'}, Cost: 1},
		{From: 'a', To: []rune{'à', 'â'}, Cost: 1},
		{From: 'u', To: []rune{'ù', 'û', 'ü'}, Cost: 1},
		{From: 'o', To: []rune{'ô'}, Cost: 1},
		{From: 'i', To: []rune{'î', 'ï'}, Cost: 1},
		{From: 'c', To: []rune{'ç'}, Cost: 1},
	})
}

// maxCorrectionResults bounds the combinatorial expansion below: a prefix
// is always short (the word currently being typed), but a pathological
// rule set applied to every position could still blow up, so generation
// stops accepting new distinct alternatives past this count.
const maxCorrectionResults = 64

// Generate walks every rune of prefix, at each position either keeping the
// original rune or substituting one of its rule targets, recursing while
// the accumulated cost stays within maxCost. Equal alternatives reached
// through different substitution paths keep their lowest cost.
func (c *RuleSetCorrector) Generate(prefix string, maxCost int) []CorrectionCandidate {
	if maxCost <= 0 || prefix == "" {
		return nil
	}
	runes := []rune(prefix)
	seen := make(map[string]int)
	buf := make([]rune, 0, len(runes))

	var rec func(i, cost int)
	rec = func(i, cost int) {
		if len(seen) >= maxCorrectionResults {
			return
		}
		if i == len(runes) {
			out := string(buf)
			if out == prefix {
				return
			}
			if prev, ok := seen[out]; !ok || cost < prev {
				seen[out] = cost
			}
			return
		}
		orig := runes[i]

		buf = append(buf, orig)
		rec(i+1, cost)
		buf = buf[:len(buf)-1]

		if cost >= maxCost {
			return
		}
		for _, rule := range c.bySource[orig] {
			if cost+rule.Cost > maxCost {
				continue
			}
			for _, alt := range rule.To {
				buf = append(buf, alt)
				rec(i+1, cost+rule.Cost)
				buf = buf[:len(buf)-1]
			}
		}
	}
	rec(0, 0)

	out := make([]CorrectionCandidate, 0, len(seen))
	for p, cost := range seen {
		out = append(out, CorrectionCandidate{Prefix: p, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].Prefix < out[j].Prefix
	})
	return out
}
