// Package dict implements the word dictionary (spec.md §4.4): a
// bidirectional id↔text mapping with a case-variant index, a build-time
// corpus policy, and an append-only user-word section.
package dict

import "github.com/steosofficial/predict4all/token"

// WordKind discriminates the four Word variants from spec.md §3.
type WordKind uint8

const (
	WordSimple WordKind = iota
	WordUser
	WordEquivalenceClassWord
	WordTagWord
)

// Word is the tagged sum described in spec.md §3, flattened into one
// struct per the token package's own collapse of variant hierarchies.
type Word struct {
	ID               int32
	Kind             WordKind
	Text             string
	ProbFactor       float32
	ModifiedByUser   bool
	ModifiedBySystem bool
	ForceInvalid     bool
	ForceValid       bool
	UsageCount       int32
	LastUseEpochMs   int64
	ClassKind        token.EquivalenceClassKind
	Tag              token.TagKind
}

// IsValidForPrediction combines forceValid/forceInvalid/usageCount per
// spec.md §4.4. System words (Simple/EquivalenceClassWord/TagWord) are
// always valid unless explicitly forced invalid; User words additionally
// require a minimum observed usage count.
func (w Word) IsValidForPrediction(minUseCountToValidateNewWord int32) bool {
	if w.ForceValid {
		return true
	}
	if w.ForceInvalid {
		return false
	}
	if w.Kind != WordUser {
		return true
	}
	return w.UsageCount >= minUseCountToValidateNewWord
}
