package dict

// CompoundForm registers one elision compound the predictor may offer as
// a single two-word suggestion (spec.md §4.9: NextWord's "pair (w1, w2,
// spaceBetween) for a compound suggestion"; spec.md §8 scenario S4:
// "input 'c' -> predictor returns candidates ... followed by in-dictionary
// compound suggestions like c'est if the compound pattern matches").
// Word1 is the elided form the APOSTROPHE matcher (pattern.apostropheMatcher,
// spec.md §4.3 pattern #10) folds "c" + "'" into during tokenization/
// training, e.g. "c'"; Word2 is the word that follows it. The suggestion
// only fires when both halves are actually present in the dictionary
// (i.e. the training corpus produced them), per spec.md's "in-dictionary"
// qualifier.
type CompoundForm struct {
	// Prefix is the lowercase root that must equal the detected prefix
	// for this compound to be offered (e.g. "c" for "c'est").
	Prefix string
	Word1  string
	Word2  string
	// SpaceBetween controls the separator the predictor's display
	// re-casing inserts between Word1 and Word2 (spec.md §4.9's
	// NextWord shape). These are elisions, so Word1 already carries the
	// apostrophe and no extra separator is inserted.
	SpaceBetween bool
}

// compoundForms is a closed list of common French elisions, the same
// "small literal table" shape as pattern/helpers.go's specialWords/
// monthNames/weekdayNames maps.
var compoundForms = []CompoundForm{
	{Prefix: "c", Word1: "c'", Word2: "est"},
	{Prefix: "c", Word1: "c'", Word2: "était"},
	{Prefix: "qu", Word1: "qu'", Word2: "il"},
	{Prefix: "qu", Word1: "qu'", Word2: "elle"},
	{Prefix: "s", Word1: "s'", Word2: "il"},
	{Prefix: "s", Word1: "s'", Word2: "agit"},
	{Prefix: "n", Word1: "n'", Word2: "est"},
	{Prefix: "n", Word1: "n'", Word2: "était"},
	{Prefix: "j", Word1: "j'", Word2: "ai"},
	{Prefix: "d", Word1: "d'", Word2: "accord"},
	{Prefix: "l", Word1: "l'", Word2: "on"},
}

// compoundSuggestionsLocked returns every registered compound triggered
// by lowerPrefix whose both halves resolve to a valid, excluded-free
// dictionary word. The caller must already hold d.mu for reading.
func (d *Dictionary) compoundSuggestionsLocked(lowerPrefix string, exclusions map[int32]bool, param PredictionParameter) map[BiIntegerKey]NextWord {
	out := make(map[BiIntegerKey]NextWord)
	for _, c := range compoundForms {
		if c.Prefix != lowerPrefix {
			continue
		}
		id1, ok := d.byText[c.Word1]
		if !ok {
			continue
		}
		id2, ok := d.byText[c.Word2]
		if !ok {
			continue
		}
		if exclusions[id1] || exclusions[id2] {
			continue
		}
		w1, w2 := d.byID[id1], d.byID[id2]
		if !w1.IsValidForPrediction(param.MinUseCountToValidateNewWord) ||
			!w2.IsValidForPrediction(param.MinUseCountToValidateNewWord) {
			continue
		}
		key := BiIntegerKey{ID1: id1, ID2: id2}
		out[key] = NextWord{
			Key:          key,
			WordID1:      id1,
			WordID2:      id2,
			SpaceBetween: c.SpaceBetween,
			ScoreFactor:  w1.ProbFactor,
		}
	}
	return out
}
