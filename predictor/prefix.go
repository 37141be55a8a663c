package predictor

import (
	"strings"
	"unicode"

	"github.com/steosofficial/predict4all/dict"
	"github.com/steosofficial/predict4all/token"
)

// candidatesPerPrefixProbe bounds how many candidates DetectPrefix asks
// the dictionary for while probing each trailing-token length: it only
// needs to know whether the prefix resolves to at least one word, and the
// predictor re-gathers a properly sized set afterwards.
const candidatesPerPrefixProbe = 64

// WordPrefixDetected is the result of scanning the tail of a token stream
// for an unfinished word (spec.md §4.9).
type WordPrefixDetected struct {
	// LongestWordPrefix is the accepted trailing substring.
	LongestWordPrefix string
	// TokenCount is the number of trailing tokens the prefix consumes.
	TokenCount int
	// Words are the vocabulary entries gathered while accepting this
	// prefix (exact-case and, for a sentence-initial capitalized prefix,
	// its lowercase retry).
	Words map[dict.BiIntegerKey]dict.NextWord
	// CorrectionCost records, for any candidate reached only through
	// CorrectionGenerator expansion, the cost of the substitution that
	// produced it (spec.md §4.9/§4.10: "apply the correction cost as a
	// multiplicative penalty on the score"). Exact-match candidates are
	// absent from this map (cost 0).
	CorrectionCost map[dict.BiIntegerKey]int
}

// eligibleForPrefix reports whether t can be part of a started word: a
// Word token, or a word-internal separator (APOSTROPHE, HYPHEN) per
// spec.md §4.9.
func eligibleForPrefix(t token.Token) bool {
	if t.IsWord() {
		return true
	}
	return t.IsSeparator() && t.Separator.IsWordInternal()
}

// DetectPrefix implements C9 (spec.md §4.9). tail is the tokenized,
// converted text up to the caret; sentenceInitial reports whether the
// first eligible token of the run begins a sentence (so the capitalized
// retry in lowercase applies); corrector and correctionMaxCost may be nil
// and 0 to disable correction expansion.
func DetectPrefix(
	tail []token.Token,
	d *dict.Dictionary,
	param dict.PredictionParameter,
	sentenceInitial bool,
	corrector CorrectionGenerator,
	correctionMaxCost int,
) *WordPrefixDetected {
	if len(tail) == 0 {
		return nil
	}
	last := tail[len(tail)-1]
	if last.IsSeparator() && !last.Separator.IsWordInternal() {
		return nil
	}

	start := len(tail)
	for start > 0 && eligibleForPrefix(tail[start-1]) {
		start--
	}
	run := tail[start:]
	if len(run) == 0 {
		return nil
	}

	// Try the longest trailing span first; accept the first (longest)
	// length that resolves to at least one candidate (spec.md §4.9:
	// "maximize the number of trailing tokens ... prefer more tokens over
	// fewer").
	for length := len(run); length >= 1; length-- {
		sub := run[len(run)-length:]
		prefix := concatPrefix(sub)
		if prefix == "" {
			continue
		}

		words := d.ValidWordsByPrefix(prefix, nil, candidatesPerPrefixProbe, param)
		costs := map[dict.BiIntegerKey]int{}

		if sentenceInitial && length == len(run) && startsUpper(prefix) {
			lower := strings.ToLower(prefix)
			for k, v := range d.ValidWordsByPrefix(lower, nil, candidatesPerPrefixProbe, param) {
				if _, exists := words[k]; !exists {
					words[k] = v
				}
			}
		}

		if corrector != nil && correctionMaxCost > 0 {
			for _, alt := range corrector.Generate(prefix, correctionMaxCost) {
				altWords := d.ValidWordsByPrefix(alt.Prefix, nil, candidatesPerPrefixProbe, param)
				for k, v := range altWords {
					if _, exact := words[k]; exact {
						continue // exact match always wins over a correction
					}
					if prev, ok := costs[k]; !ok || alt.Cost < prev {
						costs[k] = alt.Cost
						words[k] = v
					}
				}
			}
		}

		if len(words) > 0 {
			return &WordPrefixDetected{
				LongestWordPrefix: prefix,
				TokenCount:        length,
				Words:             words,
				CorrectionCost:    costs,
			}
		}
	}
	return nil
}

// concatPrefix rebuilds the literal prefix string from a run of Word and
// word-internal-Separator tokens, in original order.
func concatPrefix(run []token.Token) string {
	var sb strings.Builder
	for _, t := range run {
		if t.IsWord() {
			sb.WriteString(t.Text)
		} else {
			sb.WriteRune(t.Separator.Char())
		}
	}
	return sb.String()
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
