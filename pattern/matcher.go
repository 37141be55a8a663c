// Package pattern folds multi-token sequences (dates, numbers, percents,
// acronyms, proper names, hyphenated and apostrophe compounds) into single
// equivalence-class or Word tokens, per spec.md §4.3. Matchers are tried in
// a fixed priority order; the first whole match wins and consumes exactly
// its matched tokens, mirroring the tokenizer's "one decision, no
// backtracking across matches" discipline.
package pattern

import "github.com/steosofficial/predict4all/token"

// Matcher recognizes a pattern anchored at the head of a token window.
type Matcher interface {
	Name() string
	// Try attempts a match anchored at buf[0]. consumed is the number of
	// leading tokens belonging to the match; ok is false if nothing matches
	// here. Try must never read beyond len(buf).
	Try(buf []token.Token) (out token.Token, consumed int, ok bool)
}

// MaxLookahead bounds the longest span any preset matcher can consume:
// PROPER_NAME, four capitalized words joined by three single spaces.
const MaxLookahead = 7

// Converter runs matchers over a token slice in a single left-to-right
// pass, replacing each matched span with the matcher's output token.
type Converter struct {
	matchers []Matcher
}

// NewConverter builds a Converter that tries matchers in the given
// priority order at every position.
func NewConverter(matchers []Matcher) *Converter {
	return &Converter{matchers: matchers}
}

// Convert folds tokens into their pattern-collapsed form.
func (c *Converter) Convert(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		end := i + MaxLookahead
		if end > len(tokens) {
			end = len(tokens)
		}
		window := tokens[i:end]

		matched := false
		for _, m := range c.matchers {
			if t, consumed, ok := m.Try(window); ok && consumed > 0 {
				out = append(out, t)
				i += consumed
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}
