package pattern

import (
	"strings"

	"github.com/steosofficial/predict4all/token"
)

// specialWordMatcher recognizes a closed list of literal compounds with an
// internal apostrophe (e.g. "aujourd'hui"), which the tokenizer otherwise
// splits into Word/APOSTROPHE/Word.
type specialWordMatcher struct{}

func (specialWordMatcher) Name() string { return "SPECIAL_WORD" }

func (specialWordMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w1, ok := wordAt(buf, 0)
	if !ok {
		return token.Token{}, 0, false
	}
	if !sepAt(buf, 1, token.SepApostrophe) {
		return token.Token{}, 0, false
	}
	w2, ok := wordAt(buf, 2)
	if !ok {
		return token.Token{}, 0, false
	}
	combo := strings.ToLower(w1 + "'" + w2)
	if !specialWords[combo] {
		return token.Token{}, 0, false
	}
	return token.NewWord(combo), 3, true
}

// apostropheMatcher matches \p{L}+ followed by an apostrophe, e.g. an
// elided article ("l'").
type apostropheMatcher struct{}

func (apostropheMatcher) Name() string { return "APOSTROPHE" }

func (apostropheMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w, ok := wordAt(buf, 0)
	if !ok || !isLetterWord(w) {
		return token.Token{}, 0, false
	}
	if !sepAt(buf, 1, token.SepApostrophe) {
		return token.Token{}, 0, false
	}
	return token.NewWord(w + "'"), 2, true
}

// acronymMatcher matches a chain of single uppercase letters separated by
// points (U.S.A.), concatenated without the dots.
type acronymMatcher struct{}

func (acronymMatcher) Name() string { return "ACRONYM" }

func (acronymMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w, ok := wordAt(buf, 0)
	if !ok || !isSingleUpperLetter(w) {
		return token.Token{}, 0, false
	}
	var sb strings.Builder
	sb.WriteString(w)
	i, letters := 1, 1
	for sepAt(buf, i, token.SepPoint) {
		w2, ok := wordAt(buf, i+1)
		if !ok || !isSingleUpperLetter(w2) {
			break
		}
		sb.WriteString(w2)
		i += 2
		letters++
	}
	if letters < 2 {
		return token.Token{}, 0, false
	}
	return token.NewEquivalenceClass(token.ClassAcronym, sb.String()), i, true
}

// properNameMatcher matches up to four consecutive capitalized words
// joined by single spaces.
type properNameMatcher struct{}

func (properNameMatcher) Name() string { return "PROPER_NAME" }

func (properNameMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w, ok := wordAt(buf, 0)
	if !ok || !isUpperWord(w) {
		return token.Token{}, 0, false
	}
	words := []string{w}
	i := 1
	for len(words) < 4 {
		if !sepAt(buf, i, token.SepSpace) {
			break
		}
		w2, ok := wordAt(buf, i+1)
		if !ok || !isUpperWord(w2) {
			break
		}
		words = append(words, w2)
		i += 2
	}
	if len(words) < 2 {
		return token.Token{}, 0, false
	}
	return token.NewEquivalenceClass(token.ClassProperName, strings.Join(words, " ")), i, true
}

// hyphenMatcher matches a chain of letter runs joined by hyphens.
type hyphenMatcher struct{}

func (hyphenMatcher) Name() string { return "HYPHEN" }

func (hyphenMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w, ok := wordAt(buf, 0)
	if !ok || !isLetterWord(w) {
		return token.Token{}, 0, false
	}
	var sb strings.Builder
	sb.WriteString(w)
	i, parts := 1, 1
	for sepAt(buf, i, token.SepHyphen) {
		w2, ok := wordAt(buf, i+1)
		if !ok || !isLetterWord(w2) {
			break
		}
		sb.WriteByte('-')
		sb.WriteString(w2)
		i += 2
		parts++
	}
	if parts < 2 {
		return token.Token{}, 0, false
	}
	return token.NewWord(sb.String()), i, true
}
