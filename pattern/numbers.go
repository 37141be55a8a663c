package pattern

import "github.com/steosofficial/predict4all/token"

// percentMatcher matches a decimal or integer followed by '%', optionally
// separated by a space. '%' is not a declared separator, so it is either
// fused onto the trailing digit word ("12%") or appears as its own word
// token ("12 %").
type percentMatcher struct{}

func (percentMatcher) Name() string { return "PERCENT" }

func (percentMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w0, ok := wordAt(buf, 0)
	if !ok {
		return token.Token{}, 0, false
	}
	intPart, hasPct, ok := digitsPart(w0)
	if !ok {
		return token.Token{}, 0, false
	}
	idx := 1
	text := intPart

	if !hasPct && idx < len(buf) && buf[idx].IsSeparator() &&
		(buf[idx].Separator == token.SepComma || buf[idx].Separator == token.SepPoint) {
		sepChar := buf[idx].Separator.Char()
		if w1, ok1 := wordAt(buf, idx+1); ok1 {
			if decPart, pct2, ok2 := digitsPart(w1); ok2 {
				text += string(sepChar) + decPart
				idx += 2
				hasPct = pct2
			}
		}
	}

	if !hasPct {
		j := idx
		if j < len(buf) && buf[j].IsSeparator() && buf[j].Separator == token.SepSpace {
			j++
		}
		if w2, ok2 := wordAt(buf, j); ok2 && w2 == "%" {
			idx = j + 1
			hasPct = true
		}
	}

	if !hasPct {
		return token.Token{}, 0, false
	}
	return token.NewEquivalenceClass(token.ClassPercent, text+"%"), idx, true
}

// numberDecimalMatcher matches digits + (comma|point) + digits. The comma
// and point are declared separators, so this is inherently a three-token
// pattern.
type numberDecimalMatcher struct{}

func (numberDecimalMatcher) Name() string { return "NUMBER_DECIMAL" }

func (numberDecimalMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	if len(buf) < 3 {
		return token.Token{}, 0, false
	}
	w0, ok := wordAt(buf, 0)
	if !ok || !isDigits(w0) {
		return token.Token{}, 0, false
	}
	if !buf[1].IsSeparator() {
		return token.Token{}, 0, false
	}
	if buf[1].Separator != token.SepComma && buf[1].Separator != token.SepPoint {
		return token.Token{}, 0, false
	}
	w2, ok := wordAt(buf, 2)
	if !ok || !isDigits(w2) {
		return token.Token{}, 0, false
	}
	text := w0 + string(buf[1].Separator.Char()) + w2
	return token.NewEquivalenceClass(token.ClassDecimal, text), 3, true
}

// numberIntMatcher matches a bare digit run.
type numberIntMatcher struct{}

func (numberIntMatcher) Name() string { return "NUMBER_INT" }

func (numberIntMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w, ok := wordAt(buf, 0)
	if !ok || !isDigits(w) {
		return token.Token{}, 0, false
	}
	return token.NewEquivalenceClass(token.ClassInteger, w), 1, true
}
