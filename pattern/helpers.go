package pattern

import (
	"strings"
	"unicode"

	"github.com/steosofficial/predict4all/token"
)

func wordAt(buf []token.Token, i int) (string, bool) {
	if i >= len(buf) || !buf[i].IsWord() {
		return "", false
	}
	return buf[i].Text, true
}

func sepAt(buf []token.Token, i int, id token.SeparatorID) bool {
	return i < len(buf) && buf[i].IsSeparator() && buf[i].Separator == id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetterWord reports whether s matches \p{L}+.
func isLetterWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isUpperWord reports whether s matches \p{Lu}\p{L}+ (an initial-capital
// word of at least two runes).
func isUpperWord(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isSingleUpperLetter(s string) bool {
	runes := []rune(s)
	return len(runes) == 1 && unicode.IsUpper(runes[0])
}

// digitsPart splits a word into its digit run and an optional trailing "%",
// since '%' is not a declared separator and merges into the adjacent word.
func digitsPart(w string) (digits string, hasPercent bool, ok bool) {
	if strings.HasSuffix(w, "%") {
		d := strings.TrimSuffix(w, "%")
		if isDigits(d) {
			return d, true, true
		}
		return "", false, false
	}
	if isDigits(w) {
		return w, false, true
	}
	return "", false, false
}

var monthNames = map[string]bool{
	"janvier": true, "février": true, "fevrier": true, "mars": true,
	"avril": true, "mai": true, "juin": true, "juillet": true,
	"août": true, "aout": true, "septembre": true, "octobre": true,
	"novembre": true, "décembre": true, "decembre": true,
}

var weekdayNames = map[string]bool{
	"lundi": true, "mardi": true, "mercredi": true, "jeudi": true,
	"vendredi": true, "samedi": true, "dimanche": true,
}

var specialWords = map[string]bool{
	"aujourd'hui": true,
	"quelqu'un":   true,
	"quelqu'une":  true,
	"presqu'île":  true,
	"presqu'ile":  true,
}
