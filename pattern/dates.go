package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/steosofficial/predict4all/token"
)

// dateSeparator reports whether buf[i] is one of the date separators
// (SLASH, HYPHEN, POINT) and returns its id.
func dateSeparator(buf []token.Token, i int) (token.SeparatorID, bool) {
	if i >= len(buf) || !buf[i].IsSeparator() {
		return 0, false
	}
	switch buf[i].Separator {
	case token.SepSlash, token.SepHyphen, token.SepPoint:
		return buf[i].Separator, true
	default:
		return 0, false
	}
}

// expandYear expands a two-digit year to the most recent year, not later
// than the current one, ending in those two digits (so "99" becomes 1999
// in 2026), per spec.md §4.3 item 1. Three- and four-digit years are
// returned unchanged.
func expandYear(s string) int {
	n, _ := strconv.Atoi(s)
	if len(s) >= 3 {
		return n
	}
	now := time.Now().Year()
	year := (now/100)*100 + n
	if year > now {
		year -= 100
	}
	return year
}

// dateFullDigitMatcher matches DD<sep>MM<sep>YYYY with sep in {/, -, .}.
type dateFullDigitMatcher struct{}

func (dateFullDigitMatcher) Name() string { return "DATE_FULL_DIGIT" }

func (dateFullDigitMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	if len(buf) < 5 {
		return token.Token{}, 0, false
	}
	dd, ok := wordAt(buf, 0)
	if !ok || !isDigits(dd) || len(dd) > 2 {
		return token.Token{}, 0, false
	}
	sep1, ok1 := dateSeparator(buf, 1)
	if !ok1 {
		return token.Token{}, 0, false
	}
	mm, ok := wordAt(buf, 2)
	if !ok || !isDigits(mm) || len(mm) > 2 {
		return token.Token{}, 0, false
	}
	sep2, ok2 := dateSeparator(buf, 3)
	if !ok2 || sep2 != sep1 {
		return token.Token{}, 0, false
	}
	yyyy, ok := wordAt(buf, 4)
	if !ok || !isDigits(yyyy) || len(yyyy) < 2 || len(yyyy) > 4 {
		return token.Token{}, 0, false
	}

	day, _ := strconv.Atoi(dd)
	month, _ := strconv.Atoi(mm)
	if day > 31 || month < 1 || month > 12 {
		return token.Token{}, 0, false
	}
	text := fmt.Sprintf("%02d/%02d/%04d", day, month, expandYear(yyyy))
	return token.NewEquivalenceClass(token.ClassDateFullDigit, text), 5, true
}

// dateFullTextMatcher matches "<day> <monthName> <year>".
type dateFullTextMatcher struct{}

func (dateFullTextMatcher) Name() string { return "DATE_FULL_TEXT" }

func (dateFullTextMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	if len(buf) < 5 {
		return token.Token{}, 0, false
	}
	dd, ok := wordAt(buf, 0)
	if !ok || !isDigits(dd) {
		return token.Token{}, 0, false
	}
	if !sepAt(buf, 1, token.SepSpace) {
		return token.Token{}, 0, false
	}
	month, ok := wordAt(buf, 2)
	if !ok || !monthNames[strings.ToLower(month)] {
		return token.Token{}, 0, false
	}
	if !sepAt(buf, 3, token.SepSpace) {
		return token.Token{}, 0, false
	}
	yyyy, ok := wordAt(buf, 4)
	if !ok || !isDigits(yyyy) {
		return token.Token{}, 0, false
	}
	text := dd + " " + strings.ToLower(month) + " " + yyyy
	return token.NewEquivalenceClass(token.ClassDateFullText, text), 5, true
}

// dateMonthYearMatcher matches "<monthName> <year>".
type dateMonthYearMatcher struct{}

func (dateMonthYearMatcher) Name() string { return "DATE_MONTH_YEAR" }

func (dateMonthYearMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	if len(buf) < 3 {
		return token.Token{}, 0, false
	}
	month, ok := wordAt(buf, 0)
	if !ok || !monthNames[strings.ToLower(month)] {
		return token.Token{}, 0, false
	}
	if !sepAt(buf, 1, token.SepSpace) {
		return token.Token{}, 0, false
	}
	year, ok := wordAt(buf, 2)
	if !ok || !isDigits(year) {
		return token.Token{}, 0, false
	}
	text := strings.ToLower(month) + " " + year
	return token.NewEquivalenceClass(token.ClassDateMonthYear, text), 3, true
}

// dateDayMonthMatcher matches "<day> <monthName>".
type dateDayMonthMatcher struct{}

func (dateDayMonthMatcher) Name() string { return "DATE_DAY_MONTH" }

func (dateDayMonthMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	if len(buf) < 3 {
		return token.Token{}, 0, false
	}
	day, ok := wordAt(buf, 0)
	if !ok || !isDigits(day) {
		return token.Token{}, 0, false
	}
	if !sepAt(buf, 1, token.SepSpace) {
		return token.Token{}, 0, false
	}
	month, ok := wordAt(buf, 2)
	if !ok || !monthNames[strings.ToLower(month)] {
		return token.Token{}, 0, false
	}
	text := day + " " + strings.ToLower(month)
	return token.NewEquivalenceClass(token.ClassDateDayMonth, text), 3, true
}

// dateWeekDayMatcher matches a lone weekday name, output lowercased.
type dateWeekDayMatcher struct{}

func (dateWeekDayMatcher) Name() string { return "DATE_WEEK_DAY" }

func (dateWeekDayMatcher) Try(buf []token.Token) (token.Token, int, bool) {
	w, ok := wordAt(buf, 0)
	if !ok {
		return token.Token{}, 0, false
	}
	lower := strings.ToLower(w)
	if !weekdayNames[lower] {
		return token.Token{}, 0, false
	}
	return token.NewEquivalenceClass(token.ClassDateWeekDay, lower), 1, true
}
