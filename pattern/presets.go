package pattern

// SemanticPreset returns all thirteen matchers in priority order
// (spec.md §4.3): the full recognizer list exposed to the predictor.
func SemanticPreset() []Matcher {
	return []Matcher{
		dateFullDigitMatcher{},
		dateFullTextMatcher{},
		dateMonthYearMatcher{},
		dateDayMonthMatcher{},
		percentMatcher{},
		specialWordMatcher{},
		dateWeekDayMatcher{},
		numberDecimalMatcher{},
		numberIntMatcher{},
		apostropheMatcher{},
		acronymMatcher{},
		properNameMatcher{},
		hyphenMatcher{},
	}
}

// NGramPreset returns the reduced matcher list used by the training
// pipeline's TOKEN_CONVERT stage (spec.md §4.3, §4.8): PERCENT,
// SPECIAL_WORD, NUMBER_*, APOSTROPHE, ACRONYM, HYPHEN.
func NGramPreset() []Matcher {
	return []Matcher{
		percentMatcher{},
		specialWordMatcher{},
		numberDecimalMatcher{},
		numberIntMatcher{},
		apostropheMatcher{},
		acronymMatcher{},
		hyphenMatcher{},
	}
}
