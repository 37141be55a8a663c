// Package token defines the tagged-sum Token type shared by the tokenizer,
// the pattern converter, the word dictionary, and the n-gram trainer, plus
// its on-disk codecs.
package token

import "fmt"

// Kind discriminates the four Token variants.
type Kind uint8

const (
	KindWord Kind = iota
	KindSeparator
	KindEquivalenceClass
	KindTag
)

// SeparatorID enumerates the fixed separator set the tokenizer recognizes.
// Values double as the on-disk separator id (§4.1).
type SeparatorID uint8

const (
	SepSpace SeparatorID = iota
	SepPoint
	SepComma
	SepSemicolon
	SepColon
	SepExclamation
	SepQuestion
	SepApostrophe
	SepHyphen
	SepSlash
	SepBackslash
	SepParenOpen
	SepParenClose
	SepNewline
	SepTab
	sepCount
)

// separatorInfo carries the canonical character and the two separator flags
// from spec.md §3: "sentence separator" and "word-internal separator".
type separatorInfo struct {
	char            rune
	isSentence      bool
	isWordInternal  bool
}

var separatorTable = [sepCount]separatorInfo{
	SepSpace:       {' ', false, false},
	SepPoint:       {'.', true, false},
	SepComma:       {',', false, false},
	SepSemicolon:   {';', false, false},
	SepColon:       {':', false, false},
	SepExclamation: {'!', true, false},
	SepQuestion:    {'?', true, false},
	SepApostrophe:  {'\'', false, true},
	SepHyphen:      {'-', false, true},
	SepSlash:       {'/', false, false},
	SepBackslash:   {'\\', false, false},
	SepParenOpen:   {'(', false, false},
	SepParenClose:  {')', false, false},
	SepNewline:     {'\n', true, false},
	SepTab:         {'\t', false, false},
}

// Char returns the canonical character for the separator.
func (s SeparatorID) Char() rune { return separatorTable[s].char }

// IsSentenceSeparator reports whether this separator ends a sentence for
// the purposes of n-gram extraction (§4.8) and prefix detection (§4.9).
func (s SeparatorID) IsSentenceSeparator() bool { return separatorTable[s].isSentence }

// IsWordInternal reports whether this separator can appear inside a word
// being completed (apostrophe groups, hyphenated words) per §4.9.
func (s SeparatorID) IsWordInternal() bool { return separatorTable[s].isWordInternal }

// RuneIsSeparator looks up whether r is one of the declared separators and
// returns its id. This is the single lookup table the tokenizer's
// classification contract (§4.2) is built on.
func RuneIsSeparator(r rune) (SeparatorID, bool) {
	for id := SeparatorID(0); id < sepCount; id++ {
		if separatorTable[id].char == r {
			return id, true
		}
	}
	return 0, false
}

// EquivalenceClassKind enumerates the folded surface categories (§3). Ids
// run from 0 to EquivalenceClassMaxID (11) and are reserved per spec.md's
// Word invariant.
type EquivalenceClassKind uint8

const (
	ClassPercent EquivalenceClassKind = iota
	ClassDateFullDigit
	ClassDateFullText
	ClassDateMonthYear
	ClassDateDayMonth
	ClassDateWeekDay
	ClassInteger
	ClassDecimal
	ClassAcronym
	ClassProperName
	ClassMisc
	ClassCustom
	// classCount is the number of equivalence classes.
	classCount
)

// EquivalenceClassMaxID is the highest reserved equivalence-class id.
const EquivalenceClassMaxID = int(classCount) - 1

// TagKind enumerates the reserved Tag variants. Ids begin just above
// EquivalenceClassMaxID, per the Word invariant in §3.
type TagKind uint8

const (
	TagStart TagKind = iota
	TagUnknown
	tagCount
)

// TagMaxID is the highest id reserved for tags; ordinary vocabulary ids
// start at TagMaxID+1.
var TagMaxID = EquivalenceClassMaxID + int(tagCount)

func (t TagKind) ID() int { return EquivalenceClassMaxID + 1 + int(t) }

// Token is the tagged sum described in spec.md §3. Exactly one of the
// fields below is meaningful, selected by Kind; this mirrors the source's
// class hierarchy collapsing into a variant per spec.md §9.
type Token struct {
	Kind       Kind
	Text       string               // KindWord: literal surface form.
	Separator  SeparatorID          // KindSeparator.
	ClassKind  EquivalenceClassKind // KindEquivalenceClass.
	ClassText  string               // KindEquivalenceClass: the folded literal.
	Tag        TagKind              // KindTag.
}

// NewWord constructs a Word token.
func NewWord(text string) Token { return Token{Kind: KindWord, Text: text} }

// NewSeparator constructs a Separator token.
func NewSeparator(id SeparatorID) Token { return Token{Kind: KindSeparator, Separator: id} }

// NewEquivalenceClass constructs an EquivalenceClass token.
func NewEquivalenceClass(kind EquivalenceClassKind, text string) Token {
	return Token{Kind: KindEquivalenceClass, ClassKind: kind, ClassText: text}
}

// NewTag constructs a Tag token.
func NewTag(tag TagKind) Token { return Token{Kind: KindTag, Tag: tag} }

// IsSeparator reports whether this token is a Separator.
func (t Token) IsSeparator() bool { return t.Kind == KindSeparator }

// IsWord reports whether this token is a Word.
func (t Token) IsWord() bool { return t.Kind == KindWord }

// Surface returns the text a prefix-matcher should compare against: the
// Word text, the folded equivalence-class text, or "" for separators/tags.
func (t Token) Surface() string {
	switch t.Kind {
	case KindWord:
		return t.Text
	case KindEquivalenceClass:
		return t.ClassText
	default:
		return ""
	}
}

func (t Token) String() string {
	switch t.Kind {
	case KindWord:
		return fmt.Sprintf("Word(%q)", t.Text)
	case KindSeparator:
		return fmt.Sprintf("Separator(%c)", t.Separator.Char())
	case KindEquivalenceClass:
		return fmt.Sprintf("Equiv(%d,%q)", t.ClassKind, t.ClassText)
	case KindTag:
		return fmt.Sprintf("Tag(%d)", t.Tag)
	default:
		return "Token(?)"
	}
}

// IDResolver resolves a Token to its word id in the n-gram domain: words
// hash to their dictionary id, equivalence classes to a fixed class id,
// tags to their reserved id. Separators have no id in the n-gram domain.
type IDResolver interface {
	WordID(surface string) (id int32, ok bool)
}

// WordID computes this token's word id against resolver r, per spec.md §3
// ("Each Token knows how to produce its word id against a Word dictionary").
// Separator tokens have no id in the n-gram domain and always return false.
func (t Token) WordID(r IDResolver) (int32, bool) {
	switch t.Kind {
	case KindWord:
		return r.WordID(t.Text)
	case KindEquivalenceClass:
		return int32(t.ClassKind), true
	case KindTag:
		return int32(EquivalenceClassMaxID + 1 + int(t.Tag)), true
	default:
		return 0, false
	}
}
