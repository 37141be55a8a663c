package pattern

import (
	"testing"

	"github.com/steosofficial/predict4all/token"
)

func words(toks ...token.Token) []token.Token { return toks }

func TestConvertDateFullDigit(t *testing.T) {
	in := words(
		token.NewWord("12"), token.NewSeparator(token.SepSlash),
		token.NewWord("05"), token.NewSeparator(token.SepSlash),
		token.NewWord("99"),
	)
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].Kind != token.KindEquivalenceClass || out[0].ClassKind != token.ClassDateFullDigit {
		t.Fatalf("got %v", out)
	}
}

func TestConvertPercentFused(t *testing.T) {
	in := words(token.NewWord("12%"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].ClassKind != token.ClassPercent || out[0].ClassText != "12%" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertPercentSpaced(t *testing.T) {
	in := words(token.NewWord("12"), token.NewSeparator(token.SepSpace), token.NewWord("%"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].ClassKind != token.ClassPercent || out[0].ClassText != "12%" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertNumberDecimal(t *testing.T) {
	in := words(token.NewWord("3"), token.NewSeparator(token.SepComma), token.NewWord("14"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].ClassKind != token.ClassDecimal || out[0].ClassText != "3,14" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertApostrophe(t *testing.T) {
	in := words(token.NewWord("l"), token.NewSeparator(token.SepApostrophe), token.NewWord("arbre"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 2 || out[0].Kind != token.KindWord || out[0].Text != "l'" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertAcronym(t *testing.T) {
	in := words(
		token.NewWord("U"), token.NewSeparator(token.SepPoint),
		token.NewWord("S"), token.NewSeparator(token.SepPoint),
		token.NewWord("A"),
	)
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].ClassKind != token.ClassAcronym || out[0].ClassText != "USA" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertProperName(t *testing.T) {
	in := words(token.NewWord("Victor"), token.NewSeparator(token.SepSpace), token.NewWord("Hugo"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].ClassKind != token.ClassProperName || out[0].ClassText != "Victor Hugo" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertHyphen(t *testing.T) {
	in := words(token.NewWord("porte"), token.NewSeparator(token.SepHyphen), token.NewWord("fenêtre"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 1 || out[0].Kind != token.KindWord || out[0].Text != "porte-fenêtre" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertNGramPresetSkipsDates(t *testing.T) {
	in := words(
		token.NewWord("lundi"),
	)
	out := NewConverter(NGramPreset()).Convert(in)
	// DATE_WEEK_DAY is semantic-only; the n-gram preset must pass it through
	// as a plain word.
	if len(out) != 1 || out[0].Kind != token.KindWord || out[0].Text != "lundi" {
		t.Fatalf("got %v", out)
	}
}

func TestConvertPassesThroughPlainWords(t *testing.T) {
	in := words(token.NewWord("chien"), token.NewSeparator(token.SepSpace), token.NewWord("mange"))
	out := NewConverter(SemanticPreset()).Convert(in)
	if len(out) != 3 {
		t.Fatalf("got %v", out)
	}
}
