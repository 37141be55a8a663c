// Package tokenizer splits raw text into Word and Separator tokens
// (spec.md §4.2). It is context-free: the emitted sequence does not depend
// on how the input reader chunks bytes, matching the teacher's
// findChildGeneral-style "one decision per input unit, no lookahead across
// calls" discipline.
package tokenizer

import (
	"bufio"
	"io"

	"github.com/steosofficial/predict4all/token"
)

// defaultWordBufferSize is the fallback buffer size when no average
// word-length hint is supplied. Per spec.md §4.2 the hint only sizes an
// internal buffer and carries no semantic weight.
const defaultWordBufferSize = 16

// Tokenizer is a lazy, pull-based scanner: Next returns one token at a
// time until io.EOF, so a caller (the pattern converter, the training
// pipeline) can consume tokens without materializing the whole stream.
type Tokenizer struct {
	r          *bufio.Reader
	wordBufCap int
	pending    rune
	hasPending bool
}

// New builds a Tokenizer over r. avgWordLength is the LanguageModel's hint
// (spec.md §4.2); zero or negative falls back to defaultWordBufferSize.
func New(r io.Reader, avgWordLength int) *Tokenizer {
	bufCap := avgWordLength
	if bufCap <= 0 {
		bufCap = defaultWordBufferSize
	}
	return &Tokenizer{r: bufio.NewReader(r), wordBufCap: bufCap}
}

// Next returns the next token, or io.EOF once the input is exhausted.
func (t *Tokenizer) Next() (token.Token, error) {
	r, err := t.readRune()
	if err != nil {
		return token.Token{}, err
	}

	if sepID, ok := token.RuneIsSeparator(r); ok {
		return token.NewSeparator(sepID), nil
	}

	// Maximal-munch word run: consume runes until the next separator or
	// EOF, pushing the separator back for the following Next() call.
	buf := make([]rune, 0, t.wordBufCap)
	buf = append(buf, r)
	for {
		next, err := t.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return token.Token{}, err
		}
		if _, ok := token.RuneIsSeparator(next); ok {
			t.pushBack(next)
			break
		}
		buf = append(buf, next)
	}
	return token.NewWord(string(buf)), nil
}

func (t *Tokenizer) readRune() (rune, error) {
	if t.hasPending {
		t.hasPending = false
		return t.pending, nil
	}
	r, _, err := t.r.ReadRune()
	return r, err
}

func (t *Tokenizer) pushBack(r rune) {
	t.pending = r
	t.hasPending = true
}

// All drains the Tokenizer into a slice. Intended for tests and for small
// prediction-time inputs (the training pipeline should prefer Next in a
// streaming loop to bound memory per spec.md §5).
func All(t *Tokenizer) ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := t.Next()
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		out = append(out, tok)
	}
}
