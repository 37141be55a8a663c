package training

import "github.com/steosofficial/predict4all/token"

// StartNGramID is the synthetic word id substituted at virtual position -1
// (spec.md §4.8: "index -1 represents the START tag"). It is negative so it
// can never collide with a real dictionary id. The predictor package reuses
// this exact sentinel when assembling context prefixes at prediction time,
// since it must address the same trie keys this package wrote at training
// time.
const StartNGramID int32 = -1

// UnknownNGramID marks a component that failed to resolve; any candidate
// containing it is discarded rather than counted (spec.md §4.8).
const UnknownNGramID int32 = -2

// NGramIDs resolves tokens to word ids for extraction, substituting
// UnknownNGramID for any token the resolver can't map. The virtual START
// position is not part of the result; ExtractNGrams supplies StartNGramID
// for it.
func NGramIDs(tokens []token.Token, r token.IDResolver) []int32 {
	ids := make([]int32, len(tokens))
	for i, t := range tokens {
		if id, ok := t.WordID(r); ok {
			ids[i] = id
		} else {
			ids[i] = UnknownNGramID
		}
	}
	return ids
}

// SplitSentences partitions a token stream into sentences at every
// sentence-ending separator, dropping separator tokens from the emitted
// sentences entirely (spec.md §4.8: "split into sentences at
// Separator.isSentenceSeparator(); drop separators within a sentence").
func SplitSentences(tokens []token.Token) [][]token.Token {
	var sentences [][]token.Token
	var current []token.Token
	for _, t := range tokens {
		if t.IsSeparator() {
			if t.Separator.IsSentenceSeparator() && len(current) > 0 {
				sentences = append(sentences, current)
				current = nil
			}
			// Non-sentence separators are dropped too: only word-bearing
			// tokens participate in n-gram extraction.
			continue
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences
}

// ExtractNGrams emits every k-gram ending at each position of one sentence,
// for k in [1, maxOrder], per spec.md §4.8: "for each position i in
// [-1, |tokens|) and each order k in [1, maxOrder], emit the k-gram ending
// at i (index -1 represents the START tag). If any component resolves to
// UNKNOWN, discard it." fn is called once per surviving n-gram with its
// word-id vector, oldest first. The slice passed to fn is reused between
// calls; callers that need to retain it must copy.
func ExtractNGrams(ids []int32, maxOrder int, fn func(ngram []int32)) {
	n := len(ids)
	buf := make([]int32, maxOrder)
	for i := -1; i < n; i++ {
		for k := 1; k <= maxOrder; k++ {
			start := i - k + 1
			if start < -1 {
				break // larger k only needs more history we don't have
			}
			candidate := buf[:k]
			bad := false
			for j := start; j <= i; j++ {
				var id int32
				if j == -1 {
					id = StartNGramID
				} else {
					id = ids[j]
				}
				if id == UnknownNGramID {
					bad = true
					break
				}
				candidate[j-start] = id
			}
			if bad {
				continue
			}
			fn(candidate)
		}
	}
}

// DocumentNGrams extracts and counts every surviving n-gram of one
// tokenized, converted document into counts, keyed by the string form of
// its word-id vector (see counterKey).
func DocumentNGrams(tokens []token.Token, r token.IDResolver, maxOrder int, counts *CounterMap) {
	for _, sentence := range SplitSentences(tokens) {
		ids := NGramIDs(sentence, r)
		ExtractNGrams(ids, maxOrder, func(ngram []int32) {
			counts.Increment(ngram)
		})
	}
}
