// Package ngram implements the n-gram trie dictionary (spec.md §4.6): a
// rooted trie whose depth-k paths represent k-grams, in two shapes
// sharing one probability model — a dynamic, fully in-memory trie used
// for training and the per-user model, and a static, mmap-backed, lazily
// loaded reader for the baseline model. The static reader's binary
// child-block layout and lazy loading are grounded on the teacher's
// bytesToSlice/FlatNode/FlatEdge mmap scheme in analyzer/analyzer.go.
package ngram

import "errors"

// ErrUnsupportedMutation is returned by mutating methods called on a
// StaticDictionary (spec.md §7: "Unsupported mutation ... Fatal
// programmer error").
var ErrUnsupportedMutation = errors.New("ngram: mutating method called on a static dictionary")

// ChildInfo is the per-child statistic exposed by ListNextWords: enough
// for the predictor to build a dict.NextWord candidate without this
// package depending on the dict package.
type ChildInfo struct {
	WordID    int32
	Frequency float32
}

// Dictionary is the abstract contract shared by StaticDictionary and
// DynamicDictionary (spec.md §4.6). Callers never inspect which variant
// they hold.
type Dictionary interface {
	MaxOrder() int
	ListNextWords(prefix []int32, startIndex int) []ChildInfo
	GetProbability(prefix []int32, index, length int, word int32) float64
}
