// Package training implements the five-stage training pipeline (spec.md
// §4.8, §5): PARSER, TOKEN_CONVERT, WORDS_DICTIONARY, NGRAM_DICTIONARY, and
// a stubbed SEMANTIC_DICTIONARY leaf. Each stage is an embarrassingly
// parallel fan-out over documents executed on a fixed worker pool sized to
// hardware concurrency, grounded on
// guiperry-HASHER/pipeline/1_DATA_MINER/internal/app/processor.go's
// jobs/results-channel plus sync.WaitGroup worker pool and its
// mpb-rendered progress bar.
package training

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/steosofficial/predict4all/config"
	"github.com/steosofficial/predict4all/dict"
	"github.com/steosofficial/predict4all/logging"
	"github.com/steosofficial/predict4all/ngram"
	"github.com/steosofficial/predict4all/pattern"
	"github.com/steosofficial/predict4all/token"
	"github.com/steosofficial/predict4all/tokenizer"
)

// Stage identifies one step of the training DAG (spec.md §4.8).
type Stage int

const (
	StageParser Stage = iota
	StageTokenConvert
	StageWordsDictionary
	StageNGramDictionary
	StageSemanticDictionary
)

func (s Stage) String() string {
	switch s {
	case StageParser:
		return "PARSER"
	case StageTokenConvert:
		return "TOKEN_CONVERT"
	case StageWordsDictionary:
		return "WORDS_DICTIONARY"
	case StageNGramDictionary:
		return "NGRAM_DICTIONARY"
	case StageSemanticDictionary:
		return "SEMANTIC_DICTIONARY"
	default:
		return "UNKNOWN"
	}
}

// CancelToken is the cooperative cancellation hook spec.md §5 notes "may be
// added": checked once per completed document, never preempting an
// in-flight one.
type CancelToken struct {
	cancelled atomic.Bool
}

func (c *CancelToken) Cancel()         { c.cancelled.Store(true) }
func (c *CancelToken) Cancelled() bool { return c.cancelled.Load() }

// ErrCancelled is recorded as the DocumentError of every document a worker
// picks up after a CancelToken fires. Run does not return it: it goes on to
// build the dictionary and n-grams from the documents completed before
// the cancellation.
var ErrCancelled = fmt.Errorf("training: cancelled")

// DocumentSource opens one training document by path.
type DocumentSource interface {
	Open(path string) (io.ReadCloser, error)
}

// DocumentError records a per-document failure (spec.md §7: "per-document
// training errors are logged and skipped; the document is omitted from
// aggregation").
type DocumentError struct {
	Path string
	Err  error
}

// Result bundles the artifacts the pipeline produces.
type Result struct {
	Dictionary *dict.Dictionary
	NGrams     *ngram.DynamicDictionary
	Errors     []DocumentError
}

// Pipeline runs the training DAG over a corpus of document paths.
type Pipeline struct {
	cfg       config.TrainingConfig
	source    DocumentSource
	base      dict.BaseWordDictionary
	converter *pattern.Converter
	logger    logging.Logger
	cancel    *CancelToken

	initialStep Stage
	cached      *Result // artifact carried forward when initialStep skips earlier stages
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithBaseWordDictionary supplies the case-conversion reference dictionary
// consulted by C4's build policy (spec.md §4.4); nil is a valid value.
func WithBaseWordDictionary(base dict.BaseWordDictionary) Option {
	return func(p *Pipeline) { p.base = base }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithCancelToken wires a cooperative cancellation hook.
func WithCancelToken(c *CancelToken) Option {
	return func(p *Pipeline) { p.cancel = c }
}

// WithInitialStep skips every stage before step, reusing cached as the
// carried-forward artifact of the skipped stages (spec.md §4.8:
// "a single initialStep argument may skip earlier stages").
func WithInitialStep(step Stage, cached *Result) Option {
	return func(p *Pipeline) { p.initialStep = step; p.cached = cached }
}

// NewPipeline builds a Pipeline reading documents through source, using the
// n-gram preset converter (spec.md §4.8 step 2: "apply C3 with the n-gram
// matcher preset").
func NewPipeline(cfg config.TrainingConfig, source DocumentSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		source:    source,
		converter: pattern.NewConverter(pattern.NGramPreset()),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// resolver adapts a dict.Dictionary to token.IDResolver. It only looks
// surfaces up; NGramIDs and ExtractNGrams substitute the UNKNOWN and START
// ids.
type resolver struct {
	d *dict.Dictionary
}

func (r resolver) WordID(surface string) (int32, bool) { return r.d.WordID(surface) }

// tokenizeDocument runs PARSER+TOKEN_CONVERT (stages 1-2) over one document.
func (p *Pipeline) tokenizeDocument(path string) ([]token.Token, error) {
	rc, err := p.source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("training: open %q: %w", path, err)
	}
	defer rc.Close()

	tz := tokenizer.New(rc, 0)
	raw, err := tokenizer.All(tz)
	if err != nil {
		return nil, fmt.Errorf("training: tokenize %q: %w", path, err)
	}
	return p.converter.Convert(raw), nil
}
