package training

import (
	"errors"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/steosofficial/predict4all/dict"
	"github.com/steosofficial/predict4all/logging"
	"github.com/steosofficial/predict4all/ngram"
	"github.com/steosofficial/predict4all/smoothing"
	"github.com/steosofficial/predict4all/token"
)

// parseAndConvert runs PARSER+TOKEN_CONVERT (stages 1-2) over every path on
// a fixed worker pool sized to cfg.NumWorkers, grounded on
// guiperry-HASHER's processor.go jobs/results/WaitGroup/mpb.Bar skeleton.
// It returns, per document that survived, its converted token stream, fed
// directly into the remaining stages rather than re-read from disk.
func (p *Pipeline) parseAndConvert(paths []string, bar *mpb.Bar) (map[string][]token.Token, []DocumentError) {
	type job struct{ path string }
	type outcome struct {
		path   string
		tokens []token.Token
		err    error
	}

	jobs := make(chan job, p.cfg.NumWorkers*2)
	results := make(chan outcome, p.cfg.NumWorkers*2)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for j := range jobs {
			if p.cancel != nil && p.cancel.Cancelled() {
				results <- outcome{path: j.path, err: ErrCancelled}
				continue
			}
			tokens, err := p.tokenizeDocument(j.path)
			results <- outcome{path: j.path, tokens: tokens, err: err}
			if bar != nil {
				bar.Increment()
			}
		}
	}

	for w := 0; w < p.cfg.NumWorkers; w++ {
		wg.Add(1)
		go worker()
	}
	go func() {
		for _, path := range paths {
			jobs <- job{path: path}
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string][]token.Token, len(paths))
	var errs []DocumentError
	for r := range results {
		if r.err != nil {
			errs = append(errs, DocumentError{Path: r.path, Err: r.err})
			p.logger.Warn("document failed", logging.String("path", r.path), logging.Err(r.err))
			continue
		}
		out[r.path] = r.tokens
	}
	return out, errs
}

// Run executes the training DAG over paths and returns the resulting
// dictionary and n-gram model (spec.md §4.8).
func (p *Pipeline) Run(paths []string) (*Result, error) {
	progress := mpb.New(mpb.WithWidth(80))

	if p.initialStep > StageParser && p.cached != nil {
		// Skipping stages is a carried-forward artifact replay, not a
		// re-execution (spec.md §4.8's initialStep).
		return p.runFrom(p.cached, paths, progress)
	}

	bar := progress.AddBar(int64(len(paths)),
		mpb.PrependDecorators(
			decor.Name("parsing: "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"),
		),
	)

	docs, errs := p.parseAndConvert(paths, bar)
	progress.Wait()

	result := &Result{Errors: errs}
	p.logger.Info("tokenization complete", logging.Int("documents", len(docs)), logging.Int("errors", len(errs)))

	return p.buildDictionaryAndNGrams(docs, result)
}

// runFrom resumes the pipeline from a cached artifact, per spec.md §4.8's
// initialStep skip: only the stages at or after p.initialStep execute.
func (p *Pipeline) runFrom(cached *Result, paths []string, progress *mpb.Progress) (*Result, error) {
	if p.initialStep > StageNGramDictionary {
		return cached, nil
	}
	// Token streams are not cached, so documents are re-tokenized; the word
	// dictionary is rebuilt when initialStep reaches back to
	// WORDS_DICTIONARY, otherwise n-grams are rebuilt against cached's.
	bar := progress.AddBar(int64(len(paths)),
		mpb.PrependDecorators(decor.Name("re-tokenizing: ")),
	)
	docs, errs := p.parseAndConvert(paths, bar)
	progress.Wait()
	cached.Errors = append(cached.Errors, errs...)
	if p.initialStep <= StageWordsDictionary {
		return p.buildDictionaryAndNGrams(docs, cached)
	}
	return p.buildNGramsOnly(docs, cached)
}

// buildDictionaryAndNGrams runs WORDS_DICTIONARY then NGRAM_DICTIONARY
// (stages 3-4) over the converted token streams already held in memory,
// per spec.md §4.8's "re-emit each document's token stream with the
// resolved ids" — here there is no intermediate file, the resolved ids
// are produced on the fly for the n-gram stage against the freshly built
// dictionary.
func (p *Pipeline) buildDictionaryAndNGrams(docs map[string][]token.Token, result *Result) (*Result, error) {
	result.Dictionary = p.buildWordDictionary(docs)
	p.logger.Info("word dictionary built", logging.Int("words", len(result.Dictionary.AllWords())))
	return p.buildNGramsOnly(docs, result)
}

// buildWordDictionary implements stage 3 (spec.md §4.4, §4.8): one pass
// over every surviving document's Word tokens, accumulating per-surface
// counts into a dict.Builder, then applying the C4 build-time policy.
// EquivalenceClass and Tag tokens already own a fixed reserved id (spec.md
// §3's Word invariant) and never pass through the builder.
func (p *Pipeline) buildWordDictionary(docs map[string][]token.Token) *dict.Dictionary {
	buildCfg := dict.BuildConfig{
		DirectlyValidWordCountThreshold:         int(p.cfg.DirectlyValidWordCountThreshold),
		UnknownWordCountThreshold:                int(p.cfg.UnknownWordCountThreshold),
		UpperCaseReplacementThreshold:             p.cfg.UpperCaseReplacementThreshold,
		ConvertCaseFromDictionaryModelThreshold:  p.cfg.ConvertCaseFromDictionaryModelThreshold,
	}
	builder := dict.NewBuilder(buildCfg, p.base)
	for _, tokens := range docs {
		for _, t := range tokens {
			if t.IsWord() {
				builder.Observe(t.Text)
			}
		}
	}
	return builder.Build()
}

// buildNGramsOnly implements stage 4 (spec.md §4.8, §4.6, §4.7): extract
// every surviving n-gram of every document into the shared concurrent
// counter map, insert into a fresh DynamicNGramDictionary, compute D,
// optionally prune, then compute probabilities.
func (p *Pipeline) buildNGramsOnly(docs map[string][]token.Token, result *Result) (*Result, error) {
	if result.Dictionary == nil {
		return nil, errNoDictionary
	}
	maxOrder := p.cfg.NGramOrder
	if maxOrder < 1 {
		maxOrder = 1
	}

	r := resolver{d: result.Dictionary}
	counts := NewCounterMap()

	var wg sync.WaitGroup
	pathCh := make(chan []token.Token, p.cfg.NumWorkers*2)
	for w := 0; w < p.cfg.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tokens := range pathCh {
				DocumentNGrams(tokens, r, maxOrder, counts)
			}
		}()
	}
	for _, tokens := range docs {
		pathCh <- tokens
	}
	close(pathCh)
	wg.Wait()

	ngrams := ngram.NewDynamic(maxOrder)
	counts.ForEach(func(ngramIDs []int32, count int64) {
		ngrams.PutAndIncrementBy(ngramIDs, 0, count)
	})

	smoothCfg, err := p.smoothingConfig()
	if err != nil {
		return nil, err
	}
	d := smoothing.ComputeD(smoothCfg, ngrams.Histograms())
	if smoothCfg.PruningMethod != smoothing.PruneNone {
		ngrams.Prune(smoothCfg, d)
	}
	ngrams.UpdateProbabilities(d)

	p.logger.Info("n-gram dictionary built",
		logging.Int("distinctNGrams", counts.Len()),
		logging.Int("maxOrder", maxOrder),
		logging.String("pruning", p.cfg.PruningMethod),
	)

	result.NGrams = ngrams
	return result, nil
}

// smoothingConfig adapts config.TrainingConfig's flat smoothing/pruning
// keys (spec.md §6) to smoothing.Config, choosing the per-order threshold
// slice that matches the selected pruning method: RAW_COUNT broadcasts a
// single threshold to every order (smoothing.Config's fallback-to-last
// semantics), ORDER_COUNT supplies one threshold per order.
func (p *Pipeline) smoothingConfig() (smoothing.Config, error) {
	method, err := smoothing.ParsePruningMethod(p.cfg.PruningMethod)
	if err != nil {
		return smoothing.Config{}, err
	}
	cfg := smoothing.Config{
		SmoothingDiscountValue:                  p.cfg.SmoothingDiscountValue,
		SmoothingDiscountMin:                     p.cfg.SmoothingDiscountValueLowerBound,
		SmoothingDiscountMax:                     p.cfg.SmoothingDiscountValueUpperBound,
		PruningMethod:                            method,
		NGramPruningWeightedDifferenceThreshold:  p.cfg.NGramPruningWeightedDifferenceThreshold,
	}
	switch method {
	case smoothing.PruneOrderCount:
		cfg.NGramPruningCountThreshold = p.cfg.NGramPruningOrderCountThresholds
	case smoothing.PruneRawCount:
		cfg.NGramPruningCountThreshold = p.cfg.NGramPruningCountThreshold
	}
	return cfg, nil
}

var errNoDictionary = errors.New("training: n-gram stage requires a word dictionary")
