// Package predictor implements the prefix detector and predictor (spec.md
// §4.9, §4.10): the hot prediction path that turns a text context into
// ranked word completions, blending a static baseline n-gram model with an
// optional per-user dynamic model and optional spelling-correction
// expansion. Grounded on the teacher's own prediction path
// (analyzer/analyzer.go's findBestPrediction: walk backward from the end
// of an unknown word trying progressively shorter suffixes against a DAWG,
// accepting the longest suffix that resolves to at least one candidate) —
// generalized here from "longest matching suffix of an OOV word" to
// "longest trailing token run that resolves to at least one vocabulary
// candidate".
package predictor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/steosofficial/predict4all/config"
	"github.com/steosofficial/predict4all/dict"
	"github.com/steosofficial/predict4all/logging"
	"github.com/steosofficial/predict4all/ngram"
	"github.com/steosofficial/predict4all/pattern"
	"github.com/steosofficial/predict4all/token"
	"github.com/steosofficial/predict4all/tokenizer"
	"github.com/steosofficial/predict4all/training"
)

// ErrNoDynamicModel is returned by TrainDynamicModel when the predictor
// was built without a per-user dynamic dictionary.
var ErrNoDynamicModel = errors.New("predictor: no dynamic model configured")

// vocabularyFallbackWeight scales a candidate's plain dictionary
// probFactor into a term added to every candidate's score: small enough
// that any genuine n-gram signal always dominates it, but non-zero so
// candidates with no n-gram probability mass under the current context
// (e.g. a prefix-only match the training corpus never observed in this
// context) still rank by their own weight rather than tying at zero.
const vocabularyFallbackWeight = 1e-6

// recencyBonusWeight/recencyHalfLifeSeconds shape the user-word recency
// bonus (spec.md §4.10): a freshly used word gets close to the full
// bonus, which decays hyperbolically with age: half of it after
// recencyHalfLifeSeconds, a third after twice that.
const (
	recencyBonusWeight        = 0.05
	recencyHalfLifeSeconds    = 3600.0
)

// Suggestion is one ranked completion returned by Predict.
type Suggestion struct {
	WordID1      int32
	WordID2      int32 // -1 unless this is a compound suggestion (spec.md §4.9).
	SpaceBetween bool
	// Display is the portion of the candidate's surface after the
	// detected prefix, re-cased for sentence position (spec.md §4.10:
	// "populate predictionToDisplay by re-casing ... and appending the
	// portion after the detected prefix"). With no prefix detected, this
	// is the full (re-cased) surface.
	Display string
	Score   float64
}

// Predictor is C10 (spec.md §4.10): context assembly, candidate gathering,
// scoring, correction and ranking, plus dynamic-model training.
type Predictor struct {
	cfg        config.PredictorConfig
	dictionary *dict.Dictionary
	static     ngram.Dictionary
	dynamic    *ngram.DynamicDictionary

	semanticConverter *pattern.Converter
	ngramConverter    *pattern.Converter
	corrector         CorrectionGenerator
	logger            logging.Logger
	clock             func() int64

	dynamicD     []float32
	dynamicDirty bool
}

// Option configures a Predictor at construction time.
type Option func(*Predictor)

// WithDynamic wires a per-user dynamic n-gram model (spec.md §4.10).
func WithDynamic(d *ngram.DynamicDictionary) Option {
	return func(p *Predictor) { p.dynamic = d }
}

// WithCorrector overrides the default CorrectionGenerator.
func WithCorrector(c CorrectionGenerator) Option {
	return func(p *Predictor) { p.corrector = c }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Predictor) { p.logger = l }
}

// WithClock overrides the epoch-millisecond clock used for recency
// bonuses and user-word timestamps; tests inject a fixed clock for
// deterministic scores.
func WithClock(fn func() int64) Option {
	return func(p *Predictor) { p.clock = fn }
}

// New builds a Predictor. static is required; every other collaborator is
// optional (a nil dynamic model disables per-user mixing; cfg.EnableWordCorrection
// with no WithCorrector option falls back to NewAccentCorrector, spec.md §8 S5).
func New(cfg config.PredictorConfig, dictionary *dict.Dictionary, static ngram.Dictionary, opts ...Option) *Predictor {
	p := &Predictor{
		cfg:               cfg,
		dictionary:        dictionary,
		static:            static,
		semanticConverter: pattern.NewConverter(pattern.SemanticPreset()),
		ngramConverter:    pattern.NewConverter(pattern.NGramPreset()),
		logger:            logging.NewNop(),
		clock:             defaultClock,
		dynamicD:          nil,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cfg.EnableWordCorrection && p.corrector == nil {
		p.corrector = NewAccentCorrector()
	}
	return p
}

func (p *Predictor) maxOrder() int {
	if p.static != nil {
		return p.static.MaxOrder()
	}
	return 1
}

// Predict implements spec.md §4.10 steps 1-7: tokenize/convert, detect the
// current-word prefix, assemble the context, gather candidates across
// orders and models, score, filter, dedupe, sort, and truncate to n.
func (p *Predictor) Predict(text string, caret int, n int, exclusions map[int32]bool) ([]Suggestion, error) {
	if n <= 0 {
		return nil, fmt.Errorf("predictor: n must be > 0, got %d", n)
	}
	input := text
	if caret >= 0 && caret < len(text) {
		input = text[:caret]
	}

	raw, err := tokenizer.All(tokenizer.New(strings.NewReader(input), len(input)))
	if err != nil {
		p.logger.Error("tokenize failed", logging.Err(err))
		return nil, nil
	}
	tokens := p.semanticConverter.Convert(raw)

	param := dict.PredictionParameter{MinUseCountToValidateNewWord: int32(p.cfg.MinUseCountToValidateNewWord)}
	sentenceInitial := sentenceInitialTail(tokens)

	var prefixDetected *WordPrefixDetected
	if len(tokens) > 0 {
		prefixDetected = DetectPrefix(tokens, p.dictionary, param, sentenceInitial, p.corrector, p.cfg.CorrectionMaxCost)
	}

	freeze := len(tokens)
	if prefixDetected != nil {
		freeze = len(tokens) - prefixDetected.TokenCount
	}

	p.ensureDynamicProbabilities()
	context := p.buildContext(tokens, freeze)

	candidates := p.gatherCandidates(context, n, prefixDetected)

	now := p.clock()
	out := make([]Suggestion, 0, len(candidates))
	for key, nw := range candidates {
		if exclusions[nw.WordID1] {
			continue
		}
		w1, ok := p.dictionary.WordByID(nw.WordID1)
		if !ok || !w1.IsValidForPrediction(param.MinUseCountToValidateNewWord) {
			continue
		}
		cost := 0
		if prefixDetected != nil {
			c, corrected := prefixDetected.CorrectionCost[key]
			// Correction-generated candidates start with the corrected
			// prefix rather than the typed one, so only the others are
			// filtered; the correction cost penalizes them in score.
			if !corrected && !p.matchesPrefix(nw, prefixDetected.LongestWordPrefix) {
				continue
			}
			cost = c
		}
		score := p.score(context, nw, w1, now, cost)
		out = append(out, Suggestion{
			WordID1:      nw.WordID1,
			WordID2:      nw.WordID2,
			SpaceBetween: nw.SpaceBetween,
			Display:      p.display(nw, prefixDetected, sentenceInitial),
			Score:        score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].WordID1 != out[j].WordID1 {
			return out[i].WordID1 < out[j].WordID1
		}
		return out[i].WordID2 < out[j].WordID2
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// buildContext assembles the maxOrder-1 context window (spec.md §4.10
// step 3): walk back from freeze keeping non-separator tokens, left-pad
// with the START sentinel training wrote its own n-grams with, and
// resolve each kept token to its word id. A Word token with no existing
// id is, unless it is the very first or last token of the whole input
// (spec.md: "first and last tokens are never auto-added to the
// dictionary"), minted as a user word on the spot so later predictions in
// the same session see it.
func (p *Predictor) buildContext(tokens []token.Token, freeze int) []int32 {
	windowLen := p.maxOrder() - 1
	if windowLen < 0 {
		windowLen = 0
	}
	now := p.clock()
	ids := make([]int32, 0, windowLen)
	for i := freeze - 1; i >= 0 && len(ids) < windowLen; i-- {
		t := tokens[i]
		if t.IsSeparator() {
			continue
		}
		id, ok := t.WordID(p.dictionary)
		if !ok && t.IsWord() && i != 0 && i != len(tokens)-1 {
			id = p.dictionary.PutUserWord(t.Text, now)
			ok = true
		}
		if !ok {
			id = int32(token.TagUnknown.ID())
		}
		ids = append(ids, id)
	}
	reverseInt32(ids)
	if len(ids) < windowLen {
		pad := make([]int32, windowLen-len(ids))
		for i := range pad {
			pad[i] = training.StartNGramID
		}
		ids = append(pad, ids...)
	}
	return ids
}

// gatherCandidates implements spec.md §4.10 step 4: seed from any
// detected-prefix dictionary matches — which may include compound
// NextWord pairs produced by dict.Dictionary.ValidWordsByPrefix's
// registered dict.CompoundForm lookups (spec.md §4.9, §8 S4: "c" ->
// "c'est") — then gather single-word candidates from the static and
// dynamic n-gram tries at decreasing order until at least n distinct
// candidates accumulate.
func (p *Predictor) gatherCandidates(context []int32, n int, prefixDetected *WordPrefixDetected) map[dict.BiIntegerKey]dict.NextWord {
	out := make(map[dict.BiIntegerKey]dict.NextWord)
	if prefixDetected != nil {
		for k, v := range prefixDetected.Words {
			out[k] = v
		}
	}

	maxOrder := p.maxOrder()
	for order := maxOrder; order >= 1; order-- {
		subLen := order - 1
		if subLen > len(context) {
			continue
		}
		sub := context[len(context)-subLen:]
		if p.static != nil {
			mergeChildren(out, p.static.ListNextWords(sub, 0))
		}
		if p.dynamic != nil {
			mergeChildren(out, p.dynamic.ListNextWords(sub, 0))
		}
		if len(out) >= n {
			break
		}
	}
	return out
}

func mergeChildren(out map[dict.BiIntegerKey]dict.NextWord, children []ngram.ChildInfo) {
	for _, c := range children {
		key := dict.BiIntegerKey{ID1: c.WordID, ID2: -1}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = dict.NextWord{Key: key, WordID1: c.WordID, WordID2: -1, ScoreFactor: 1}
	}
}

// score implements spec.md §4.10 step 5: interpolated static probability,
// mixed with the interpolated dynamic probability by
// cfg.DynamicModelMixture, the word's probFactor, and a user-word recency
// bonus; step 6's correction-cost penalty is applied multiplicatively.
func (p *Predictor) score(context []int32, nw dict.NextWord, w dict.Word, nowMs int64, correctionCost int) float64 {
	var pStatic float64
	if p.static != nil {
		pStatic = p.static.GetProbability(context, 0, len(context), nw.WordID1)
	}
	combined := pStatic
	if p.dynamic != nil {
		pDynamic := p.dynamic.GetProbability(context, 0, len(context), nw.WordID1)
		mix := p.cfg.DynamicModelMixture
		combined = pStatic*(1-mix) + pDynamic*mix
	}

	base := combined + float64(nw.ScoreFactor)*float64(w.ProbFactor)*vocabularyFallbackWeight
	if w.Kind == dict.WordUser && w.LastUseEpochMs > 0 {
		base += recencyBonus(nowMs, w.LastUseEpochMs)
	}
	if correctionCost > 0 {
		base /= float64(1 + correctionCost)
	}
	return base
}

func recencyBonus(nowMs, lastUseMs int64) float64 {
	ageSeconds := float64(nowMs-lastUseMs) / 1000.0
	if ageSeconds < 0 {
		ageSeconds = 0
	}
	return recencyBonusWeight / (1 + ageSeconds/recencyHalfLifeSeconds)
}

// sentenceInitialTail reports whether the in-progress word run at the end
// of tokens begins a sentence: skip that trailing eligible run, then walk
// back over any remaining separators; a sentence separator (or running
// off the start of the document) means the run is sentence-initial, any
// other content token means it is not.
func sentenceInitialTail(tokens []token.Token) bool {
	i := len(tokens)
	for i > 0 && eligibleForPrefix(tokens[i-1]) {
		i--
	}
	for j := i - 1; j >= 0; j-- {
		t := tokens[j]
		if t.IsSeparator() {
			if t.Separator.IsSentenceSeparator() {
				return true
			}
			continue
		}
		return false
	}
	return true
}

// matchesPrefix implements spec.md §8 invariant 6: every candidate word's
// lowercase surface must start with lowercase(prefix).
func (p *Predictor) matchesPrefix(nw dict.NextWord, prefix string) bool {
	if prefix == "" {
		return true
	}
	w1, ok := p.dictionary.WordByID(nw.WordID1)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(w1.Text), strings.ToLower(prefix))
}

// display implements spec.md §4.10 step 7: re-case the candidate's
// surface for sentence position, then return only the portion after the
// detected prefix (or the whole re-cased surface when no prefix was
// detected).
func (p *Predictor) display(nw dict.NextWord, prefixDetected *WordPrefixDetected, sentenceInitial bool) string {
	w1, _ := p.dictionary.WordByID(nw.WordID1)
	surface := w1.Text
	if nw.WordID2 >= 0 {
		if w2, ok := p.dictionary.WordByID(nw.WordID2); ok {
			sep := ""
			if nw.SpaceBetween {
				sep = " "
			}
			surface = surface + sep + w2.Text
		}
	}
	if sentenceInitial {
		surface = capitalizeFirst(surface)
	}
	if prefixDetected == nil {
		return surface
	}
	pr := []rune(prefixDetected.LongestWordPrefix)
	sr := []rune(surface)
	if len(pr) > len(sr) {
		return surface
	}
	return string(sr[len(pr):])
}

// TrainDynamicModel implements spec.md §4.10's last paragraph: tokenize
// and convert text with the n-gram preset (matching the stream shape the
// training pipeline built the static model from), bump the usage count of
// every surface word in the user dictionary, and insert or increment the
// corresponding n-grams of every order up to maxOrder in the dynamic
// trie. Probabilities are recomputed lazily before the next Predict call.
func (p *Predictor) TrainDynamicModel(text string, wholeSentence bool) error {
	if p.dynamic == nil {
		return ErrNoDynamicModel
	}
	raw, err := tokenizer.All(tokenizer.New(strings.NewReader(text), len(text)))
	if err != nil {
		return fmt.Errorf("predictor: tokenize dynamic training text: %w", err)
	}
	tokens := p.ngramConverter.Convert(raw)

	now := p.clock()
	for _, t := range tokens {
		if t.IsWord() {
			p.dictionary.PutUserWord(t.Text, now)
		}
	}

	maxOrder := p.maxOrder()
	var groups [][]token.Token
	if wholeSentence {
		groups = training.SplitSentences(tokens)
	} else {
		// One group for the whole text, separators dropped: a separator has
		// no word id and would void every n-gram spanning it.
		var words []token.Token
		for _, t := range tokens {
			if !t.IsSeparator() {
				words = append(words, t)
			}
		}
		groups = [][]token.Token{words}
	}
	for _, group := range groups {
		ids := training.NGramIDs(group, p.dictionary)
		training.ExtractNGrams(ids, maxOrder, func(ngramIDs []int32) {
			cp := append([]int32(nil), ngramIDs...)
			p.dynamic.PutAndIncrementBy(cp, 0, 1)
		})
	}

	p.dynamicDirty = true
	return nil
}

// ensureDynamicProbabilities lazily recomputes the dynamic trie's
// probabilities after TrainDynamicModel mutated it (spec.md §4.6:
// "probabilities are recomputed on open ... and after any
// updateProbabilities call", applied here on next use rather than eagerly
// per insert). The per-user trie is fit with the fixed D=0.5 default
// rather than a histogram fit: a single user's session rarely has enough
// per-order observations for the Kneser-Ney closed form to be stable.
func (p *Predictor) ensureDynamicProbabilities() {
	if p.dynamic == nil || !p.dynamicDirty {
		return
	}
	d := p.dynamicD
	if d == nil {
		d = make([]float32, p.maxOrder())
		for i := range d {
			d[i] = 0.5
		}
	}
	p.dynamic.UpdateProbabilities(d)
	p.dynamicDirty = false
}

func reverseInt32(s []int32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func capitalizeFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func defaultClock() int64 { return time.Now().UnixMilli() }
