package dict

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/steosofficial/predict4all/token"
)

// BiIntegerKey identifies a NextWord candidate and deduplicates across
// gathering phases (spec.md §4.9): ID2 is -1 for a single-word candidate.
type BiIntegerKey struct {
	ID1 int32
	ID2 int32
}

// NextWord is the candidate payload returned by prefix and n-gram
// gathering: either a single word id with a score factor, or a compound
// pair (word1, word2, spaceBetween) per spec.md §4.9.
type NextWord struct {
	Key          BiIntegerKey
	WordID1      int32
	WordID2      int32
	SpaceBetween bool
	ScoreFactor  float32
}

// PredictionParameter carries the validity threshold used when filtering
// candidate words (spec.md §4.4, §6 "minUseCountToValidateNewWord").
type PredictionParameter struct {
	MinUseCountToValidateNewWord int32
}

// Dictionary is the runtime word dictionary (spec.md §4.4): bidirectional
// text↔id mapping, a lowercase case-variant index, and user-word inserts.
// Ids <= token.TagMaxID are reserved for equivalence classes and tags;
// ordinary vocabulary starts at token.TagMaxID+1, per the Word invariant.
type Dictionary struct {
	mu         sync.RWMutex
	byID       []Word
	byText     map[string]int32
	lowerIndex map[string][]int32
	nextID     int32
}

// New builds an empty Dictionary with the reserved equivalence-class and
// tag slots pre-populated.
func New() *Dictionary {
	d := &Dictionary{
		byText:     make(map[string]int32),
		lowerIndex: make(map[string][]int32),
		nextID:     int32(token.TagMaxID + 1),
	}
	d.byID = make([]Word, token.TagMaxID+1, token.TagMaxID+1+1024)
	for k := 0; k <= token.EquivalenceClassMaxID; k++ {
		d.byID[k] = Word{ID: int32(k), Kind: WordEquivalenceClassWord, ClassKind: token.EquivalenceClassKind(k)}
	}
	for _, tag := range []token.TagKind{token.TagStart, token.TagUnknown} {
		d.byID[tag.ID()] = Word{ID: int32(tag.ID()), Kind: WordTagWord, Tag: tag}
	}
	return d
}

// addLocked appends a freshly allocated word; the caller must hold mu.
func (d *Dictionary) addLocked(w Word) int32 {
	id := d.nextID
	w.ID = id
	d.nextID++
	d.byID = append(d.byID, w)
	d.byText[w.Text] = id
	lower := strings.ToLower(w.Text)
	d.lowerIndex[lower] = append(d.lowerIndex[lower], id)
	return id
}

// AddSystemWord inserts a build-time vocabulary word. Idempotent: an
// existing surface returns its id unchanged.
func (d *Dictionary) AddSystemWord(text string, probFactor float32) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.byText[text]; ok {
		return id
	}
	return d.addLocked(Word{Kind: WordSimple, Text: text, ProbFactor: probFactor, ModifiedBySystem: true})
}

// PutUserWord inserts or touches a runtime user word (spec.md §4.4):
// idempotent, reinserting an existing surface returns the same id and
// increments its usage counter.
func (d *Dictionary) PutUserWord(text string, nowEpochMs int64) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.byText[text]; ok {
		w := &d.byID[id]
		w.UsageCount++
		w.LastUseEpochMs = nowEpochMs
		return id
	}
	return d.addLocked(Word{
		Kind:           WordUser,
		Text:           text,
		ProbFactor:     1,
		UsageCount:     1,
		LastUseEpochMs: nowEpochMs,
	})
}

// WordByText returns the Word for an exact surface match.
func (d *Dictionary) WordByText(text string) (Word, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byText[text]
	if !ok {
		return Word{}, false
	}
	return d.byID[id], true
}

// WordByID returns the Word registered under id.
func (d *Dictionary) WordByID(id int32) (Word, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id < 0 || int(id) >= len(d.byID) {
		return Word{}, false
	}
	return d.byID[id], true
}

// WordID implements token.IDResolver: unknown surfaces resolve to false,
// letting the caller fall back to the synthetic TagUnknown word.
func (d *Dictionary) WordID(surface string) (int32, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byText[surface]
	return id, ok
}

// AllWords returns every registered word in id order.
func (d *Dictionary) AllWords() []Word {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Word, len(d.byID))
	copy(out, d.byID)
	return out
}

// AllWordsByFrequency returns every word ordered by descending usage
// weight (ProbFactor for system words, UsageCount for user words). This
// supplements spec.md's unordered getAllWords for callers that want to
// rank the vocabulary, e.g. a prediction-candidate dump for debugging.
func (d *Dictionary) AllWordsByFrequency() []Word {
	out := d.AllWords()
	sort.SliceStable(out, func(i, j int) bool {
		return frequencyScore(out[i]) > frequencyScore(out[j])
	})
	return out
}

func frequencyScore(w Word) float64 {
	if w.Kind == WordUser {
		return float64(w.UsageCount)
	}
	return float64(w.ProbFactor)
}

// ValidWordsByPrefix implements getValidWordForPredictionByPrefix
// (spec.md §4.4): every vocabulary word whose lowercase surface starts
// with lowercase(prefix), excluding ids in exclusions and words invalid
// under param, capped at wanted entries. Registered compound forms
// (spec.md §4.9, §8 S4) whose Prefix matches exactly are always included,
// ahead of the cap, since the list is small and a compound suggestion is
// exactly the kind of candidate the cap must not starve.
func (d *Dictionary) ValidWordsByPrefix(prefix string, exclusions map[int32]bool, wanted int, param PredictionParameter) map[BiIntegerKey]NextWord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lowerPrefix := strings.ToLower(prefix)
	out := d.compoundSuggestionsLocked(lowerPrefix, exclusions, param)
	for lower, ids := range d.lowerIndex {
		if !strings.HasPrefix(lower, lowerPrefix) {
			continue
		}
		for _, id := range ids {
			if exclusions[id] {
				continue
			}
			w := d.byID[id]
			if !w.IsValidForPrediction(param.MinUseCountToValidateNewWord) {
				continue
			}
			key := BiIntegerKey{ID1: id, ID2: -1}
			out[key] = NextWord{Key: key, WordID1: id, WordID2: -1, ScoreFactor: w.ProbFactor}
			if len(out) >= wanted {
				return out
			}
		}
	}
	return out
}

// Save writes the full dictionary — every Simple and User word — as a
// gzip-compressed word stream (spec.md §6: "Contains both system-built
// and user words"). EquivalenceClass/Tag words are not persisted: their
// ids are reserved constants that New reconstructs on load.
func (d *Dictionary) Save(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sw := token.NewWordStreamWriter(w)
	for _, word := range d.byID {
		switch word.Kind {
		case WordSimple:
			if err := sw.Write(simpleWordRecord(word)); err != nil {
				return err
			}
		case WordUser:
			if err := sw.Write(userWordRecord(word)); err != nil {
				return err
			}
		}
	}
	return sw.Close()
}

// Load reads a word-dictionary file written by Save into a fresh
// Dictionary, preserving on-disk ids so n-gram files trained against the
// same build stay addressable (spec.md §7's dictionary-mismatch error is
// the caller's responsibility to detect by comparing ids at use time).
func Load(r io.Reader) (*Dictionary, error) {
	sr, err := token.NewWordStreamReader(r)
	if err != nil {
		return nil, err
	}
	defer sr.Close()

	recs, err := token.ReadAllWords(sr)
	if err != nil {
		return nil, err
	}

	d := New()
	for _, rec := range recs {
		switch rec.Type {
		case token.WordRecordSimple:
			d.addLocked(Word{
				Kind:             WordSimple,
				Text:             rec.Text,
				ProbFactor:       rec.ProbFactor,
				ModifiedByUser:   rec.ModifiedByUser,
				ModifiedBySystem: rec.ModifiedBySystem,
				ForceInvalid:     rec.ForceInvalid,
				ForceValid:       rec.ForceValid,
			})
		case token.WordRecordUser:
			d.addLocked(Word{
				Kind:             WordUser,
				Text:             rec.Text,
				ProbFactor:       rec.ProbFactor,
				ModifiedByUser:   rec.ModifiedByUser,
				ModifiedBySystem: rec.ModifiedBySystem,
				ForceInvalid:     rec.ForceInvalid,
				ForceValid:       rec.ForceValid,
				UsageCount:       rec.UsageCount,
				LastUseEpochMs:   rec.LastUseEpochMs,
			})
		}
	}
	return d, nil
}

func simpleWordRecord(w Word) token.WordRecord {
	return token.WordRecord{
		Type:             token.WordRecordSimple,
		ID:               w.ID,
		Text:             w.Text,
		ProbFactor:       w.ProbFactor,
		ModifiedByUser:   w.ModifiedByUser,
		ModifiedBySystem: w.ModifiedBySystem,
		ForceInvalid:     w.ForceInvalid,
		ForceValid:       w.ForceValid,
	}
}

// SaveUserDictionary writes every User word as a gzip-compressed word
// stream (spec.md §6: "a separate user-only dictionary file uses the same
// format restricted to User records").
func (d *Dictionary) SaveUserDictionary(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sw := token.NewWordStreamWriter(w)
	for _, word := range d.byID {
		if word.Kind != WordUser {
			continue
		}
		if err := sw.Write(userWordRecord(word)); err != nil {
			return err
		}
	}
	return sw.Close()
}

// LoadUserDictionary merges User records from r into the dictionary.
// Surfaces already present are left untouched (the build-time/system
// vocabulary always wins).
func (d *Dictionary) LoadUserDictionary(r io.Reader) error {
	sr, err := token.NewWordStreamReader(r)
	if err != nil {
		return err
	}
	defer sr.Close()

	recs, err := token.ReadAllWords(sr)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range recs {
		if rec.Type != token.WordRecordUser {
			continue
		}
		if _, exists := d.byText[rec.Text]; exists {
			continue
		}
		d.addLocked(Word{
			Kind:             WordUser,
			Text:             rec.Text,
			ProbFactor:       rec.ProbFactor,
			ModifiedByUser:   rec.ModifiedByUser,
			ModifiedBySystem: rec.ModifiedBySystem,
			ForceInvalid:     rec.ForceInvalid,
			ForceValid:       rec.ForceValid,
			UsageCount:       rec.UsageCount,
			LastUseEpochMs:   rec.LastUseEpochMs,
		})
	}
	return nil
}

func userWordRecord(w Word) token.WordRecord {
	return token.WordRecord{
		Type:             token.WordRecordUser,
		ID:               w.ID,
		Text:             w.Text,
		ProbFactor:       w.ProbFactor,
		ModifiedByUser:   w.ModifiedByUser,
		ModifiedBySystem: w.ModifiedBySystem,
		ForceInvalid:     w.ForceInvalid,
		ForceValid:       w.ForceValid,
		UsageCount:       w.UsageCount,
		LastUseEpochMs:   w.LastUseEpochMs,
	}
}
