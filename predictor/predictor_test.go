package predictor

import (
	"testing"

	"github.com/steosofficial/predict4all/config"
	"github.com/steosofficial/predict4all/dict"
	"github.com/steosofficial/predict4all/ngram"
)

func newTestDictionary(t *testing.T) *dict.Dictionary {
	t.Helper()
	d := dict.New()
	d.AddSystemWord("le", 1)
	d.AddSystemWord("chat", 1)
	d.AddSystemWord("chien", 1)
	return d
}

func baselineModel(t *testing.T, d *dict.Dictionary, weight int64) *ngram.DynamicDictionary {
	t.Helper()
	le, _ := d.WordByText("le")
	chat, _ := d.WordByText("chat")
	chien, _ := d.WordByText("chien")

	m := ngram.NewDynamic(2)
	m.PutAndIncrementBy([]int32{le.ID}, 0, 10)
	m.PutAndIncrementBy([]int32{le.ID, chat.ID}, 0, weight)
	m.PutAndIncrementBy([]int32{le.ID, chien.ID}, 0, 2)
	m.UpdateProbabilities([]float32{0.5, 0.5})
	return m
}

func TestPredictRanksByStaticProbability(t *testing.T) {
	d := newTestDictionary(t)
	static := baselineModel(t, d, 8)

	cfg := config.PredictorConfig{MinUseCountToValidateNewWord: 1, DynamicModelMixture: 0}
	p := New(cfg, d, static, WithClock(func() int64 { return 1000 }))

	out, err := p.Predict("le ", -1, 5, nil)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	chatID, _ := d.WordByText("chat")
	if out[0].WordID1 != chatID.ID {
		t.Fatalf("expected 'chat' to rank first, got suggestion %+v (full list %+v)", out[0], out)
	}
}

func TestPredictFiltersAndCompletesPrefix(t *testing.T) {
	d := newTestDictionary(t)
	static := baselineModel(t, d, 8)

	cfg := config.PredictorConfig{MinUseCountToValidateNewWord: 1, DynamicModelMixture: 0}
	p := New(cfg, d, static, WithClock(func() int64 { return 1000 }))

	out, err := p.Predict("le ch", -1, 5, nil)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 prefix-filtered candidates, got %d: %+v", len(out), out)
	}
	for _, s := range out {
		if s.Display != "at" && s.Display != "ien" {
			t.Fatalf("unexpected completion %q for %+v", s.Display, s)
		}
	}
}

func TestPredictExcludesGivenIDs(t *testing.T) {
	d := newTestDictionary(t)
	static := baselineModel(t, d, 8)
	cfg := config.PredictorConfig{MinUseCountToValidateNewWord: 1, DynamicModelMixture: 0}
	p := New(cfg, d, static, WithClock(func() int64 { return 1000 }))

	chatID, _ := d.WordByText("chat")
	out, err := p.Predict("le ", -1, 5, map[int32]bool{chatID.ID: true})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for _, s := range out {
		if s.WordID1 == chatID.ID {
			t.Fatalf("expected 'chat' to be excluded, got %+v", out)
		}
	}
}

func TestTrainDynamicModelRequiresDynamicDictionary(t *testing.T) {
	d := newTestDictionary(t)
	static := baselineModel(t, d, 8)
	cfg := config.PredictorConfig{MinUseCountToValidateNewWord: 1}
	p := New(cfg, d, static)

	if err := p.TrainDynamicModel("le chat", false); err != ErrNoDynamicModel {
		t.Fatalf("expected ErrNoDynamicModel, got %v", err)
	}
}

func TestTrainDynamicModelShiftsRanking(t *testing.T) {
	d := newTestDictionary(t)
	static := baselineModel(t, d, 8) // "chat" outranks "chien" in the baseline
	dynamic := ngram.NewDynamic(2)

	cfg := config.PredictorConfig{MinUseCountToValidateNewWord: 1, DynamicModelMixture: 0.9}
	p := New(cfg, d, static, WithDynamic(dynamic), WithClock(func() int64 { return 1000 }))

	for i := 0; i < 20; i++ {
		if err := p.TrainDynamicModel("le chien", true); err != nil {
			t.Fatalf("TrainDynamicModel: %v", err)
		}
	}

	out, err := p.Predict("le ", -1, 5, nil)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	chienID, _ := d.WordByText("chien")
	if out[0].WordID1 != chienID.ID {
		t.Fatalf("expected heavily-trained 'chien' to outrank 'chat', got %+v (full list %+v)", out[0], out)
	}
}

func TestPredictCapitalizesSentenceInitial(t *testing.T) {
	d := newTestDictionary(t)
	static := baselineModel(t, d, 8)
	cfg := config.PredictorConfig{MinUseCountToValidateNewWord: 1}
	p := New(cfg, d, static, WithClock(func() int64 { return 1000 }))

	// Empty input: no prefix is in progress, so every full-word candidate
	// surfaces re-cased for the start of a document/sentence.
	out, err := p.Predict("", -1, 5, nil)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	for _, s := range out {
		if s.Display[0] < 'A' || s.Display[0] > 'Z' {
			t.Fatalf("expected sentence-initial suggestion to be capitalized, got %+v", out)
		}
	}
}
