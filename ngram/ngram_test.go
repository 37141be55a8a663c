package ngram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steosofficial/predict4all/smoothing"
)

func buildSample(t *testing.T) *DynamicDictionary {
	t.Helper()
	d := NewDynamic(3)
	// "le chat" x5, "le chien" x3, "la souris" x2, unigrams for le/la.
	d.PutAndIncrementBy([]int32{10}, 0, 8)  // le
	d.PutAndIncrementBy([]int32{11}, 0, 2)  // la
	d.PutAndIncrementBy([]int32{10, 20}, 0, 5) // le chat
	d.PutAndIncrementBy([]int32{10, 21}, 0, 3) // le chien
	d.PutAndIncrementBy([]int32{11, 22}, 0, 2) // la souris
	return d
}

func TestPutAndIncrementByAccumulatesCounts(t *testing.T) {
	d := buildSample(t)
	n, ok := d.GetNodeForPrefix([]int32{10}, 0)
	if !ok {
		t.Fatal("expected node for 'le'")
	}
	if n.count != 8 {
		t.Fatalf("count = %d, want 8", n.count)
	}
}

func TestUpdateProbabilitiesNormalizesChildren(t *testing.T) {
	d := buildSample(t)
	D := []float32{0.5, 0.5, 0.5}
	d.UpdateProbabilities(D)

	leNode, _ := d.GetNodeForPrefix([]int32{10}, 0)
	var freqSum float32
	leNode.children.ForEachEntry(func(_ int32, c *DynamicNode) { freqSum += c.frequency })
	if freqSum+leNode.backoff < 0.99 || freqSum+leNode.backoff > 1.01 {
		t.Fatalf("freqSum+backoff = %v, want ~1", freqSum+leNode.backoff)
	}
	if leNode.backoff <= 0 {
		t.Fatalf("expected positive backoff mass after discounting, got %v", leNode.backoff)
	}
}

func TestGetProbabilityBacksOffThroughContext(t *testing.T) {
	d := buildSample(t)
	D := []float32{0.5, 0.5, 0.5}
	d.UpdateProbabilities(D)

	p := d.GetProbability([]int32{10}, 0, 1, 20) // P(chat | le)
	if p <= 0 {
		t.Fatalf("expected positive probability, got %v", p)
	}
	pUnknown := d.GetProbability([]int32{10}, 0, 1, 999)
	if pUnknown < 0 || pUnknown >= p {
		t.Fatalf("unseen word probability %v should be from backoff only, less than %v", pUnknown, p)
	}
}

func TestListNextWordsReturnsAllChildren(t *testing.T) {
	d := buildSample(t)
	next := d.ListNextWords([]int32{10}, 0)
	if len(next) != 2 {
		t.Fatalf("len = %d, want 2", len(next))
	}
}

func TestHistogramsCountByOrder(t *testing.T) {
	d := buildSample(t)
	hists := d.Histograms()
	if len(hists) != 3 {
		t.Fatalf("len = %d, want 3", len(hists))
	}
	// order 1 has two children of root: count 8 and count 2.
	if hists[0][8] != 1 || hists[0][2] != 1 {
		t.Fatalf("unexpected order-1 histogram: %v", hists[0])
	}
}

func TestPruneRawCountRemovesLowCountChildren(t *testing.T) {
	d := buildSample(t)
	cfg := smoothing.Config{
		PruningMethod:              smoothing.PruneRawCount,
		NGramPruningCountThreshold: []int64{4},
	}
	d.Prune(cfg, []float32{0.5, 0.5, 0.5})

	// "la" has count 2, below threshold 4, should be pruned from root.
	if _, ok := d.GetNodeForPrefix([]int32{11}, 0); ok {
		t.Fatal("expected low-count root child to be pruned")
	}
	// "le" has count 8, should survive.
	if _, ok := d.GetNodeForPrefix([]int32{10}, 0); !ok {
		t.Fatal("expected high-count root child to survive")
	}
}

func TestSaveAndOpenStaticRoundTrip(t *testing.T) {
	d := buildSample(t)
	d.UpdateProbabilities([]float32{0.5, 0.5, 0.5})

	dir := t.TempDir()
	path := filepath.Join(dir, "static.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Save(f, false); err != nil {
		t.Fatal(err)
	}
	f.Close()

	static, err := OpenStatic(path)
	if err != nil {
		t.Fatalf("OpenStatic failed: %v", err)
	}
	defer static.Close()

	if static.MaxOrder() != 3 {
		t.Fatalf("MaxOrder = %d, want 3", static.MaxOrder())
	}
	next := static.ListNextWords([]int32{10}, 0)
	if len(next) != 2 {
		t.Fatalf("len = %d, want 2", len(next))
	}

	dynProb := d.GetProbability([]int32{10}, 0, 1, 20)
	staticProb := static.GetProbability([]int32{10}, 0, 1, 20)
	if dynProb-staticProb > 1e-5 || staticProb-dynProb > 1e-5 {
		t.Fatalf("probabilities diverged: dynamic=%v static=%v", dynProb, staticProb)
	}
}

func TestStaticDictionaryRejectsMutation(t *testing.T) {
	d := buildSample(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "static.bin")
	f, _ := os.Create(path)
	d.Save(f, false)
	f.Close()

	static, err := OpenStatic(path)
	if err != nil {
		t.Fatal(err)
	}
	defer static.Close()

	if err := static.PutAndIncrementBy(nil, 0, 1); err != ErrUnsupportedMutation {
		t.Fatalf("expected ErrUnsupportedMutation, got %v", err)
	}
}
