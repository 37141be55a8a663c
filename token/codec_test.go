package token

import (
	"bytes"
	"io"
	"testing"
)

func TestStreamRoundTrip(t *testing.T) {
	tokens := []Token{
		NewWord("bonjour"),
		NewSeparator(SepSpace),
		NewWord("le"),
		NewEquivalenceClass(ClassPercent, "12%"),
		NewTag(TagStart),
		NewTag(TagUnknown),
		NewSeparator(SepApostrophe),
	}

	var buf bytes.Buffer
	w := NewStreamWriter(&buf)
	for _, tok := range tokens {
		if err := w.Write(tok); err != nil {
			t.Fatalf("write %v: %v", tok, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	r := NewStreamReader(&buf)
	got, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(tokens) {
		t.Fatalf("got %d tokens, want %d", len(got), len(tokens))
	}
	for i := range tokens {
		if got[i] != tokens[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], tokens[i])
		}
	}
}

func TestStreamReaderEOFSentinel(t *testing.T) {
	r := NewStreamReader(bytes.NewReader(nil))
	_, err := r.Read()
	if err != io.EOF {
		t.Fatalf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestStreamReaderUnknownType(t *testing.T) {
	r := NewStreamReader(bytes.NewReader([]byte{99}))
	_, err := r.Read()
	if err == nil {
		t.Fatal("expected decode error for unknown type byte")
	}
}

func TestWordStreamRoundTrip(t *testing.T) {
	records := []WordRecord{
		{Type: WordRecordSimple, ID: 42, Text: "chien", ProbFactor: 1.0, ModifiedBySystem: true},
		{Type: WordRecordUser, ID: 43, Text: "néologisme", ProbFactor: 0.5, UsageCount: 3, LastUseEpochMs: 1700000000000},
		{Type: WordRecordEquivalenceClass, ID: int32(ClassInteger), ClassKind: ClassInteger},
		{Type: WordRecordTag, ID: int32(TagUnknown), Tag: TagUnknown},
	}

	var buf bytes.Buffer
	w := NewWordStreamWriter(&buf)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write %+v: %v", rec, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := NewWordStreamReader(&buf)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer r.Close()

	got, err := ReadAllWords(r)
	if err != nil {
		t.Fatalf("ReadAllWords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestTokenWordID(t *testing.T) {
	resolver := stubResolver{ids: map[string]int32{"chien": 7}}

	if id, ok := NewWord("chien").WordID(resolver); !ok || id != 7 {
		t.Errorf("word id: got (%d,%v), want (7,true)", id, ok)
	}
	if _, ok := NewWord("absent").WordID(resolver); ok {
		t.Error("expected unresolved word to report ok=false")
	}
	if id, ok := NewEquivalenceClass(ClassPercent, "5%").WordID(resolver); !ok || id != int32(ClassPercent) {
		t.Errorf("class id: got (%d,%v)", id, ok)
	}
	if id, ok := NewTag(TagStart).WordID(resolver); !ok || int(id) != TagStart.ID() {
		t.Errorf("tag id: got (%d,%v), want %d", id, ok, TagStart.ID())
	}
	if _, ok := NewSeparator(SepSpace).WordID(resolver); ok {
		t.Error("separators must not resolve to a word id")
	}
}

type stubResolver struct{ ids map[string]int32 }

func (s stubResolver) WordID(text string) (int32, bool) {
	id, ok := s.ids[text]
	return id, ok
}
