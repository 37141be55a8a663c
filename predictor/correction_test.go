package predictor

import "testing"

func TestAccentCorrectorGeneratesSubstitutions(t *testing.T) {
	c := NewAccentCorrector()
	got := c.Generate("e", 1)
	if len(got) == 0 {
		t.Fatal("expected at least one accented alternative")
	}
	for _, cand := range got {
		if cand.Prefix == "e" {
			t.Fatalf("generator should never return the unmodified prefix, got %+v", cand)
		}
		if cand.Cost <= 0 {
			t.Fatalf("expected positive cost, got %+v", cand)
		}
	}
}

func TestAccentCorrectorRespectsMaxCost(t *testing.T) {
	c := NewAccentCorrector()
	if got := c.Generate("e", 0); got != nil {
		t.Fatalf("expected no candidates at maxCost 0, got %+v", got)
	}
}

func TestAccentCorrectorMultiPositionWithinBudget(t *testing.T) {
	c := NewAccentCorrector()
	got := c.Generate("aio", 2)
	found := false
	for _, cand := range got {
		if cand.Prefix == "àiô" && cand.Cost == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'àiô' at cost 2 among %+v", got)
	}
}

func TestRuleSetCorrectorCustomRules(t *testing.T) {
	c := NewRuleSetCorrector([]CorrectionRule{
		{From: 's', To: []rune{'z'}, Cost: 2},
	})
	got := c.Generate("bas", 2)
	if len(got) != 1 || got[0].Prefix != "baz" || got[0].Cost != 2 {
		t.Fatalf("got %+v", got)
	}
}
