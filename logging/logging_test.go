package logging

import "testing"

func TestNewBuildsLoggerForEachLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		cfg := DefaultConfig()
		cfg.Level = level
		l, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", level, err)
		}
		l.Info("hello", String("level", level), Int("n", 1))
	}
}

func TestWithAndNamedReturnDerivedLoggers(t *testing.T) {
	l, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	child := l.With(String("component", "training")).Named("pipeline")
	child.Debug("started", Duration("elapsed", 0))
}

func TestNopLoggerDiscardsEverything(t *testing.T) {
	l := NewNop()
	l.Error("should not panic", Err(nil), Any("x", []int{1, 2}))
	l.With(Bool("flag", true)).Named("child").Info("ok")
}
