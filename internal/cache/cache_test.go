package cache

import (
	"testing"

	"vibescan/internal/heuristics"
	"vibescan/internal/logging"
	"vibescan/internal/report"
)

func testCache(t *testing.T) (*Cache, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(store, heuristics.Defaults{}, logging.NewNopLogger()), store
}

func sampleReport() report.Report {
	return report.Report{
		Attribution: report.Attribution{
			Primary:    report.FamilyClaude,
			Confidence: 0.75,
			Scores: map[report.ModelFamily]float64{
				report.FamilyClaude: 0.75,
				report.FamilyHuman:  0.25,
			},
		},
		Signals: []report.Signal{
			{ID: "go.errors.errorf_wrap", Source: "error_handling", Family: report.FamilyClaude, Weight: 1.0},
		},
		Metadata: report.Metadata{FilePath: "a.go", LinesOfCode: 12, SignalCount: 1},
	}
}

func TestHashContentDeterministic(t *testing.T) {
	c, _ := testCache(t)

	a := c.HashContent([]byte("package main"))
	b := c.HashContent([]byte("package main"))
	if a != b {
		t.Error("same content must hash identically")
	}

	if c.HashContent([]byte("package main\n")) == a {
		t.Error("a single added byte must change the hash")
	}
}

func TestHashContentVariesWithEpoch(t *testing.T) {
	store := NewMemoryStore()
	defaults := New(store, heuristics.Defaults{}, logging.NewNopLogger())

	tuned, err := heuristics.NewConfigured(map[string]float64{"go.errors.panic_calls": 9})
	if err != nil {
		t.Fatal(err)
	}
	overridden := New(store, tuned, logging.NewNopLogger())

	content := []byte("package main")
	if defaults.HashContent(content) == overridden.HashContent(content) {
		t.Error("weight overrides must rotate the key domain")
	}
}

func TestReportRoundtrip(t *testing.T) {
	c, _ := testCache(t)
	key := c.HashContent([]byte("package a"))

	if _, ok := c.Report(key); ok {
		t.Fatal("cold cache should miss")
	}

	want := sampleReport()
	c.PutReport(key, want)

	got, ok := c.Report(key)
	if !ok {
		t.Fatal("warm cache should hit")
	}
	if got.Attribution.Primary != want.Attribution.Primary {
		t.Errorf("primary = %v, want %v", got.Attribution.Primary, want.Attribution.Primary)
	}
	if got.Metadata.LinesOfCode != 12 {
		t.Errorf("lines = %d, want 12", got.Metadata.LinesOfCode)
	}
	if len(got.Signals) != 1 || got.Signals[0].ID != "go.errors.errorf_wrap" {
		t.Errorf("signals survived badly: %+v", got.Signals)
	}
}

func TestCorruptEntrySelfHeals(t *testing.T) {
	c, store := testCache(t)
	key := c.HashContent([]byte("package a"))

	if err := store.Put(NSReport, key, []byte("not zstd at all")); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Report(key); ok {
		t.Fatal("corrupt entry must read as a miss")
	}

	// The corrupt slot is gone, and a fresh write works.
	if _, ok, _ := store.Get(NSReport, key); ok {
		t.Error("corrupt entry should have been evicted")
	}
	c.PutReport(key, sampleReport())
	if _, ok := c.Report(key); !ok {
		t.Error("slot should accept a fresh value after healing")
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	c, _ := testCache(t)
	key := c.HashContent([]byte("shared"))

	c.PutReport(key, sampleReport())

	if _, ok := c.Symbols(key); ok {
		t.Error("symbol namespace must not see report entries")
	}
	if _, ok := c.Dir(key); ok {
		t.Error("dir namespace must not see report entries")
	}
}

func TestSymbolsAndDirRoundtrip(t *testing.T) {
	c, _ := testCache(t)
	key := c.HashContent([]byte("x"))

	syms := []report.SymbolReport{{
		Symbol:      report.SymbolMetadata{Name: "Open", Kind: "function", StartLine: 3, EndLine: 9},
		Attribution: sampleReport().Attribution,
	}}
	c.PutSymbols(key, syms)
	got, ok := c.Symbols(key)
	if !ok || len(got) != 1 || got[0].Symbol.Name != "Open" {
		t.Errorf("symbols roundtrip failed: %+v ok=%v", got, ok)
	}

	d := report.DirScore{Attribution: sampleReport().Attribution, Weight: 40, Files: 2}
	c.PutDir(key, d)
	gd, ok := c.Dir(key)
	if !ok || gd.Weight != 40 || gd.Files != 2 {
		t.Errorf("dir roundtrip failed: %+v ok=%v", gd, ok)
	}
}

func TestParseHex(t *testing.T) {
	c, _ := testCache(t)
	key := c.HashContent([]byte("abc"))

	parsed, err := ParseHex(key.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != key {
		t.Error("hex roundtrip changed the hash")
	}

	if _, err := ParseHex("zz"); err == nil {
		t.Error("bad hex should fail")
	}
	if _, err := ParseHex("abcd"); err == nil {
		t.Error("short hex should fail")
	}
}
