package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vibescan/internal/cache"
	"vibescan/internal/ignore"
	"vibescan/internal/language"
)

const sampleGo = `package store

import "fmt"

func open(path string) error {
	if err := check(path); err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "vibescan-scan-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeSnippet(t *testing.T) {
	svc := New(Options{})

	first := svc.Analyze(sampleGo, language.Go)
	second := svc.Analyze(sampleGo, language.Go)

	if first.Attribution.Primary == "" {
		t.Fatal("expected a primary family")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same snippet produced different reports")
	}
	if first.Metadata.FilePath != "" {
		t.Errorf("snippet report carries a file path: %q", first.Metadata.FilePath)
	}
}

func TestAnalyzeFileCaches(t *testing.T) {
	svc := New(Options{})
	path := writeFile(t, "open.go", sampleGo)

	first, err := svc.AnalyzeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	warm := svc.Pipeline().Invocations()

	second, err := svc.AnalyzeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.Pipeline().Invocations(); got != warm {
		t.Errorf("warm call ran analyzers: %d invocations, want %d", got, warm)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached report differs from fresh report")
	}
	if first.Metadata.FilePath != path {
		t.Errorf("FilePath = %q, want %q", first.Metadata.FilePath, path)
	}
}

func TestAnalyzeFileStoresPathFreeEntry(t *testing.T) {
	svc := New(Options{})
	path := writeFile(t, "open.go", sampleGo)

	if _, err := svc.AnalyzeFile(path); err != nil {
		t.Fatal(err)
	}

	key := svc.Cache().HashContent([]byte(sampleGo))
	stored, ok := svc.Cache().Report(key)
	if !ok {
		t.Fatal("no cached report for the file's content hash")
	}
	if stored.Metadata.FilePath != "" {
		t.Errorf("stored entry references a path: %q", stored.Metadata.FilePath)
	}
}

func TestAnalyzeFileSharesCacheByContent(t *testing.T) {
	svc := New(Options{})
	a := writeFile(t, "a.go", sampleGo)
	b := writeFile(t, "b.go", sampleGo)

	if _, err := svc.AnalyzeFile(a); err != nil {
		t.Fatal(err)
	}
	warm := svc.Pipeline().Invocations()

	got, err := svc.AnalyzeFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if svc.Pipeline().Invocations() != warm {
		t.Error("identical content was re-analyzed")
	}
	if got.Metadata.FilePath != b {
		t.Errorf("FilePath = %q, want %q", got.Metadata.FilePath, b)
	}
}

func TestAnalyzeFileNoCache(t *testing.T) {
	store := cache.NewMemoryStore()
	svc := New(Options{Store: store})
	path := writeFile(t, "open.go", sampleGo)

	first, err := svc.AnalyzeFileNoCache(path)
	if err != nil {
		t.Fatal(err)
	}
	before := svc.Pipeline().Invocations()

	second, err := svc.AnalyzeFileNoCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if svc.Pipeline().Invocations() == before {
		t.Error("second uncached call did not re-analyze")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("uncached runs over the same file disagree")
	}

	n, err := store.Count(cache.NSReport)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("uncached analysis wrote %d report entries", n)
	}
}

func TestAnalyzeFileErrors(t *testing.T) {
	svc := New(Options{})

	if _, err := svc.AnalyzeFile(writeFile(t, "notes.txt", "hello")); err == nil {
		t.Error("expected error for unsupported file type")
	}
	if _, err := svc.AnalyzeFile(filepath.Join(os.TempDir(), "vibescan-does-not-exist.go")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAnalyzeFileSymbols(t *testing.T) {
	svc := New(Options{})
	path := writeFile(t, "open.go", sampleGo)

	plain, err := svc.AnalyzeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	withSyms, err := svc.AnalyzeFileSymbols(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(plain.Attribution, withSyms.Attribution) {
		t.Error("symbol analysis changed the file-level attribution")
	}

	again, err := svc.AnalyzeFileSymbolsNoCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(withSyms.SymbolReports, again.SymbolReports) {
		t.Error("cached and uncached symbol reports disagree")
	}
}

func TestAnalyzeDirectoryUsesServiceRules(t *testing.T) {
	svc := New(Options{Rules: ignore.NewPatterns([]string{"gen/"})})

	root, err := os.MkdirTemp("", "vibescan-scan-dir-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })
	for _, rel := range []string{"main.go", filepath.Join("gen", "out.go")} {
		abs := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(sampleGo), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	res, err := svc.AnalyzeDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("got %d files with gen/ ignored, want 1", len(res.Files))
	}

	all, err := svc.AnalyzeDirectoryWith(context.Background(), root, true, ignore.AllowAll{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Files) != 2 {
		t.Fatalf("got %d files with allow-all rules, want 2", len(all.Files))
	}
}
