package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "vibescan-paths-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tempDir) })

	testFile := filepath.Join(tempDir, "subdir", "test.go")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("package test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	canonical, err := Canonicalize(testFile, tempDir)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	expected := "subdir/test.go"
	if canonical != expected {
		t.Errorf("Expected %s, got %s", expected, canonical)
	}
}

func TestCanonicalize_Nonexistent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "vibescan-paths-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tempDir) })

	// A file that does not exist yet still canonicalizes.
	canonical, err := Canonicalize(filepath.Join(tempDir, "future.go"), tempDir)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if canonical != "future.go" {
		t.Errorf("Expected future.go, got %s", canonical)
	}
}

func TestNormalize(t *testing.T) {
	result := Normalize("path/to/file")
	expected := "path/to/file"
	if result != expected {
		t.Errorf("Normalize(path/to/file): expected %s, got %s", expected, result)
	}
}

func TestJoinRoot(t *testing.T) {
	result := JoinRoot("/repo/root", "path/to/file.go")
	expected := filepath.Join("/repo/root", "path", "to", "file.go")
	if result != expected {
		t.Errorf("JoinRoot: expected %s, got %s", expected, result)
	}
}

func TestIsWithinRoot(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "vibescan-paths-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tempDir) })

	testFile := filepath.Join(tempDir, "subdir", "test.go")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("package test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !IsWithinRoot(testFile, tempDir) {
		t.Error("Expected file to be within root")
	}

	outsideFile := filepath.Join(os.TempDir(), "outside.go")
	if IsWithinRoot(outsideFile, tempDir) {
		t.Error("Expected file outside root to return false")
	}
}
