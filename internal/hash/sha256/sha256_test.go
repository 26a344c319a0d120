// Package sha256 includes tests for the SHA-256 hasher adapter.
package sha256

import (
	"os"
	"path/filepath"
	"testing"
)

// TestHasherHashFile checks the streaming digest against a known value.
func TestHasherHashFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "source.csv")
	if err := os.WriteFile(path, []byte("hello world"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	h := New()
	fromFile, err := h.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if fromFile != want {
		t.Fatalf("expected %s, got %s", want, fromFile)
	}

	again, err := h.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() repeat error = %v", err)
	}
	if again != fromFile {
		t.Fatalf("expected deterministic digest, got %s vs %s", fromFile, again)
	}
}

// TestHasherHashFileMissing surfaces an error for absent files.
func TestHasherHashFileMissing(t *testing.T) {
	t.Parallel()

	h := New()
	if _, err := h.HashFile(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
