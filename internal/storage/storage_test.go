package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if _, err := store.Get("tags"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	payload := []byte(`{"hello":"world"}`)
	if err := store.Set("tags", payload); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := store.Get("tags")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("round trip mismatch: got %q", got)
	}

	if err := store.Delete("tags"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get("tags"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStoreDeleteMissingKeyIsNoop(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if err := store.Delete("never-written"); err != nil {
		t.Fatalf("expected nil for missing key delete, got %v", err)
	}
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if err := store.Set("global/tags:cache", []byte("x")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}
	name := entries[0].Name()
	if filepath.Ext(name) != ".json" {
		t.Fatalf("expected .json file, got %q", name)
	}
	for _, r := range name {
		if r == '/' || r == ':' {
			t.Fatalf("unsafe rune %q survived in file name %q", r, name)
		}
	}
}

func TestMemStoreIsolation(t *testing.T) {
	store := NewMemStore()
	payload := []byte("abc")
	if err := store.Set("k", payload); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	payload[0] = 'z'
	got, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("expected stored copy to be isolated from caller mutation, got %q", got)
	}
}
