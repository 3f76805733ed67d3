package handler

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNote(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("note"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestWalkFilesSkipsHiddenAndExcluded(t *testing.T) {
	dir := t.TempDir()
	keep := writeNote(t, dir, "keep.md")
	writeNote(t, dir, "archive/old.md")
	writeNote(t, dir, ".hidden/secret.md")
	writeNote(t, dir, "readme.txt")

	files, err := NewFileHandler(dir).WalkFiles([]string{"archive"})
	if err != nil {
		t.Fatalf("WalkFiles returned error: %v", err)
	}
	if len(files) != 1 || files[0] != keep {
		t.Fatalf("expected only %q, got %v", keep, files)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	note := writeNote(t, dir, "sub/idea.md")
	h := NewFileHandler(dir)

	if err := h.Archive(note); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}

	archived := filepath.Join(dir, "archive", "sub", "idea.md")
	if _, err := os.Stat(archived); err != nil {
		t.Fatalf("expected archived note at %s: %v", archived, err)
	}

	if err := h.Unarchive(archived); err != nil {
		t.Fatalf("Unarchive returned error: %v", err)
	}
	if _, err := os.Stat(note); err != nil {
		t.Fatalf("expected restored note at %s: %v", note, err)
	}
}

func TestTrashRoundTrip(t *testing.T) {
	dir := t.TempDir()
	note := writeNote(t, dir, "idea.md")
	h := NewFileHandler(dir)

	if err := h.Trash(note); err != nil {
		t.Fatalf("Trash returned error: %v", err)
	}

	trashed := filepath.Join(dir, "trash", "idea.md")
	if _, err := os.Stat(trashed); err != nil {
		t.Fatalf("expected trashed note at %s: %v", trashed, err)
	}

	if err := h.Untrash(trashed); err != nil {
		t.Fatalf("Untrash returned error: %v", err)
	}
	if _, err := os.Stat(note); err != nil {
		t.Fatalf("expected restored note at %s: %v", note, err)
	}
}
