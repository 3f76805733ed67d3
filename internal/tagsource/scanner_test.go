package tagsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davenportd/scribe/internal/tagcache"
)

func writeTestNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func topTagCount(snap *tagcache.GlobalTags, tag string) int {
	for _, tc := range snap.TopTags {
		if tc.Tag == tag {
			return tc.Count
		}
	}
	return 0
}

func TestSnapshotAggregatesFrontMatterAndInlineTags(t *testing.T) {
	dir := t.TempDir()
	writeTestNote(t, dir, "first.md", `---
title: First
tags:
  - idea
  - project
---
Working on @research today.
`)
	writeTestNote(t, dir, "second.md", `---
tags: idea
---
Also about #project planning.
`)

	snap, err := NewScanner(dir, Options{}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if got := topTagCount(snap, "idea"); got != 2 {
		t.Fatalf("expected idea count 2, got %d", got)
	}
	if got := topTagCount(snap, "project"); got != 2 {
		t.Fatalf("expected project count 2, got %d", got)
	}
	if got := topTagCount(snap, "research"); got != 1 {
		t.Fatalf("expected research count 1, got %d", got)
	}

	if len(snap.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %+v", snap.Documents)
	}
	if snap.Documents[0].FilePath != "first.md" {
		t.Fatalf("expected vault-relative paths, got %q", snap.Documents[0].FilePath)
	}
}

func TestSnapshotBuildsCoOccurrenceRelations(t *testing.T) {
	dir := t.TempDir()
	writeTestNote(t, dir, "a.md", "---\ntags: [idea, project]\n---\nbody")
	writeTestNote(t, dir, "b.md", "---\ntags: [idea, project]\n---\nbody")
	writeTestNote(t, dir, "c.md", "---\ntags: [idea, research]\n---\nbody")

	snap, err := NewScanner(dir, Options{}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if len(snap.Relations) != 2 {
		t.Fatalf("expected 2 relations, got %+v", snap.Relations)
	}
	strongest := snap.Relations[0]
	if strongest.Source != "idea" || strongest.Target != "project" || strongest.Strength != 2 {
		t.Fatalf("expected idea-project strength 2 first, got %+v", strongest)
	}
}

func TestSnapshotIgnoresCodeBlocksAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeTestNote(t, dir, "note.md", `---
tags: [idea]
---
Mentioning @idea again and @idea once more.

`+"```"+`
@fake-tag in a code block
`+"```"+`

Inline `+"`@alsofake`"+` mention.
`)

	snap, err := NewScanner(dir, Options{}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if got := topTagCount(snap, "idea"); got != 1 {
		t.Fatalf("expected a single per-document idea count, got %d", got)
	}
	if got := topTagCount(snap, "fake-tag"); got != 0 {
		t.Fatalf("code block tags must not be counted, got %d", got)
	}
	if got := topTagCount(snap, "alsofake"); got != 0 {
		t.Fatalf("code span tags must not be counted, got %d", got)
	}
}

func TestSnapshotSkipsIgnoredAndHiddenFolders(t *testing.T) {
	dir := t.TempDir()
	writeTestNote(t, dir, "keep.md", "---\ntags: [keep]\n---\n")
	writeTestNote(t, dir, "archive/old.md", "---\ntags: [old]\n---\n")
	writeTestNote(t, dir, ".obsidian/meta.md", "---\ntags: [meta]\n---\n")

	snap, err := NewScanner(dir, Options{IgnoredFolders: []string{"archive"}}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if got := topTagCount(snap, "keep"); got != 1 {
		t.Fatalf("expected keep count 1, got %d", got)
	}
	if topTagCount(snap, "old") != 0 || topTagCount(snap, "meta") != 0 {
		t.Fatalf("ignored folders leaked into the snapshot: %+v", snap.TopTags)
	}
}

func TestSnapshotHonorsModifiedAfter(t *testing.T) {
	dir := t.TempDir()
	old := writeTestNote(t, dir, "old.md", "---\ntags: [old]\n---\n")
	writeTestNote(t, dir, "new.md", "---\ntags: [new]\n---\n")

	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	snap, err := NewScanner(dir, Options{ModifiedAfter: time.Now().Add(-time.Hour)}).
		Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if topTagCount(snap, "old") != 0 {
		t.Fatalf("expected old note to be filtered out")
	}
	if topTagCount(snap, "new") != 1 {
		t.Fatalf("expected new note to be included")
	}
}

func TestSnapshotEmptyVaultYieldsEmptySnapshot(t *testing.T) {
	snap, err := NewScanner(t.TempDir(), Options{}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snap.TopTags == nil || snap.Relations == nil || snap.Documents == nil {
		t.Fatalf("expected initialized empty sections, got %+v", snap)
	}
	if len(snap.TopTags) != 0 {
		t.Fatalf("expected no tags, got %+v", snap.TopTags)
	}
}

func TestSnapshotCancellation(t *testing.T) {
	dir := t.TempDir()
	writeTestNote(t, dir, "note.md", "---\ntags: [idea]\n---\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewScanner(dir, Options{}).Snapshot(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
