package tagcache

import "testing"

func TestFingerprintIsDeterministic(t *testing.T) {
	snap := snapshotWith(
		TagCount{Tag: "idea", Count: 5},
		TagCount{Tag: "project", Count: 2},
	)

	if fingerprint(snap, 10) != fingerprint(snap, 10) {
		t.Fatalf("fingerprint must be deterministic")
	}
	if fingerprint(nil, 10) != "" {
		t.Fatalf("nil snapshot should produce an empty fingerprint")
	}
}

func TestFingerprintReflectsStructure(t *testing.T) {
	a := snapshotWith(TagCount{Tag: "idea", Count: 5})
	b := snapshotWith(TagCount{Tag: "idea", Count: 6})

	if fingerprint(a, 10) == fingerprint(b, 10) {
		t.Fatalf("leading tag count change should alter the fingerprint")
	}

	c := snapshotWith(TagCount{Tag: "idea", Count: 5})
	c.Documents = append(c.Documents, DocumentTags{FilePath: "a.md", Tags: []string{"idea"}})
	if fingerprint(a, 10) == fingerprint(c, 10) {
		t.Fatalf("section length change should alter the fingerprint")
	}
}

func TestFingerprintIgnoresTagsBeyondWindow(t *testing.T) {
	a := snapshotWith(
		TagCount{Tag: "one", Count: 1},
		TagCount{Tag: "two", Count: 2},
	)
	b := snapshotWith(
		TagCount{Tag: "one", Count: 1},
		TagCount{Tag: "CHANGED", Count: 99},
	)

	// With a window of one, only the first tag feeds the digest; the
	// counts section still matches, so the fingerprints collide. That is
	// the documented best-effort tradeoff.
	if fingerprint(a, 1) != fingerprint(b, 1) {
		t.Fatalf("tags beyond the window must not affect the fingerprint")
	}
}
