// Package tagcache keeps an application-wide index of tag usage available to
// every consumer without re-scanning the vault on each lookup. It layers a
// singleton snapshot cache (TTL + single-flight refresh + durable
// persistence) under two short-lived memoization tiers for filter and
// suggestion queries, and broadcasts fresh snapshots to subscribers.
package tagcache

import (
	"context"
	"time"
)

// TagCount is one tag with its usage count across the vault.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagRelation is a co-occurrence edge between two tags. Strength is the
// number of documents in which both tags appear.
type TagRelation struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
}

// DocumentTags lists the tags of a single document, in document order.
type DocumentTags struct {
	FilePath string   `json:"filePath"`
	Tags     []string `json:"tags"`
}

// GlobalTags is the unit of caching, persistence and change notification.
// Snapshots are always replaced wholesale, never patched in place, and must
// be treated as read-only by consumers.
type GlobalTags struct {
	TopTags   []TagCount     `json:"topTags"`
	Relations []TagRelation  `json:"tagRelations"`
	Documents []DocumentTags `json:"documentTags"`
}

// Source produces a full GlobalTags snapshot. It is owned outside this
// package; the vault scanner satisfies it.
type Source func(ctx context.Context) (*GlobalTags, error)

// Config enumerates every tunable of the cache.
type Config struct {
	PrimaryTTL    time.Duration
	FilterTTL     time.Duration
	SuggestionTTL time.Duration

	MaxFilterEntries     int
	MaxSuggestionEntries int

	// FingerprintTags is how many leading top tags feed the record
	// fingerprint.
	FingerprintTags int
}

// DefaultConfig returns the standard tunables: a five minute snapshot TTL
// with two minute filter and thirty second suggestion tiers. The suggestion
// TTL is deliberately short so results stay responsive to rapid typing.
func DefaultConfig() Config {
	return Config{
		PrimaryTTL:           5 * time.Minute,
		FilterTTL:            2 * time.Minute,
		SuggestionTTL:        30 * time.Second,
		MaxFilterEntries:     64,
		MaxSuggestionEntries: 128,
		FingerprintTags:      10,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PrimaryTTL <= 0 {
		c.PrimaryTTL = def.PrimaryTTL
	}
	if c.FilterTTL <= 0 {
		c.FilterTTL = def.FilterTTL
	}
	if c.SuggestionTTL <= 0 {
		c.SuggestionTTL = def.SuggestionTTL
	}
	if c.MaxFilterEntries <= 0 {
		c.MaxFilterEntries = def.MaxFilterEntries
	}
	if c.MaxSuggestionEntries <= 0 {
		c.MaxSuggestionEntries = def.MaxSuggestionEntries
	}
	if c.FingerprintTags <= 0 {
		c.FingerprintTags = def.FingerprintTags
	}
	return c
}

// Empty returns a valid snapshot with no tags. Callers that hit a data
// source failure receive this rather than an error.
func Empty() *GlobalTags {
	return &GlobalTags{
		TopTags:   []TagCount{},
		Relations: []TagRelation{},
		Documents: []DocumentTags{},
	}
}

// record is the persisted unit: one snapshot with its creation time and a
// structural fingerprint.
type record struct {
	Data        *GlobalTags `json:"data"`
	Timestamp   time.Time   `json:"timestamp"`
	Fingerprint string      `json:"fingerprint"`
}

func (r *record) bytes() int64 {
	if r == nil || r.Data == nil {
		return 0
	}
	var n int64
	for _, tc := range r.Data.TopTags {
		n += int64(len(tc.Tag)) + 16
	}
	for _, rel := range r.Data.Relations {
		n += int64(len(rel.Source)+len(rel.Target)) + 24
	}
	for _, doc := range r.Data.Documents {
		n += int64(len(doc.FilePath)) + 16
		for _, tag := range doc.Tags {
			n += int64(len(tag)) + 16
		}
	}
	return n
}
