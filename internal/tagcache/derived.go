package tagcache

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davenportd/scribe/internal/cache"
)

// resultCache is one derived memoization tier. Entries carry no individual
// timestamps; the tier is stamped when it first fills after a clear and the
// whole tier expires together, which keeps expiry uniform and cheap.
type resultCache struct {
	ttl       time.Duration
	lru       *cache.LRU[[]TagCount]
	stampedAt time.Time
}

func newResultCache(ttl time.Duration, maxEntries int) *resultCache {
	return &resultCache{
		ttl: ttl,
		lru: cache.NewLRU[[]TagCount](maxEntries, sizeOfTagCounts),
	}
}

func sizeOfTagCounts(key string, values []TagCount) int64 {
	n := int64(len(key))
	for _, tc := range values {
		n += int64(len(tc.Tag)) + 16
	}
	return n
}

func (rc *resultCache) get(key string, now time.Time) ([]TagCount, bool) {
	if rc.lru.Len() == 0 {
		return nil, false
	}
	if now.Sub(rc.stampedAt) >= rc.ttl {
		rc.purge()
		return nil, false
	}
	return rc.lru.Get(key)
}

func (rc *resultCache) put(key string, values []TagCount, now time.Time) {
	if rc.lru.Len() == 0 {
		rc.stampedAt = now
	}
	rc.lru.Put(key, values)
}

func (rc *resultCache) purge() (int, int64) {
	rc.stampedAt = time.Time{}
	return rc.lru.Purge()
}

func (rc *resultCache) len() int {
	return rc.lru.Len()
}

func derivedKey(query string, limit int) string {
	return normalizeQuery(query) + "|" + strconv.Itoa(limit)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// filterTopTags returns the tags whose names contain the query,
// case-insensitively. Prefix matches sort ahead of substring matches, then
// higher usage counts, then tag name.
func filterTopTags(top []TagCount, query string, limit int) []TagCount {
	q := normalizeQuery(query)

	matches := make([]TagCount, 0, limit)
	for _, tc := range top {
		if q == "" || strings.Contains(strings.ToLower(tc.Tag), q) {
			matches = append(matches, tc)
		}
	}
	sortMatches(matches, q)

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// suggestTopTags favors completions: prefix matches come first and
// substring matches only backfill remaining room under the limit.
func suggestTopTags(top []TagCount, query string, limit int) []TagCount {
	q := normalizeQuery(query)
	if q == "" {
		return filterTopTags(top, "", limit)
	}

	prefixed := make([]TagCount, 0, limit)
	contained := make([]TagCount, 0, limit)
	for _, tc := range top {
		lowered := strings.ToLower(tc.Tag)
		switch {
		case strings.HasPrefix(lowered, q):
			prefixed = append(prefixed, tc)
		case strings.Contains(lowered, q):
			contained = append(contained, tc)
		}
	}
	sortMatches(prefixed, q)
	sortMatches(contained, q)

	out := prefixed
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	for _, tc := range contained {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, tc)
	}
	return out
}

func sortMatches(matches []TagCount, query string) {
	sort.SliceStable(matches, func(i, j int) bool {
		left := strings.HasPrefix(strings.ToLower(matches[i].Tag), query)
		right := strings.HasPrefix(strings.ToLower(matches[j].Tag), query)
		if left != right {
			return left
		}
		if matches[i].Count != matches[j].Count {
			return matches[i].Count > matches[j].Count
		}
		return matches[i].Tag < matches[j].Tag
	})
}
