package tagcache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// fingerprint derives a short digest from the snapshot's section lengths and
// its first n top tags. It exists to catch structurally corrupt persisted
// records; two distinct snapshots with identical leading top tags can share
// a fingerprint, so it must never be used for content equality.
func fingerprint(data *GlobalTags, n int) string {
	if data == nil {
		return ""
	}

	limit := n
	if limit > len(data.TopTags) {
		limit = len(data.TopTags)
	}

	var head strings.Builder
	for _, tc := range data.TopTags[:limit] {
		fmt.Fprintf(&head, "%s=%d;", tc.Tag, tc.Count)
	}

	return fmt.Sprintf(
		"%d:%d:%d:%016x",
		len(data.TopTags),
		len(data.Relations),
		len(data.Documents),
		xxhash.Sum64String(head.String()),
	)
}
