package tagcache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davenportd/scribe/internal/storage"
)

// StorageKey is the fixed key the persisted cache record lives under.
const StorageKey = "global-tags-cache"

// Service owns the process-wide tag cache. It is safe for concurrent use;
// consumers only read snapshots or trigger refreshes, never mutate entries.
// Snapshots handed out by Get, FilterTags and SuggestTags are read-only.
type Service struct {
	mu      sync.Mutex
	cfg     Config
	source  Source
	store   storage.Store
	rec     *record
	filter  *resultCache
	suggest *resultCache
	subs    map[int]func(*GlobalTags)
	nextSub int
	closed  bool

	flight singleflight.Group
	now    func() time.Time
}

// Stats captures tier sizes for diagnostics and tests.
type Stats struct {
	HasSnapshot       bool
	SnapshotAge       time.Duration
	SnapshotTags      int
	SnapshotBytes     int64
	FilterEntries     int
	SuggestionEntries int
}

// CleanupReport describes what a memory-pressure sweep released.
type CleanupReport struct {
	ClearedItems int
	FreedBytes   int64
}

// NewService builds a cache over the given tag source and store, then
// attempts to restore the previously persisted record. A corrupt or
// malformed persisted record is discarded and deleted; the service starts
// cold in that case.
func NewService(source Source, store storage.Store, cfg Config) *Service {
	s := &Service{
		cfg:    cfg.withDefaults(),
		source: source,
		store:  store,
		subs:   make(map[int]func(*GlobalTags)),
		now:    time.Now,
	}
	s.filter = newResultCache(s.cfg.FilterTTL, s.cfg.MaxFilterEntries)
	s.suggest = newResultCache(s.cfg.SuggestionTTL, s.cfg.MaxSuggestionEntries)
	s.restore()
	return s
}

// Get returns the current snapshot. A resident record younger than the
// primary TTL is returned immediately; otherwise one fetch runs and every
// concurrent caller joins it. Data source failures degrade to an empty
// snapshot so callers never see an error from this path, only "no tags yet".
func (s *Service) Get(ctx context.Context, forceRefresh bool) *GlobalTags {
	if s == nil {
		return Empty()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Empty()
	}
	if !forceRefresh && s.rec != nil && s.now().Sub(s.rec.Timestamp) < s.cfg.PrimaryTTL {
		data := s.rec.Data
		s.mu.Unlock()
		return data
	}
	s.mu.Unlock()

	v, _, _ := s.flight.Do(StorageKey, func() (interface{}, error) {
		data, err := s.source(ctx)
		if err != nil || data == nil {
			log.Printf("tagcache: tag source fetch failed: %v", err)
			return Empty(), nil
		}
		s.install(data)
		return data, nil
	})
	return v.(*GlobalTags)
}

// Refresh forces a new fetch, joining any fetch already in flight.
func (s *Service) Refresh(ctx context.Context) *GlobalTags {
	return s.Get(ctx, true)
}

// Preload warms the cache in the background. Failures are already absorbed
// by Get, so the outcome is deliberately ignored.
func (s *Service) Preload(ctx context.Context) {
	go func() {
		s.Get(ctx, false)
	}()
}

// install publishes a freshly fetched snapshot: record first, then durable
// persistence, then derived-tier invalidation and listener notification.
// Listeners are therefore guaranteed the snapshot they receive is also
// retrievable via Get without another fetch.
func (s *Service) install(data *GlobalTags) {
	rec := &record{
		Data:        data,
		Timestamp:   s.now(),
		Fingerprint: fingerprint(data, s.cfg.FingerprintTags),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.rec = rec
	s.mu.Unlock()

	s.persist(rec)

	s.mu.Lock()
	s.filter.purge()
	s.suggest.purge()
	listeners := make([]func(*GlobalTags), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		notifyListener(fn, data)
	}
}

// notifyListener isolates one listener invocation so a panicking observer
// cannot prevent the others from running or corrupt cache state.
func notifyListener(fn func(*GlobalTags), data *GlobalTags) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tagcache: listener panicked: %v", r)
		}
	}()
	fn(data)
}

// Subscribe registers a listener invoked synchronously with each new
// snapshot. The returned function removes the subscription.
func (s *Service) Subscribe(fn func(*GlobalTags)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// FilterTags returns the cached tags matching query, memoized in the filter
// tier. It computes from whatever snapshot is resident, even a stale one,
// and never triggers a fetch; with no snapshot resident it returns an empty
// list rather than blocking on the data source.
func (s *Service) FilterTags(query string, limit int) []TagCount {
	return s.derived(s.filter, query, limit, filterTopTags)
}

// SuggestTags is FilterTags' completion-oriented twin with its own, shorter
// lived tier: prefix matches first, substring matches as backfill.
func (s *Service) SuggestTags(query string, limit int) []TagCount {
	return s.derived(s.suggest, query, limit, suggestTopTags)
}

func (s *Service) derived(
	tier *resultCache,
	query string,
	limit int,
	compute func([]TagCount, string, int) []TagCount,
) []TagCount {
	if s == nil {
		return []TagCount{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return []TagCount{}
	}

	now := s.now()
	key := derivedKey(query, limit)
	if values, ok := tier.get(key, now); ok {
		return values
	}

	if s.rec == nil {
		return []TagCount{}
	}

	values := compute(s.rec.Data.TopTags, query, limit)
	tier.put(key, values, now)
	return values
}

// Cleanup responds to memory pressure. Eviction runs least-valuable first:
// suggestion entries, then filter entries, then the primary snapshot — but
// the snapshot only when it is already past its TTL, since evicting a
// still-valid snapshot would force a fetch on the very next access.
func (s *Service) Cleanup() CleanupReport {
	if s == nil {
		return CleanupReport{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var report CleanupReport

	entries, bytes := s.suggest.purge()
	report.ClearedItems += entries
	report.FreedBytes += bytes

	entries, bytes = s.filter.purge()
	report.ClearedItems += entries
	report.FreedBytes += bytes

	if s.rec != nil && s.now().Sub(s.rec.Timestamp) >= s.cfg.PrimaryTTL {
		report.ClearedItems++
		report.FreedBytes += s.rec.bytes()
		s.rec = nil
	}

	return report
}

// Clear drops every tier and the persisted record.
func (s *Service) Clear() {
	if s == nil {
		return
	}

	s.mu.Lock()
	s.rec = nil
	s.filter.purge()
	s.suggest.purge()
	s.mu.Unlock()

	if err := s.store.Delete(StorageKey); err != nil {
		log.Printf("tagcache: clear persisted record: %v", err)
	}
}

// Stats reports tier sizes.
func (s *Service) Stats() Stats {
	if s == nil {
		return Stats{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		FilterEntries:     s.filter.len(),
		SuggestionEntries: s.suggest.len(),
	}
	if s.rec != nil {
		st.HasSnapshot = true
		st.SnapshotAge = s.now().Sub(s.rec.Timestamp)
		st.SnapshotTags = len(s.rec.Data.TopTags)
		st.SnapshotBytes = s.rec.bytes()
	}
	return st
}

// Flush persists the current record best-effort. It is the shutdown hook;
// failures are logged and swallowed.
func (s *Service) Flush() {
	if s == nil {
		return
	}

	s.mu.Lock()
	rec := s.rec
	s.mu.Unlock()

	if rec == nil {
		return
	}
	s.persist(rec)
}

// Close flushes and shuts the service down. Subsequent reads return empty
// snapshots.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.rec = nil
	s.filter.purge()
	s.suggest.purge()
	s.subs = nil
	return nil
}

func (s *Service) persist(rec *record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("tagcache: encode record: %v", err)
		return
	}
	if err := s.store.Set(StorageKey, payload); err != nil {
		log.Printf("tagcache: persist record: %v", err)
	}
}

// restore loads the persisted record, accepting it only when its shape
// survives a structural check and its fingerprint recomputes to the stored
// value. Anything else is deleted so a bad payload is never retried
// forever.
func (s *Service) restore() {
	raw, err := s.store.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("tagcache: load persisted record: %v", err)
		return
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Printf("tagcache: discarding corrupt persisted record: %v", err)
		s.discardPersisted()
		return
	}

	if rec.Data == nil || rec.Data.TopTags == nil || rec.Timestamp.IsZero() {
		log.Printf("tagcache: discarding malformed persisted record")
		s.discardPersisted()
		return
	}

	if rec.Fingerprint != fingerprint(rec.Data, s.cfg.FingerprintTags) {
		log.Printf("tagcache: discarding persisted record with stale fingerprint")
		s.discardPersisted()
		return
	}

	s.rec = &rec
}

func (s *Service) discardPersisted() {
	if err := s.store.Delete(StorageKey); err != nil {
		log.Printf("tagcache: delete bad persisted record: %v", err)
	}
}
